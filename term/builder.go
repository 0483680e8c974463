package term

import (
	"sort"

	"github.com/realpaver-go/ncsp/interval"
)

// Builder constructs Terms, optionally applying the bottom-up
// simplifications described in the package doc: constant folding,
// absorption of additive/multiplicative identities, and collection of
// linear add/sub/scale chains into a single OpLin node.
type Builder struct {
	simplify bool
}

// NewBuilder returns a Builder. When simplify is false every
// constructor builds the term literally, which test code uses to
// assert on a specific tree shape.
func NewBuilder(simplify bool) Builder { return Builder{simplify: simplify} }

func leaf(op Op, children ...*node) *node { return &node{op: op, children: children} }

// Const returns the constant interval x.
func (b Builder) Const(x interval.Interval) Term {
	return wrap(&node{op: OpConst, value: x})
}

// Num returns the degenerate constant v.
func (b Builder) Num(v float64) Term { return b.Const(interval.Degenerate(v)) }

// Var returns a reference to the variable with the given id.
func (b Builder) Var(id int) Term { return wrap(&node{op: OpVar, varID: id}) }

func constOf(t Term) (interval.Interval, bool) {
	if t.n.op == OpConst {
		return t.n.value, true
	}
	return interval.Interval{}, false
}

// Add returns l + r.
func (b Builder) Add(l, r Term) Term {
	if b.simplify {
		if l.IsZero() {
			return r
		}
		if r.IsZero() {
			return l
		}
		if cl, ok := constOf(l); ok {
			if cr, ok := constOf(r); ok {
				return b.Const(interval.Add(cl, cr))
			}
		}
		if lin, ok := b.asLinear(l, r, false); ok {
			return lin
		}
	}
	return wrap(leaf(OpAdd, l.n, r.n))
}

// Sub returns l - r.
func (b Builder) Sub(l, r Term) Term {
	if b.simplify {
		if r.IsZero() {
			return l
		}
		if cl, ok := constOf(l); ok {
			if cr, ok := constOf(r); ok {
				return b.Const(interval.Sub(cl, cr))
			}
		}
		if lin, ok := b.asLinear(l, r, true); ok {
			return lin
		}
	}
	return wrap(leaf(OpSub, l.n, r.n))
}

// Neg returns -t.
func (b Builder) Neg(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Neg(cv))
		}
		if t.n.op == OpUsb {
			return wrap(t.n.children[0])
		}
		if t.n.op == OpLin {
			return wrap(negateLin(t.n))
		}
	}
	return wrap(leaf(OpUsb, t.n))
}

// Mul returns l * r.
func (b Builder) Mul(l, r Term) Term {
	if b.simplify {
		if l.IsZero() || r.IsZero() {
			return b.Num(0)
		}
		if l.IsOne() {
			return r
		}
		if r.IsOne() {
			return l
		}
		if l.IsMinusOne() {
			return b.Neg(r)
		}
		if r.IsMinusOne() {
			return b.Neg(l)
		}
		if cl, ok := constOf(l); ok {
			if cr, ok := constOf(r); ok {
				return b.Const(interval.Mul(cl, cr))
			}
			if scaled, ok := scaleLinear(r, cl); ok {
				return scaled
			}
		}
		if cr, ok := constOf(r); ok {
			if scaled, ok := scaleLinear(l, cr); ok {
				return scaled
			}
		}
	}
	return wrap(leaf(OpMul, l.n, r.n))
}

// Div returns l / r.
func (b Builder) Div(l, r Term) Term {
	if b.simplify {
		if r.IsOne() {
			return l
		}
		if cl, ok := constOf(l); ok {
			if cr, ok := constOf(r); ok {
				return b.Const(interval.Div(cl, cr))
			}
		}
	}
	return wrap(leaf(OpDiv, l.n, r.n))
}

// Min returns min(l, r).
func (b Builder) Min(l, r Term) Term {
	if b.simplify {
		if cl, ok := constOf(l); ok {
			if cr, ok := constOf(r); ok {
				return b.Const(interval.Min(cl, cr))
			}
		}
	}
	return wrap(leaf(OpMin, l.n, r.n))
}

// Max returns max(l, r).
func (b Builder) Max(l, r Term) Term {
	if b.simplify {
		if cl, ok := constOf(l); ok {
			if cr, ok := constOf(r); ok {
				return b.Const(interval.Max(cl, cr))
			}
		}
	}
	return wrap(leaf(OpMax, l.n, r.n))
}

// Abs returns |t|.
func (b Builder) Abs(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Abs(cv))
		}
	}
	return wrap(leaf(OpAbs, t.n))
}

// Sgn returns sgn(t).
func (b Builder) Sgn(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Sign(cv))
		}
	}
	return wrap(leaf(OpSgn, t.n))
}

// Sqr returns t^2.
func (b Builder) Sqr(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Sqr(cv))
		}
	}
	return wrap(leaf(OpSqr, t.n))
}

// Sqrt returns sqrt(t).
func (b Builder) Sqrt(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Sqrt(cv))
		}
	}
	return wrap(leaf(OpSqrt, t.n))
}

// Pow returns t^n for an integer exponent.
func (b Builder) Pow(t Term, n int) Term {
	if b.simplify {
		if n == 1 {
			return t
		}
		if cv, ok := constOf(t); ok {
			return b.Const(interval.IntPow(cv, n))
		}
	}
	r := leaf(OpPow, t.n)
	r.n = n
	return wrap(r)
}

// Exp returns exp(t).
func (b Builder) Exp(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Exp(cv))
		}
	}
	return wrap(leaf(OpExp, t.n))
}

// Log returns log(t).
func (b Builder) Log(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Log(cv))
		}
	}
	return wrap(leaf(OpLog, t.n))
}

// Cos returns cos(t).
func (b Builder) Cos(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Cos(cv))
		}
	}
	return wrap(leaf(OpCos, t.n))
}

// Sin returns sin(t).
func (b Builder) Sin(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Sin(cv))
		}
	}
	return wrap(leaf(OpSin, t.n))
}

// Tan returns tan(t).
func (b Builder) Tan(t Term) Term {
	if b.simplify {
		if cv, ok := constOf(t); ok {
			return b.Const(interval.Tan(cv))
		}
	}
	return wrap(leaf(OpTan, t.n))
}

// asLinear attempts to build an OpLin node for l +/- r when both sides
// are linear (OpConst, OpVar, or OpLin); returns false otherwise, in
// which case the caller falls back to a plain OpAdd/OpSub node.
func (b Builder) asLinear(l, r Term, subtract bool) (Term, bool) {
	if !l.IsLinear() || !r.IsLinear() {
		return Term{}, false
	}
	acc := toLinNode(l)
	rhs := toLinNode(r)
	if subtract {
		rhs = negateLin(rhs)
	}
	merged := mergeLin(acc, rhs)
	return wrap(foldLin(merged)), true
}

// toLinNode returns t's node re-expressed as an OpLin node.
func toLinNode(t Term) *node {
	switch t.n.op {
	case OpLin:
		return t.n
	case OpConst:
		return &node{op: OpLin, cst: t.n.value}
	case OpVar:
		return &node{op: OpLin, cst: interval.Zero(), items: []linItem{{coef: interval.Degenerate(1), varID: t.n.varID}}}
	default:
		panic("term: toLinNode: not a linear term")
	}
}

func negateLin(n *node) *node {
	items := make([]linItem, len(n.items))
	for i, it := range n.items {
		items[i] = linItem{coef: interval.Neg(it.coef), varID: it.varID}
	}
	return &node{op: OpLin, cst: interval.Neg(n.cst), items: items}
}

func scaleLinear(t Term, k interval.Interval) (Term, bool) {
	if !t.IsLinear() {
		return Term{}, false
	}
	n := toLinNode(t)
	items := make([]linItem, len(n.items))
	for i, it := range n.items {
		items[i] = linItem{coef: interval.Mul(it.coef, k), varID: it.varID}
	}
	out := &node{op: OpLin, cst: interval.Mul(n.cst, k), items: items}
	return wrap(foldLin(out)), true
}

// mergeLin adds the items of b into a, combining coefficients of
// shared variables, and keeps the result sorted by variable id (the
// ordering the original's std::set<Item, CompItem> maintained).
func mergeLin(a, b *node) *node {
	byVar := make(map[int]interval.Interval, len(a.items)+len(b.items))
	order := make([]int, 0, len(a.items)+len(b.items))
	add := func(items []linItem) {
		for _, it := range items {
			if cur, ok := byVar[it.varID]; ok {
				byVar[it.varID] = interval.Add(cur, it.coef)
			} else {
				byVar[it.varID] = it.coef
				order = append(order, it.varID)
			}
		}
	}
	add(a.items)
	add(b.items)
	sort.Ints(order)
	items := make([]linItem, 0, len(order))
	for _, id := range order {
		items = append(items, linItem{coef: byVar[id], varID: id})
	}
	return &node{op: OpLin, cst: interval.Add(a.cst, b.cst), items: items}
}

// foldLin drops zero-coefficient items and collapses a linear node
// with no surviving variable items to a plain constant, or with a
// single unit-coefficient variable and zero offset to a bare variable.
func foldLin(n *node) *node {
	out := n.items[:0:0]
	for _, it := range n.items {
		if !(it.coef.IsDegenerate() && it.coef.Lo == 0) {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return &node{op: OpConst, value: n.cst}
	}
	if len(out) == 1 && out[0].coef.IsDegenerate() && out[0].coef.Lo == 1 && n.cst.IsDegenerate() && n.cst.Lo == 0 {
		return &node{op: OpVar, varID: out[0].varID}
	}
	return &node{op: OpLin, cst: n.cst, items: out}
}
