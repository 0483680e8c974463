package flatfn

import (
	"math"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
)

// fop enumerates the flat instruction set (§4.4). The four arithmetic
// operators come in three shapes each — both operands variable, left
// operand constant, right operand constant — so the hot loops skip the
// argument fetch and the projection of the constant side entirely.
type fop uint8

const (
	fConst fop = iota
	fVar
	fLin
	fAdd
	fAddCX // k + x
	fAddXC // x + k
	fSub
	fSubCX
	fSubXC
	fMul
	fMulCX
	fMulXC
	fDiv
	fDivCX
	fDivXC
	fMin
	fMax
	fNeg
	fAbs
	fSgn
	fSqr
	fSqrt
	fPow
	fExp
	fLog
	fCos
	fSin
	fTan
)

type flatLinTerm struct {
	coef  interval.Interval
	varID int
}

// instr is one flat instruction: an opcode, up to two operand slots
// (indices into the same code array, always smaller than the
// instruction's own index), and the inline payload of the specialised
// shapes.
type instr struct {
	op    fop
	a, b  int
	k     interval.Interval // fConst value, or the constant operand of a CX/XC shape
	varID int               // fVar
	pow   int               // fPow
	cst   interval.Interval // fLin constant offset
	items []flatLinTerm     // fLin
}

// FlatFunction is the flattened, cache-friendly form of one
// constraint function (§4.4): a straight array of instructions in
// evaluation order, the scope of variables it reads, and its image.
// Unlike the shared Dag it is a per-function tree flattening — a
// sub-term two constraints share is re-emitted here, which is exactly
// what lets every operand be addressed by a dense local slot.
type FlatFunction struct {
	Scope domain.Scope
	Image interval.Interval
	code  []instr
}

// Compile flattens src into a FlatFunction with the given scope and
// image. src must be the term a DagFun with the same image was
// compiled from; the two agree on every box (see the equivalence
// tests) but the flat form trades the Dag's sharing for straight-line
// dispatch.
func Compile(src term.Term, scope domain.Scope, image interval.Interval) *FlatFunction {
	f := &FlatFunction{Scope: scope, Image: image}
	f.emit(src)
	return f
}

func (f *FlatFunction) push(in instr) int {
	f.code = append(f.code, in)
	return len(f.code) - 1
}

func (f *FlatFunction) emit(t term.Term) int {
	switch t.Op() {
	case term.OpConst:
		return f.push(instr{op: fConst, k: t.ConstValue()})
	case term.OpVar:
		return f.push(instr{op: fVar, varID: t.VarID()})
	case term.OpLin:
		items := make([]flatLinTerm, t.LinLen())
		for i := range items {
			items[i] = flatLinTerm{coef: t.LinCoef(i), varID: t.LinVarID(i)}
		}
		return f.push(instr{op: fLin, cst: t.LinConst(), items: items})
	case term.OpPow:
		a := f.emit(t.Child(0))
		return f.push(instr{op: fPow, a: a, pow: t.Exponent()})
	case term.OpAdd, term.OpSub, term.OpMul, term.OpDiv:
		return f.emitArith(t)
	case term.OpMin, term.OpMax:
		a := f.emit(t.Child(0))
		b := f.emit(t.Child(1))
		op := fMin
		if t.Op() == term.OpMax {
			op = fMax
		}
		return f.push(instr{op: op, a: a, b: b})
	default:
		a := f.emit(t.Child(0))
		return f.push(instr{op: unaryOp(t.Op()), a: a})
	}
}

// emitArith picks the specialised shape for one of the four arithmetic
// operators: a constant child is folded into the instruction itself
// instead of occupying a slot (two constant children still spend one
// slot on the left one, a shape the simplifying builder folds away
// before it ever reaches here).
func (f *FlatFunction) emitArith(t term.Term) int {
	l, r := t.Child(0), t.Child(1)
	base := arithBase(t.Op())
	switch {
	case l.IsConstant() && !r.IsConstant():
		a := f.emit(r)
		return f.push(instr{op: base + 1, a: a, k: l.ConstValue()})
	case r.IsConstant():
		a := f.emit(l)
		return f.push(instr{op: base + 2, a: a, k: r.ConstValue()})
	default:
		a := f.emit(l)
		b := f.emit(r)
		return f.push(instr{op: base, a: a, b: b})
	}
}

func arithBase(o term.Op) fop {
	switch o {
	case term.OpAdd:
		return fAdd
	case term.OpSub:
		return fSub
	case term.OpMul:
		return fMul
	default:
		return fDiv
	}
}

func unaryOp(o term.Op) fop {
	switch o {
	case term.OpUsb:
		return fNeg
	case term.OpAbs:
		return fAbs
	case term.OpSgn:
		return fSgn
	case term.OpSqr:
		return fSqr
	case term.OpSqrt:
		return fSqrt
	case term.OpExp:
		return fExp
	case term.OpLog:
		return fLog
	case term.OpCos:
		return fCos
	case term.OpSin:
		return fSin
	case term.OpTan:
		return fTan
	default:
		panic("flatfn: unaryOp: unhandled term op")
	}
}

func (f *FlatFunction) lookup(box domain.IntervalBox) func(int) interval.Interval {
	return func(varID int) interval.Interval {
		x, err := box.At(varID)
		if err != nil {
			return interval.Universe()
		}
		return x
	}
}

// eval runs the forward pass, returning one value per instruction.
func (f *FlatFunction) eval(lookup func(int) interval.Interval) []interval.Interval {
	vals := make([]interval.Interval, len(f.code))
	for i := range f.code {
		in := &f.code[i]
		switch in.op {
		case fConst:
			vals[i] = in.k
		case fVar:
			vals[i] = lookup(in.varID)
		case fLin:
			acc := in.cst
			for _, it := range in.items {
				acc = interval.Add(acc, interval.Mul(it.coef, lookup(it.varID)))
			}
			vals[i] = acc
		case fAdd:
			vals[i] = interval.Add(vals[in.a], vals[in.b])
		case fAddCX:
			vals[i] = interval.Add(in.k, vals[in.a])
		case fAddXC:
			vals[i] = interval.Add(vals[in.a], in.k)
		case fSub:
			vals[i] = interval.Sub(vals[in.a], vals[in.b])
		case fSubCX:
			vals[i] = interval.Sub(in.k, vals[in.a])
		case fSubXC:
			vals[i] = interval.Sub(vals[in.a], in.k)
		case fMul:
			vals[i] = interval.Mul(vals[in.a], vals[in.b])
		case fMulCX:
			vals[i] = interval.Mul(in.k, vals[in.a])
		case fMulXC:
			vals[i] = interval.Mul(vals[in.a], in.k)
		case fDiv:
			vals[i] = interval.Div(vals[in.a], vals[in.b])
		case fDivCX:
			vals[i] = interval.Div(in.k, vals[in.a])
		case fDivXC:
			vals[i] = interval.Div(vals[in.a], in.k)
		case fMin:
			vals[i] = interval.Min(vals[in.a], vals[in.b])
		case fMax:
			vals[i] = interval.Max(vals[in.a], vals[in.b])
		case fNeg:
			vals[i] = interval.Neg(vals[in.a])
		case fAbs:
			vals[i] = interval.Abs(vals[in.a])
		case fSgn:
			vals[i] = interval.Sign(vals[in.a])
		case fSqr:
			vals[i] = interval.Sqr(vals[in.a])
		case fSqrt:
			vals[i] = interval.Sqrt(vals[in.a])
		case fPow:
			vals[i] = interval.IntPow(vals[in.a], in.pow)
		case fExp:
			vals[i] = interval.Exp(vals[in.a])
		case fLog:
			vals[i] = interval.Log(vals[in.a])
		case fCos:
			vals[i] = interval.Cos(vals[in.a])
		case fSin:
			vals[i] = interval.Sin(vals[in.a])
		case fTan:
			vals[i] = interval.Tan(vals[in.a])
		}
	}
	return vals
}

// Eval returns f's value over box.
func (f *FlatFunction) Eval(box domain.IntervalBox) interval.Interval {
	vals := f.eval(f.lookup(box))
	return vals[len(vals)-1]
}

// Contract runs HC4Revise over the flat code and returns the narrowed
// box with its certificate, behaving exactly like DagFun.Contract on
// the same constraint.
func (f *FlatFunction) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	out := box.Clone()
	best, c := f.hc4Revise(f.lookup(box))
	if c == cert.Empty {
		return out, cert.Empty
	}
	for id, x := range best {
		if out.Scope().Contains(id) {
			_ = out.SetAt(id, x)
		}
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	return out, c
}

// hc4Revise performs the forward/backward pass. Because the code is a
// tree flattening — every slot has exactly one consumer, and operand
// indices are strictly below their consumer's — the backward phase is
// a single reverse scan, no recursion, no visited bookkeeping.
func (f *FlatFunction) hc4Revise(lookup func(int) interval.Interval) (map[int]interval.Interval, cert.Certificate) {
	vals := f.eval(lookup)
	root := len(f.code) - 1
	rootVal := vals[root]
	if rootVal.IsEmpty() {
		return nil, cert.Empty
	}
	if rootVal.IsSubset(f.Image) {
		return nil, cert.Inner
	}
	narrowed := rootVal.Inter(f.Image)
	if narrowed.IsEmpty() {
		return nil, cert.Empty
	}
	vals[root] = narrowed

	best := make(map[int]interval.Interval, f.Scope.Len())
	note := func(varID int, x interval.Interval) {
		if cur, ok := best[varID]; ok {
			best[varID] = cur.Inter(x)
		} else {
			best[varID] = x
		}
	}

	for i := root; i >= 0; i-- {
		in := &f.code[i]
		z := vals[i]
		if z.IsEmpty() {
			f.poisonChildren(in, vals, note)
			continue
		}
		switch in.op {
		case fConst:
		case fVar:
			note(in.varID, z)
		case fLin:
			f.reviseLin(in, z, lookup, note)
		case fAdd:
			x, y := vals[in.a], vals[in.b]
			vals[in.a] = x.Inter(interval.ProjAddX(x, y, z))
			vals[in.b] = y.Inter(interval.ProjAddY(x, y, z))
		case fAddCX:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjAddY(in.k, x, z))
		case fAddXC:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjAddX(x, in.k, z))
		case fSub:
			x, y := vals[in.a], vals[in.b]
			vals[in.a] = x.Inter(interval.ProjSubX(x, y, z))
			vals[in.b] = y.Inter(interval.ProjSubY(x, y, z))
		case fSubCX:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjSubY(in.k, x, z))
		case fSubXC:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjSubX(x, in.k, z))
		case fMul:
			x, y := vals[in.a], vals[in.b]
			vals[in.a] = x.Inter(interval.ProjMulX(x, y, z))
			vals[in.b] = y.Inter(interval.ProjMulY(x, y, z))
		case fMulCX:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjMulY(in.k, x, z))
		case fMulXC:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjMulX(x, in.k, z))
		case fDiv:
			x, y := vals[in.a], vals[in.b]
			vals[in.a] = x.Inter(interval.ProjDivX(x, y, z))
			vals[in.b] = y.Inter(interval.ProjDivY(x, y, z))
		case fDivCX:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjDivY(in.k, x, z))
		case fDivXC:
			x := vals[in.a]
			vals[in.a] = x.Inter(interval.ProjDivX(x, in.k, z))
		case fMin:
			x, y := vals[in.a], vals[in.b]
			vals[in.a] = x.Inter(interval.ProjMin(x, y, z))
			vals[in.b] = y.Inter(interval.ProjMin(y, x, z))
		case fMax:
			x, y := vals[in.a], vals[in.b]
			vals[in.a] = x.Inter(interval.ProjMax(x, y, z))
			vals[in.b] = y.Inter(interval.ProjMax(y, x, z))
		case fNeg:
			vals[in.a] = vals[in.a].Inter(interval.ProjNeg(vals[in.a], z))
		case fAbs:
			vals[in.a] = vals[in.a].Inter(interval.ProjAbs(vals[in.a], z))
		case fSgn:
			vals[in.a] = vals[in.a].Inter(interval.ProjSign(vals[in.a], z))
		case fSqr:
			vals[in.a] = vals[in.a].Inter(interval.ProjSqr(vals[in.a], z))
		case fSqrt:
			vals[in.a] = vals[in.a].Inter(interval.ProjSqrt(vals[in.a], z))
		case fPow:
			vals[in.a] = vals[in.a].Inter(interval.ProjIntPow(vals[in.a], z, in.pow))
		case fExp:
			vals[in.a] = vals[in.a].Inter(interval.ProjExp(vals[in.a], z))
		case fLog:
			vals[in.a] = vals[in.a].Inter(interval.ProjLog(vals[in.a], z))
		case fCos:
			vals[in.a] = vals[in.a].Inter(interval.ProjCos(vals[in.a], z))
		case fSin:
			vals[in.a] = vals[in.a].Inter(interval.ProjSin(vals[in.a], z))
		case fTan:
			vals[in.a] = vals[in.a].Inter(interval.ProjTan(vals[in.a], z))
		}
	}
	return best, cert.Maybe
}

// poisonChildren marks an instruction's operands empty once its own
// value has emptied, so the reverse scan carries the emptiness all the
// way down to the variable leaves.
func (f *FlatFunction) poisonChildren(in *instr, vals []interval.Interval, note func(int, interval.Interval)) {
	switch in.op {
	case fConst:
	case fVar:
		note(in.varID, interval.Empty())
	case fLin:
		for _, it := range in.items {
			note(it.varID, interval.Empty())
		}
	case fAdd, fSub, fMul, fDiv, fMin, fMax:
		vals[in.a] = interval.Empty()
		vals[in.b] = interval.Empty()
	default:
		vals[in.a] = interval.Empty()
	}
}

// reviseLin isolates each addend of a flattened Lin node in turn, the
// same projection DagFun applies to its opLin nodes.
func (f *FlatFunction) reviseLin(in *instr, z interval.Interval, lookup func(int) interval.Interval, note func(int, interval.Interval)) {
	for i, it := range in.items {
		rest := in.cst
		for j, other := range in.items {
			if j == i {
				continue
			}
			rest = interval.Add(rest, interval.Mul(other.coef, lookup(other.varID)))
		}
		target := interval.Div(interval.Sub(z, rest), it.coef)
		note(it.varID, lookup(it.varID).Inter(target))
	}
}

// IDiff performs reverse-mode interval differentiation over the flat
// code, returning the partial-derivative enclosure for every variable
// in f's scope over box.
func (f *FlatFunction) IDiff(box domain.IntervalBox) map[int]interval.Interval {
	lookup := f.lookup(box)
	vals := f.eval(lookup)
	adj := make([]interval.Interval, len(f.code))
	seen := make([]bool, len(f.code))
	root := len(f.code) - 1
	adj[root] = interval.Degenerate(1)
	seen[root] = true
	grad := make(map[int]interval.Interval)

	acc := func(varID int, g interval.Interval) {
		if cur, ok := grad[varID]; ok {
			grad[varID] = interval.Add(cur, g)
		} else {
			grad[varID] = g
		}
	}
	push := func(slot int, g interval.Interval) {
		if seen[slot] {
			adj[slot] = interval.Add(adj[slot], g)
		} else {
			adj[slot] = g
			seen[slot] = true
		}
	}

	for i := root; i >= 0; i-- {
		if !seen[i] {
			continue
		}
		a := adj[i]
		in := &f.code[i]
		switch in.op {
		case fConst:
		case fVar:
			acc(in.varID, a)
		case fLin:
			for _, it := range in.items {
				acc(it.varID, interval.Mul(a, it.coef))
			}
		case fAdd:
			push(in.a, a)
			push(in.b, a)
		case fAddCX, fAddXC:
			push(in.a, a)
		case fSub:
			push(in.a, a)
			push(in.b, interval.Neg(a))
		case fSubCX:
			push(in.a, interval.Neg(a))
		case fSubXC:
			push(in.a, a)
		case fMul:
			push(in.a, interval.Mul(a, vals[in.b]))
			push(in.b, interval.Mul(a, vals[in.a]))
		case fMulCX, fMulXC:
			push(in.a, interval.Mul(a, in.k))
		case fDiv:
			x, y := vals[in.a], vals[in.b]
			push(in.a, interval.Div(a, y))
			push(in.b, interval.Neg(interval.Div(interval.Mul(a, x), interval.Sqr(y))))
		case fDivCX: // d/dx (k/x) = -k/x^2
			push(in.a, interval.Neg(interval.Div(interval.Mul(a, in.k), interval.Sqr(vals[in.a]))))
		case fDivXC:
			push(in.a, interval.Div(a, in.k))
		case fMin:
			gx, gy := flatSubgradMinMax(vals[in.a], vals[in.b], true)
			push(in.a, interval.Mul(a, gx))
			push(in.b, interval.Mul(a, gy))
		case fMax:
			gx, gy := flatSubgradMinMax(vals[in.a], vals[in.b], false)
			push(in.a, interval.Mul(a, gx))
			push(in.b, interval.Mul(a, gy))
		case fNeg:
			push(in.a, interval.Neg(a))
		case fAbs:
			push(in.a, interval.Mul(a, interval.Sign(vals[in.a])))
		case fSgn:
		case fSqr:
			push(in.a, interval.Mul(a, interval.MulScalar(vals[in.a], 2)))
		case fSqrt:
			push(in.a, interval.Div(a, interval.MulScalar(vals[i], 2)))
		case fPow:
			deriv := interval.MulScalar(interval.IntPow(vals[in.a], in.pow-1), float64(in.pow))
			push(in.a, interval.Mul(a, deriv))
		case fExp:
			push(in.a, interval.Mul(a, vals[i]))
		case fLog:
			push(in.a, interval.Div(a, vals[in.a]))
		case fCos:
			push(in.a, interval.Mul(a, interval.Neg(interval.Sin(vals[in.a]))))
		case fSin:
			push(in.a, interval.Mul(a, interval.Cos(vals[in.a])))
		case fTan:
			deriv := interval.Add(interval.Degenerate(1), interval.Sqr(vals[i]))
			push(in.a, interval.Mul(a, deriv))
		}
	}
	return grad
}

// Diff returns, per variable, the magnitude bound of the interval
// partial derivative of f over box — the ranking surface
// search.SmearRanking consumes.
func (f *FlatFunction) Diff(box domain.IntervalBox) map[int]float64 {
	grad := f.IDiff(box)
	out := make(map[int]float64, len(grad))
	for id, g := range grad {
		out[id] = math.Max(math.Abs(g.Lo), math.Abs(g.Hi))
	}
	return out
}

func flatSubgradMinMax(x, y interval.Interval, isMin bool) (interval.Interval, interval.Interval) {
	xWins := x.Hi <= y.Lo
	yWins := y.Hi <= x.Lo
	if !isMin {
		xWins, yWins = yWins, xWins
	}
	switch {
	case xWins:
		return interval.Degenerate(1), interval.Degenerate(0)
	case yWins:
		return interval.Degenerate(0), interval.Degenerate(1)
	default:
		return interval.New(0, 1), interval.New(0, 1)
	}
}
