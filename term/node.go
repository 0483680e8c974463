package term

import (
	"sort"

	"github.com/realpaver-go/ncsp/interval"
)

// Op is an operation symbol, mirroring the OpSymbol enumeration of the
// system this package generalises (Term.hpp).
type Op int

const (
	OpConst Op = iota
	OpVar
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpUsb // unary minus
	OpAbs
	OpSgn
	OpSqr
	OpSqrt
	OpPow // integer exponent, held in node.n
	OpExp
	OpLog
	OpCos
	OpSin
	OpTan
	OpLin // linear combination, held in node.cst and node.items
)

func (o Op) String() string {
	switch o {
	case OpConst:
		return "const"
	case OpVar:
		return "var"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	case OpUsb:
		return "usb"
	case OpAbs:
		return "abs"
	case OpSgn:
		return "sgn"
	case OpSqr:
		return "sqr"
	case OpSqrt:
		return "sqrt"
	case OpPow:
		return "pow"
	case OpExp:
		return "exp"
	case OpLog:
		return "log"
	case OpCos:
		return "cos"
	case OpSin:
		return "sin"
	case OpTan:
		return "tan"
	case OpLin:
		return "lin"
	default:
		return "?"
	}
}

// linItem is one coef*variable addend of a linear node, kept sorted by
// varID so two linear combinations with the same terms compare equal
// field by field (TermLin's std::set<Item, CompItem> in the original).
type linItem struct {
	coef  interval.Interval
	varID int
}

// node is a term tree node. Terms share nodes by pointer; node itself
// is never mutated after construction, so sharing is always safe.
type node struct {
	op       Op
	children []*node
	value    interval.Interval // OpConst
	varID    int                // OpVar
	n        int                // OpPow exponent
	cst      interval.Interval  // OpLin constant offset
	items    []linItem          // OpLin, sorted by varID
}

// Term is an immutable, shareable expression. The zero Term is not
// valid; use Builder to construct one.
type Term struct {
	n *node
}

func wrap(n *node) Term { return Term{n: n} }

// IsValid reports whether t was built through a Builder.
func (t Term) IsValid() bool { return t.n != nil }

// Op returns the root operation of t.
func (t Term) Op() Op { return t.n.op }

// Arity returns the number of sub-terms of t's root node.
func (t Term) Arity() int { return len(t.n.children) }

// Child returns the i-th sub-term of t's root node.
func (t Term) Child(i int) Term { return wrap(t.n.children[i]) }

// VarID returns the variable identifier of an OpVar term.
func (t Term) VarID() int { return t.n.varID }

// ConstValue returns the interval value of an OpConst term.
func (t Term) ConstValue() interval.Interval { return t.n.value }

// Exponent returns the integer exponent of an OpPow term.
func (t Term) Exponent() int { return t.n.n }

// LinConst returns the constant offset of an OpLin term.
func (t Term) LinConst() interval.Interval { return t.n.cst }

// LinLen returns the number of variable terms of an OpLin term.
func (t Term) LinLen() int { return len(t.n.items) }

// LinCoef returns the coefficient of the i-th variable term of an OpLin
// term.
func (t Term) LinCoef(i int) interval.Interval { return t.n.items[i].coef }

// LinVarID returns the variable id of the i-th variable term of an
// OpLin term.
func (t Term) LinVarID(i int) int { return t.n.items[i].varID }

// IsConstant reports whether t is an OpConst node (an OpLin with no
// variable items is folded to OpConst by the builder, so this is the
// only constant shape).
func (t Term) IsConstant() bool { return t.n.op == OpConst }

// IsZero reports whether t is the constant 0.
func (t Term) IsZero() bool {
	return t.n.op == OpConst && t.n.value.IsDegenerate() && t.n.value.Lo == 0
}

// IsOne reports whether t is the constant 1.
func (t Term) IsOne() bool {
	return t.n.op == OpConst && t.n.value.IsDegenerate() && t.n.value.Lo == 1
}

// IsMinusOne reports whether t is the constant -1.
func (t Term) IsMinusOne() bool {
	return t.n.op == OpConst && t.n.value.IsDegenerate() && t.n.value.Lo == -1
}

// IsVar reports whether t is a bare variable.
func (t Term) IsVar() bool { return t.n.op == OpVar }

// IsLinear reports whether t's root represents a linear expression:
// OpConst, OpVar, or OpLin. Builder collects every linear add/sub/scale
// chain into OpLin, so non-leaf linear structure never otherwise
// survives construction.
func (t Term) IsLinear() bool {
	switch t.n.op {
	case OpConst, OpVar, OpLin:
		return true
	default:
		return false
	}
}

// DependsOn reports whether the variable with the given id occurs
// anywhere in t.
func (t Term) DependsOn(id int) bool {
	switch t.n.op {
	case OpVar:
		return t.n.varID == id
	case OpLin:
		for _, it := range t.n.items {
			if it.varID == id {
				return true
			}
		}
		return false
	case OpConst:
		return false
	default:
		for _, c := range t.n.children {
			if wrap(c).DependsOn(id) {
				return true
			}
		}
		return false
	}
}

// VarIDs returns the sorted, deduplicated set of variable ids occurring
// in t.
func (t Term) VarIDs() []int {
	seen := map[int]bool{}
	var walk func(n *node)
	walk = func(n *node) {
		switch n.op {
		case OpVar:
			seen[n.varID] = true
		case OpLin:
			for _, it := range n.items {
				seen[it.varID] = true
			}
		default:
			for _, c := range n.children {
				walk(c)
			}
		}
	}
	walk(t.n)
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
