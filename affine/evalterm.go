package affine

import (
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
)

// ConstForm lifts a (possibly non-degenerate) interval constant into
// an affine form: a degenerate interval becomes an exact centre, a
// wider one becomes a centre plus Err rather than a fresh noise
// symbol, since a literal constant has no domain variable for a
// contractor to narrow back into.
func ConstForm(x interval.Interval) Form {
	if x.IsDegenerate() {
		return Const(x.Lo)
	}
	return Form{Centre: x.Mid(), Err: x.Radius()}
}

// EvalTerm walks t, building its affine form, shared by the
// affine-revise contractor (§4.2) and the affine polytope linearizer
// (§4.5 Linearisers) so both lift the same Term the same way. vals is
// the forward interval evaluation of the whole shared Dag t's root was
// compiled into (dag.Dag.Eval over the current box, §4.3); nonlinear
// univariate operators use it as the natural-domain argument their
// lift needs. next hands out fresh noise-symbol indices for
// multiplication and every nonlinear lift's slack term; varForm must
// already hold one Form per variable t can reference.
//
// Abs/Sgn/Min/Max/Tan have no first-order lift here (a negative integer
// power is lifted as the reciprocal of the positive power); they fall
// back to the plain interval enclosure from vals,
// which stays sound (just wider) because Form's error term can absorb
// a whole hull.
func EvalTerm(t term.Term, d *dag.Dag, vals dag.Values, varForm map[int]Form, kind Linearization, next *int) Form {
	domOf := func(sub term.Term) interval.Interval {
		return vals[d.Compile(sub)]
	}
	switch t.Op() {
	case term.OpConst:
		return ConstForm(t.ConstValue())
	case term.OpVar:
		return varForm[t.VarID()]
	case term.OpLin:
		sum := ConstForm(t.LinConst())
		for i := 0; i < t.LinLen(); i++ {
			sum = Add(sum, MulScalarInterval(varForm[t.LinVarID(i)], t.LinCoef(i)))
		}
		return sum
	case term.OpAdd:
		return Add(EvalTerm(t.Child(0), d, vals, varForm, kind, next), EvalTerm(t.Child(1), d, vals, varForm, kind, next))
	case term.OpSub:
		return Sub(EvalTerm(t.Child(0), d, vals, varForm, kind, next), EvalTerm(t.Child(1), d, vals, varForm, kind, next))
	case term.OpUsb:
		return Neg(EvalTerm(t.Child(0), d, vals, varForm, kind, next))
	case term.OpMul:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		y := EvalTerm(t.Child(1), d, vals, varForm, kind, next)
		idx := *next
		*next++
		return Mul(x, y, idx)
	case term.OpDiv:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		y := EvalTerm(t.Child(1), d, vals, varForm, kind, next)
		idx1 := *next
		*next++
		recip := Recip(y, domOf(t.Child(1)), kind, idx1)
		idx2 := *next
		*next++
		return Mul(x, recip, idx2)
	case term.OpSqr:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		idx := *next
		*next++
		return Sqr(x, domOf(t.Child(0)), kind, idx)
	case term.OpSqrt:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		idx := *next
		*next++
		return Sqrt(x, domOf(t.Child(0)), kind, idx)
	case term.OpExp:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		idx := *next
		*next++
		return Exp(x, domOf(t.Child(0)), kind, idx)
	case term.OpLog:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		idx := *next
		*next++
		return Log(x, domOf(t.Child(0)), kind, idx)
	case term.OpSin:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		idx := *next
		*next++
		return Sin(x, domOf(t.Child(0)), kind, idx)
	case term.OpCos:
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		idx := *next
		*next++
		return Cos(x, domOf(t.Child(0)), kind, idx)
	case term.OpPow:
		n := t.Exponent()
		if n == 0 {
			return Const(1)
		}
		x := EvalTerm(t.Child(0), d, vals, varForm, kind, next)
		if n > 0 {
			result := x
			for i := 1; i < n; i++ {
				idx := *next
				*next++
				result = Mul(result, x, idx)
			}
			return result
		}
		pos := x
		for i := 1; i < -n; i++ {
			idx := *next
			*next++
			pos = Mul(pos, x, idx)
		}
		posDom := interval.IntPow(domOf(t.Child(0)), -n)
		idx := *next
		*next++
		return Recip(pos, posDom, kind, idx)
	default:
		return ConstForm(domOf(t))
	}
}
