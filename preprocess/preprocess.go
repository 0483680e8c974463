// Package preprocess implements the §4.9 fix-and-eliminate pass: one
// HC4Revise sweep over every constraint on the initial box, after
// which variables whose contracted domain collapsed to (near) a point
// are fixed and substituted out, constraints whose value already lies
// inside their image are dropped as inactive, and the survivors are
// rebuilt into a fresh, densely-numbered Problem.
//
// Grounded on original_source/src/realpaver/Preprocessor.hpp (the
// fixed-variable/inactive-constraint bookkeeping) and ConstraintFixer.cpp/
// TermFixer.cpp (substituting a fixed variable's value back into every
// remaining term). The re-densification of variable ids mirrors the
// teacher's core.Graph convention of handing back a fresh, compacted
// id space after a structural edit (see core/methods_clone.go).
package preprocess

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/contractor"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/problem"
	"github.com/realpaver-go/ncsp/term"
)

// Mapping records how a reduced problem's dense variable ids relate
// back to the original problem's ids and, for fixed variables, the
// value they were pinned to — the "mapping back to original variables
// so that solutions can be expanded" §4.9 requires.
type Mapping struct {
	// ToOriginal[i] is the original variable id of the reduced
	// problem's i-th variable.
	ToOriginal []int
	// Fixed maps an original variable id to the point its domain was
	// collapsed to during preprocessing.
	Fixed map[int]float64
	// InactiveConstraints lists the names of constraints dropped
	// because their value was already certainly inside their image.
	InactiveConstraints []string
}

// Result is the output of Run: the reduced problem and its Mapping.
type Result struct {
	Problem *problem.Problem
	Mapping Mapping
}

// Run performs the single propagation pass of §4.9 on p's initial box
// and emits the reduced Problem. It never returns an error: an empty
// initial box is reported through Mapping by fixing every variable to
// NaN would be wrong, so instead Run reports cert.Empty via the
// returned bool, matching §7's "DomainEmpty during propagation ->
// return Empty, prune" policy rather than treating it as a user error.
func Run(p *problem.Problem) (Result, bool) {
	compiled := p.Compile()
	box := p.InitialBox().Hull()

	pool := make(contractor.Pool, len(compiled.Funcs))
	for i, fn := range compiled.Funcs {
		pool[i] = contractor.NewHC4(fn)
	}

	narrowed := box
	for _, c := range pool {
		var cf cert.Certificate
		narrowed, cf = c.Contract(narrowed)
		if cf == cert.Empty {
			return Result{}, false
		}
	}

	fixed := map[int]float64{}
	for _, v := range p.Scope.Vars() {
		x, err := narrowed.At(v.ID)
		if err != nil {
			continue
		}
		if x.Width() <= v.Tol.Abs || v.Tol.Satisfied(x.Width(), x.Mid()) {
			fixed[v.ID] = x.Mid()
		}
	}

	fixedIv := make(map[int]interval.Interval, len(fixed))
	for id, v := range fixed {
		fixedIv[id] = interval.Degenerate(v)
	}

	inactive := map[string]bool{}
	for i, fn := range compiled.Funcs {
		v := fn.Eval(narrowed)
		if v.IsSubset(fn.Image) {
			inactive[p.Constraints[i].Name] = true
		}
	}

	tb := term.NewBuilder(true)
	nb := problem.NewBuilder(true)
	oldToNew := map[int]int{}
	var toOriginal []int
	for _, v := range p.Scope.Vars() {
		if _, isFixed := fixed[v.ID]; isFixed {
			continue
		}
		d, err := narrowed.At(v.ID)
		if err != nil {
			d = v.Initial.Hull()
		}
		t, _ := nb.NewVar(v.Name, v.Kind, v.Initial.IntersectHull(d), v.Tol)
		oldToNew[v.ID] = t.VarID()
		toOriginal = append(toOriginal, v.ID)
	}

	for i, c := range p.Constraints {
		if inactive[c.Name] {
			continue
		}
		rewritten := Substitute(tb, c.Term, fixedIv)
		retargeted := retarget(tb, rewritten, oldToNew)
		nb.AddConstraint(c.Name, retargeted, compiled.Funcs[i].Image)
	}
	if p.Objective != nil {
		rewritten := Substitute(tb, p.Objective.Term, fixedIv)
		retargeted := retarget(tb, rewritten, oldToNew)
		nb.SetObjective(retargeted, p.Objective.Minimize)
	}

	inactiveNames := make([]string, 0, len(inactive))
	for name := range inactive {
		inactiveNames = append(inactiveNames, name)
	}

	return Result{
		Problem: nb.Build(),
		Mapping: Mapping{
			ToOriginal:          toOriginal,
			Fixed:               fixed,
			InactiveConstraints: inactiveNames,
		},
	}, true
}

// Substitute rewrites t, replacing every OpVar (and every variable
// addend of an OpLin) whose id is a key of fixed with its constant
// value, folding the result back through tb so simplification collapses
// any arithmetic that became purely constant (§4.9: "identities are
// collapsed").
func Substitute(tb term.Builder, t term.Term, fixed map[int]interval.Interval) term.Term {
	switch t.Op() {
	case term.OpConst:
		return t
	case term.OpVar:
		if x, ok := fixed[t.VarID()]; ok {
			return tb.Const(x)
		}
		return t
	case term.OpLin:
		result := tb.Const(t.LinConst())
		for i := 0; i < t.LinLen(); i++ {
			coef := t.LinCoef(i)
			vid := t.LinVarID(i)
			if x, ok := fixed[vid]; ok {
				result = tb.Add(result, tb.Const(interval.Mul(coef, x)))
				continue
			}
			result = tb.Add(result, tb.Mul(tb.Const(coef), tb.Var(vid)))
		}
		return result
	case term.OpAdd:
		return tb.Add(Substitute(tb, t.Child(0), fixed), Substitute(tb, t.Child(1), fixed))
	case term.OpSub:
		return tb.Sub(Substitute(tb, t.Child(0), fixed), Substitute(tb, t.Child(1), fixed))
	case term.OpMul:
		return tb.Mul(Substitute(tb, t.Child(0), fixed), Substitute(tb, t.Child(1), fixed))
	case term.OpDiv:
		return tb.Div(Substitute(tb, t.Child(0), fixed), Substitute(tb, t.Child(1), fixed))
	case term.OpMin:
		return tb.Min(Substitute(tb, t.Child(0), fixed), Substitute(tb, t.Child(1), fixed))
	case term.OpMax:
		return tb.Max(Substitute(tb, t.Child(0), fixed), Substitute(tb, t.Child(1), fixed))
	case term.OpUsb:
		return tb.Neg(Substitute(tb, t.Child(0), fixed))
	case term.OpAbs:
		return tb.Abs(Substitute(tb, t.Child(0), fixed))
	case term.OpSgn:
		return tb.Sgn(Substitute(tb, t.Child(0), fixed))
	case term.OpSqr:
		return tb.Sqr(Substitute(tb, t.Child(0), fixed))
	case term.OpSqrt:
		return tb.Sqrt(Substitute(tb, t.Child(0), fixed))
	case term.OpPow:
		return tb.Pow(Substitute(tb, t.Child(0), fixed), t.Exponent())
	case term.OpExp:
		return tb.Exp(Substitute(tb, t.Child(0), fixed))
	case term.OpLog:
		return tb.Log(Substitute(tb, t.Child(0), fixed))
	case term.OpCos:
		return tb.Cos(Substitute(tb, t.Child(0), fixed))
	case term.OpSin:
		return tb.Sin(Substitute(tb, t.Child(0), fixed))
	case term.OpTan:
		return tb.Tan(Substitute(tb, t.Child(0), fixed))
	default:
		return t
	}
}

// retarget rewrites every surviving OpVar/OpLin reference from its
// original-problem id to its dense id in the reduced problem's Scope,
// mirroring Substitute's structural walk but rewriting ids instead of
// folding in constants.
func retarget(tb term.Builder, t term.Term, oldToNew map[int]int) term.Term {
	switch t.Op() {
	case term.OpConst:
		return t
	case term.OpVar:
		return tb.Var(oldToNew[t.VarID()])
	case term.OpLin:
		result := tb.Const(t.LinConst())
		for i := 0; i < t.LinLen(); i++ {
			result = tb.Add(result, tb.Mul(tb.Const(t.LinCoef(i)), tb.Var(oldToNew[t.LinVarID(i)])))
		}
		return result
	case term.OpAdd:
		return tb.Add(retarget(tb, t.Child(0), oldToNew), retarget(tb, t.Child(1), oldToNew))
	case term.OpSub:
		return tb.Sub(retarget(tb, t.Child(0), oldToNew), retarget(tb, t.Child(1), oldToNew))
	case term.OpMul:
		return tb.Mul(retarget(tb, t.Child(0), oldToNew), retarget(tb, t.Child(1), oldToNew))
	case term.OpDiv:
		return tb.Div(retarget(tb, t.Child(0), oldToNew), retarget(tb, t.Child(1), oldToNew))
	case term.OpMin:
		return tb.Min(retarget(tb, t.Child(0), oldToNew), retarget(tb, t.Child(1), oldToNew))
	case term.OpMax:
		return tb.Max(retarget(tb, t.Child(0), oldToNew), retarget(tb, t.Child(1), oldToNew))
	case term.OpUsb:
		return tb.Neg(retarget(tb, t.Child(0), oldToNew))
	case term.OpAbs:
		return tb.Abs(retarget(tb, t.Child(0), oldToNew))
	case term.OpSgn:
		return tb.Sgn(retarget(tb, t.Child(0), oldToNew))
	case term.OpSqr:
		return tb.Sqr(retarget(tb, t.Child(0), oldToNew))
	case term.OpSqrt:
		return tb.Sqrt(retarget(tb, t.Child(0), oldToNew))
	case term.OpPow:
		return tb.Pow(retarget(tb, t.Child(0), oldToNew), t.Exponent())
	case term.OpExp:
		return tb.Exp(retarget(tb, t.Child(0), oldToNew))
	case term.OpLog:
		return tb.Log(retarget(tb, t.Child(0), oldToNew))
	case term.OpCos:
		return tb.Cos(retarget(tb, t.Child(0), oldToNew))
	case term.OpSin:
		return tb.Sin(retarget(tb, t.Child(0), oldToNew))
	case term.OpTan:
		return tb.Tan(retarget(tb, t.Child(0), oldToNew))
	default:
		return t
	}
}
