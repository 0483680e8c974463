package contractor

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"gonum.org/v1/gonum/mat"
)

// Newton applies the interval Newton operator to a square system
// (len(Fns) equations over len(Scope) unknowns, §4.5): it builds the
// interval Jacobian over the box, inverts its midpoint as a
// preconditioner, and runs one interval Gauss-Seidel sweep. A
// component whose Gauss-Seidel division pivot straddles zero is left
// unchanged rather than widened to Universe, keeping the sweep sound.
//
// Grounded on original_source/src/realpaver/IntervalNewton.hpp /
// Preconditioner.hpp; uses gonum.org/v1/gonum/mat for the midpoint
// Jacobian inverse.
type Newton struct {
	Fns      []flatfn.DagFun
	Unknowns domain.Scope
}

// NewNewton returns the Newton contractor for a square system. Fns and
// scope must have the same length; it is the caller's responsibility
// to pick a square sub-system (§4.5: "applies only to square systems").
func NewNewton(fns []flatfn.DagFun, scope domain.Scope) *Newton {
	return &Newton{Fns: fns, Unknowns: scope}
}

// Scope satisfies Contractor.
func (c *Newton) Scope() domain.Scope { return c.Unknowns }

func (c *Newton) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	n := len(c.Unknowns.Vars())
	if n == 0 || len(c.Fns) != n {
		return box, cert.Maybe
	}

	lookupBox := func(varID int) interval.Interval {
		x, err := box.At(varID)
		if err != nil {
			return interval.Universe()
		}
		return x
	}

	mids := make([]float64, n)
	olds := make([]interval.Interval, n)
	for i, v := range c.Unknowns.Vars() {
		x, _ := box.At(v.ID)
		olds[i] = x
		mids[i] = x.Mid()
	}
	lookupMid := func(varID int) interval.Interval {
		if i, ok := c.Unknowns.IndexOf(varID); ok {
			return interval.Degenerate(mids[i])
		}
		return lookupBox(varID)
	}

	lookupMidReal := func(varID int) float64 {
		if i, ok := c.Unknowns.IndexOf(varID); ok {
			return mids[i]
		}
		return lookupBox(varID).Mid()
	}

	// The preconditioner needs no rigour, so the midpoint Jacobian is a
	// plain real-valued reverse-AD pass; the interval Jacobian and F(m)
	// stay rigorous because they enter the Gauss-Seidel sweep itself.
	jac := make([][]interval.Interval, n)
	fAtMid := make([]interval.Interval, n)
	jacMid := mat.NewDense(n, n, nil)
	for i, fn := range c.Fns {
		valsBox := fn.Dag.Eval(lookupBox)
		grad := fn.Dag.Diff(fn.Root, valsBox)
		rvals := fn.Dag.EvalReal(lookupMidReal)
		rgrad := fn.Dag.DiffReal(fn.Root, rvals)
		jac[i] = make([]interval.Interval, n)
		for j, v := range c.Unknowns.Vars() {
			g, ok := grad[v.ID]
			if !ok {
				g = interval.Degenerate(0)
			}
			jac[i][j] = g
			jacMid.Set(i, j, rgrad[v.ID])
		}
		valsMid := fn.Dag.Eval(lookupMid)
		fAtMid[i] = interval.Sub(valsMid[fn.Root], imageCenter(fn))
	}

	var p mat.Dense
	if err := p.Inverse(jacMid); err != nil {
		return box, cert.Maybe // singular preconditioner: no-op, §7 LPFailure-style recovery
	}

	// g = P*J (interval), r = P*F(m) (interval)
	g := make([][]interval.Interval, n)
	r := make([]interval.Interval, n)
	for i := 0; i < n; i++ {
		g[i] = make([]interval.Interval, n)
		for j := 0; j < n; j++ {
			acc := interval.Zero()
			for k := 0; k < n; k++ {
				acc = interval.Add(acc, interval.MulScalar(jac[k][j], p.At(i, k)))
			}
			g[i][j] = acc
		}
		acc := interval.Zero()
		for k := 0; k < n; k++ {
			acc = interval.Add(acc, interval.MulScalar(fAtMid[k], p.At(i, k)))
		}
		r[i] = acc
	}

	newX := append([]interval.Interval(nil), olds...)
	for i := 0; i < n; i++ {
		if g[i][i].ContainsZero() {
			continue
		}
		acc := interval.Neg(r[i])
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			delta := interval.Sub(newX[j], interval.Degenerate(mids[j]))
			acc = interval.Sub(acc, interval.Mul(g[i][j], delta))
		}
		deltaI := interval.Div(acc, g[i][i])
		candidate := interval.Add(interval.Degenerate(mids[i]), deltaI)
		newX[i] = candidate.Inter(olds[i])
	}

	out := box.Clone()
	strictlyInside := true
	for i, v := range c.Unknowns.Vars() {
		if newX[i].IsEmpty() {
			return out, cert.Empty
		}
		_ = out.SetAt(v.ID, newX[i])
		if !(newX[i].Lo > olds[i].Lo && newX[i].Hi < olds[i].Hi) {
			strictlyInside = false
		}
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	if strictlyInside {
		return out, cert.Feasible
	}
	return out, cert.Maybe
}

// imageCenter returns the degenerate interval at the midpoint of fn's
// image, so fAtMid measures F(m) relative to the equation's target
// rather than assuming the image is always {0} (most constraints are,
// after problem.Builder's AddEquation normalisation, but Newton is
// also usable on a raw inequality image's centre as a heuristic probe).
func imageCenter(fn flatfn.DagFun) interval.Interval {
	return interval.Degenerate(fn.Image.Mid())
}

