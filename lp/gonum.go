package lp

import (
	"math"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"
)

type variable struct {
	lo, hi float64
}

// row is a one-sided linear inequality sum(coef_j * x'_j) <= rhs over
// the shifted variables x'_j = x_j - lo_j, turned into an equality with
// its own slack column when the relaxation is assembled.
type row struct {
	coef map[int]float64
	rhs  float64
}

// GonumOracle implements Oracle over gonum's dense simplex solver. It
// holds the problem in the caller's original (bounded) variable space
// and only shifts/slacks it into gonum's x>=0, Ax=b standard form at
// Optimize time, so AddVariable/AddConstraint/SetObjective read and
// write in the natural units every other package uses.
type GonumOracle struct {
	vars    []variable
	rows    []row
	objExpr LinearExpr
	maximize bool

	solved  bool
	optVal  float64
	primalX []float64 // original-space solution, len(vars)
}

// NewGonumOracle returns an empty oracle.
func NewGonumOracle() *GonumOracle { return &GonumOracle{} }

func (o *GonumOracle) AddVariable(lo, hi float64) int {
	o.vars = append(o.vars, variable{lo: lo, hi: hi})
	idx := len(o.vars) - 1
	if hi < math.Inf(1) {
		o.rows = append(o.rows, row{coef: LinearExpr{idx: 1}, rhs: hi - lo})
	}
	return idx
}

func (o *GonumOracle) AddConstraint(expr LinearExpr, lo, hi float64) {
	shift := 0.0
	for idx, c := range expr {
		shift += c * o.vars[idx].lo
	}
	if hi < math.Inf(1) {
		o.rows = append(o.rows, row{coef: expr, rhs: hi - shift})
	}
	if lo > math.Inf(-1) {
		neg := make(LinearExpr, len(expr))
		for idx, c := range expr {
			neg[idx] = -c
		}
		o.rows = append(o.rows, row{coef: neg, rhs: -(lo - shift)})
	}
}

func (o *GonumOracle) SetObjective(expr LinearExpr, maximize bool) {
	o.objExpr = expr
	o.maximize = maximize
}

func (o *GonumOracle) Optimize() (Status, error) {
	o.solved = false
	n := len(o.vars)
	m := len(o.rows)
	width := n + m

	c := make([]float64, width)
	for idx, coef := range o.objExpr {
		if o.maximize {
			c[idx] = -coef
		} else {
			c[idx] = coef
		}
	}

	a := mat.NewDense(m, width, nil)
	b := make([]float64, m)
	for i, r := range o.rows {
		for idx, coef := range r.coef {
			a.Set(i, idx, coef)
		}
		a.Set(i, n+i, 1)
		b[i] = r.rhs
	}

	optF, optX, err := gonumlp.Simplex(c, a, b, 0, nil)
	if err != nil {
		if err == gonumlp.ErrInfeasible {
			return StatusInfeasible, ErrInfeasible
		}
		if err == gonumlp.ErrUnbounded {
			return StatusUnbounded, ErrUnbounded
		}
		return StatusOther, err
	}

	primal := make([]float64, n)
	for idx, v := range o.vars {
		primal[idx] = v.lo + optX[idx]
	}
	o.primalX = primal
	if o.maximize {
		o.optVal = -optF
	} else {
		o.optVal = optF
	}
	o.solved = true
	return StatusOptimal, nil
}

// certSlack is the relative outward margin CertifiedOptimum applies to
// the raw simplex optimum. The dense simplex carries accumulated
// floating-point error well above one ULP, so the certified bound
// backs off proportionally to the optimum's magnitude; a contractor
// using the bound then never excludes a true feasible point to LP
// round-off. Bounds that matter at tighter precision than this must
// come from the interval contractors, not the LP.
const certSlack = 1e-9

// CertifiedOptimum returns the simplex optimum widened outward (down
// for a minimisation, up for a maximisation) by certSlack relative to
// its magnitude.
func (o *GonumOracle) CertifiedOptimum() (float64, error) {
	if !o.solved {
		return 0, ErrNoSolution
	}
	pad := certSlack * (1 + math.Abs(o.optVal))
	if o.maximize {
		return o.optVal + pad, nil
	}
	return o.optVal - pad, nil
}

// Solution returns the primal solution in the caller's original
// variable space.
func (o *GonumOracle) Solution() ([]float64, error) {
	if !o.solved {
		return nil, ErrNoSolution
	}
	out := make([]float64, len(o.primalX))
	copy(out, o.primalX)
	return out, nil
}

// DualSolution is unavailable: gonum's dense simplex does not expose
// its multipliers, so callers fall back to CertifiedOptimum's outward
// widening (which is how the polytope contractor uses this oracle).
func (o *GonumOracle) DualSolution() ([]float64, error) {
	return nil, ErrNoDual
}
