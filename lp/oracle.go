package lp

import "errors"

// Status reports the outcome of a call to Oracle.Optimize.
type Status int

const (
	// StatusOptimal means an optimum was found.
	StatusOptimal Status = iota
	// StatusInfeasible means the constraint set admits no point.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded over the
	// feasible region.
	StatusUnbounded
	// StatusOther covers every remaining failure mode (numerical
	// breakdown, iteration limit). The polytope contractor treats it
	// like any non-Optimal status: the call becomes a no-op (§7,
	// LPFailure).
	StatusOther
)

var (
	// ErrNoSolution is returned by CertifiedOptimum/Solution before
	// a successful Optimize call.
	ErrNoSolution = errors.New("lp: no solution available")
	// ErrInfeasible is returned by Optimize when the relaxation has no
	// feasible point.
	ErrInfeasible = errors.New("lp: infeasible")
	// ErrUnbounded is returned by Optimize when the objective is
	// unbounded.
	ErrUnbounded = errors.New("lp: unbounded")
	// ErrNoDual is returned by DualSolution when the backend cannot
	// produce dual multipliers for the last solve.
	ErrNoDual = errors.New("lp: dual solution not available")
)

// LinearExpr is a sparse linear expression: variable index -> coefficient.
type LinearExpr map[int]float64

// Oracle is a linear-programming relaxation builder and solver. A
// caller adds bounded variables and linear constraints over them, sets
// an objective, and calls Optimize; CertifiedOptimum then returns an
// outward-rounded bound on the true optimum that remains valid even
// though the LP solve itself is floating point (§4.11).
type Oracle interface {
	// AddVariable adds a variable with bounds [lo, hi] and returns its
	// index for use in AddConstraint/SetObjective.
	AddVariable(lo, hi float64) int

	// AddConstraint adds lo <= expr <= hi as a linear constraint.
	AddConstraint(expr LinearExpr, lo, hi float64)

	// SetObjective sets the optimization direction and linear objective.
	SetObjective(expr LinearExpr, maximize bool)

	// Optimize solves the current relaxation.
	Optimize() (Status, error)

	// CertifiedOptimum returns an outward-rounded bound on the true
	// optimum of the last successful Optimize call: an upper bound when
	// maximizing, a lower bound when minimizing, so that a contractor
	// using it never discards a feasible point.
	CertifiedOptimum() (float64, error)

	// Solution returns the primal solution vector of the last
	// successful Optimize call, indexed by AddVariable's return values.
	Solution() ([]float64, error)

	// DualSolution returns the dual multipliers of the last successful
	// Optimize call, one per added constraint, or ErrNoDual for a
	// backend that cannot produce them (callers must then rely on
	// CertifiedOptimum alone).
	DualSolution() ([]float64, error)
}
