package domain

import "github.com/realpaver-go/ncsp/interval"

// Kind distinguishes continuous (real) variables from discrete
// (integer) ones.
type Kind int

const (
	// Continuous is a real-valued variable.
	Continuous Kind = iota
	// Discrete is an integer-valued variable (§3: IntRange or IntSet
	// initial domains).
	Discrete
)

func (k Kind) String() string {
	if k == Discrete {
		return "discrete"
	}
	return "continuous"
}

// Tolerance is the per-variable width below which a domain is deemed
// sufficiently small to stop splitting (§3, glossary). A domain of
// width w around a value of magnitude m is below tolerance when
// w <= max(Abs, Rel*|m|).
type Tolerance struct {
	Abs float64
	Rel float64
}

// Satisfied reports whether a domain of the given width, centred near
// mid, is at or below this tolerance.
func (t Tolerance) Satisfied(width, mid float64) bool {
	bound := t.Abs
	if r := t.Rel * absf(mid); r > bound {
		bound = r
	}
	return width <= bound
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// DefaultTolerance matches the parameter file's SPLIT_TOL_ABS/REL
// defaults (§6).
var DefaultTolerance = Tolerance{Abs: 1e-8, Rel: 1e-8}

// Variable is a single dimension of the search space: a dense
// identifier, a name, a continuous/discrete flag, an initial Domain,
// and a tolerance. Identifiers are dense from zero and are the only
// thing contractors carry at runtime (§3) — every Box indexes by this
// ID via its Scope.
type Variable struct {
	ID      int
	Name    string
	Kind    Kind
	Initial Domain
	Tol     Tolerance
}

// NewVariable validates and constructs a Variable. It returns
// ErrEmptyDomain if the initial domain has no points (§7: construction
// error, must abort the run).
func NewVariable(id int, name string, kind Kind, initial Domain, tol Tolerance) (Variable, error) {
	if initial.IsEmpty() {
		return Variable{}, ErrEmptyDomain
	}
	return Variable{ID: id, Name: name, Kind: kind, Initial: initial, Tol: tol}, nil
}

// Image returns the interval hull of v's initial domain, a convenience
// for callers that only need the continuous relaxation.
func (v Variable) Image() interval.Interval {
	return v.Initial.Hull()
}
