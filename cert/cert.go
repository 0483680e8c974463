// Package cert defines the proof certificate lattice shared by every
// contractor, the propagator, the prover, and the search tree:
// Empty < Maybe < Feasible < Inner (§4.5, glossary). Keeping the type
// in its own leaf package lets contractor, propagator, prove, and
// search depend on it without depending on each other.
package cert

// Certificate is the proof attached to a box after a contraction.
type Certificate int

const (
	// Empty means the box contains no solution; callers discard it.
	Empty Certificate = iota
	// Maybe means the box may still contain solutions.
	Maybe
	// Feasible means at least one point of the box is proved to satisfy
	// the constraint(s) (only produced by the prover).
	Feasible
	// Inner means every point of the box satisfies the constraint(s).
	Inner
)

// String renders the certificate name, used in .sol output and logs.
func (c Certificate) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Maybe:
		return "Maybe"
	case Feasible:
		return "Feasible"
	case Inner:
		return "Inner"
	default:
		return "Unknown"
	}
}

// Meet returns the weaker (lower in the lattice) of two certificates,
// the rule the propagator uses to combine the outcome of a pool of
// contractors: the pool as a whole is only as strong as its weakest
// member, except that any Empty dominates everything.
func Meet(a, b Certificate) Certificate {
	if a == Empty || b == Empty {
		return Empty
	}
	if a < b {
		return a
	}
	return b
}

// MonotoneUnder reports whether `next` is a legal successor of `prev`
// under further contraction: the certificate lattice only goes up
// (§3 invariant) except that Empty can be reached from any state (the
// box shrank to nothing) and Feasible is produced only by the prover,
// not by further contraction of a Maybe box without proof.
func MonotoneUnder(prev, next Certificate) bool {
	if next == Empty {
		return true
	}
	return next >= prev
}
