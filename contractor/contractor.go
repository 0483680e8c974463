// Package contractor implements the narrowing operators of §4.5: each
// one maps a box to a (possibly smaller) box plus a proof certificate
// from package cert. HC4Revise, BC4, affine-revise, polytope-hull,
// Newton, var3B, varCID, and ACID all satisfy the same Contractor
// interface so the propagator (§4.6) can drive an arbitrary pool of
// them without knowing which kind it holds.
//
// Grounded on graph/bfs.go's and graph/dfs.go's traversal-with-hooks
// shape (a single, side-effect-free pass over shared state that
// returns a result) generalised from "visit a graph" to "narrow a
// box", and on original_source/src/realpaver/Contractor.hpp's single
// virtual contract() method.
package contractor

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
)

// Contractor narrows an IntervalBox against one or more constraints
// and reports a proof certificate. Implementations never mutate the
// box they are given; Contract returns a fresh (possibly identical)
// box.
type Contractor interface {
	// Scope reports the variables this contractor can narrow; the
	// propagator uses it to decide which contractors to reactivate
	// after another contractor shrinks a variable (§4.6 step 4).
	Scope() domain.Scope

	// Contract narrows box and returns the result with its certificate.
	Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate)
}

// Pool is an ordered list of contractors sharing (possibly overlapping)
// scopes, the unit the propagator iterates over (§4.5 Composition).
type Pool []Contractor

// CombinedScope returns the union of every contractor's scope in the
// pool, in first-occurrence order.
func (p Pool) CombinedScope() domain.Scope {
	s := domain.Scope{}
	for i, c := range p {
		if i == 0 {
			s = c.Scope()
			continue
		}
		s = domain.Union(s, c.Scope())
	}
	return s
}
