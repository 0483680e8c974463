package search

import (
	"github.com/realpaver-go/ncsp/domain"
)

// Splitter chooses a variable and a split point inside its domain for
// a node's box (§4.7). ok is false when every variable is already
// below tolerance or degenerate — the caller must treat the node as a
// solution rather than ask it to split further.
type Splitter interface {
	Split(box domain.DomainBox) (varID int, point float64, ok bool)
}

// candidates returns the scope positions whose domain is not yet below
// its own tolerance — the variables worth spending a split on.
func candidates(box domain.DomainBox) []int {
	scope := box.Scope()
	out := make([]int, 0, scope.Len())
	for i, v := range scope.Vars() {
		d := box.AtIndex(i)
		if !d.BelowTolerance(v.Tol) {
			out = append(out, i)
		}
	}
	return out
}

// LargestWidth splits the widest non-trivial variable (§4.7). When Smear
// is non-nil it ranks the whole candidate set by the interval Jacobian's
// impact instead of raw width, and raw width decides only when Smear
// picks no candidate. Among equally wide candidates the first one wins.
type LargestWidth struct {
	Smear *SmearRanking
}

func (s *LargestWidth) Split(box domain.DomainBox) (int, float64, bool) {
	cands := candidates(box)
	if len(cands) == 0 {
		return 0, 0, false
	}
	hull := box.Hull()
	idx := -1
	if s.Smear != nil {
		idx = s.Smear.Best(hull, cands)
	}
	if idx < 0 {
		idx = hull.WidestIndex(cands)
	}
	if idx < 0 {
		return 0, 0, false
	}
	v := box.Scope().At(idx)
	return v.ID, box.AtIndex(idx).SplitPoint(), true
}

// RoundRobin cycles through the scope in index order, skipping any
// variable already below tolerance, and remembers where it left off
// across calls (§4.7: "cycle through the scope").
type RoundRobin struct {
	next int
}

func (r *RoundRobin) Split(box domain.DomainBox) (int, float64, bool) {
	cands := candidates(box)
	if len(cands) == 0 {
		return 0, 0, false
	}
	in := func(i int) bool {
		for _, c := range cands {
			if c == i {
				return true
			}
		}
		return false
	}
	n := box.Scope().Len()
	for step := 0; step < n; step++ {
		i := (r.next + step) % n
		if in(i) {
			r.next = (i + 1) % n
			v := box.Scope().At(i)
			return v.ID, box.AtIndex(i).SplitPoint(), true
		}
	}
	return 0, 0, false
}

// SmearRanking picks, among a set of candidate scope positions, the one
// with the largest smear value: the interval Jacobian's partial
// derivative magnitude times the variable's own domain width, an
// estimate of how much splitting that variable would reduce a
// constraint's value range (§4.7 secondary criterion). Fns are the
// constraints whose derivative magnitudes are summed into the smear.
type SmearRanking struct {
	Fns []DagFunLike
}

// DagFunLike is the minimal surface search needs from a
// flatfn.FlatFunction without importing it directly (flatfn already
// imports domain; this keeps search's dependency on flatfn limited to
// what Best needs, avoiding a wider coupling for a single secondary
// heuristic).
type DagFunLike interface {
	Diff(box domain.IntervalBox) map[int]float64
}

// Best returns the scope position (among cands) with the largest smear
// value — the per-constraint derivative magnitudes summed over Fns,
// times the candidate's own width — or -1 if every candidate's
// contribution is zero (falls back to largest-width).
func (s *SmearRanking) Best(box domain.IntervalBox, cands []int) int {
	if s == nil || len(s.Fns) == 0 {
		return -1
	}
	smear := make(map[int]float64)
	for _, fn := range s.Fns {
		for id, g := range fn.Diff(box) {
			if g < 0 {
				g = -g
			}
			smear[id] += g
		}
	}
	best, bestVal := -1, 0.0
	for _, i := range cands {
		id := box.Scope().At(i).ID
		val := smear[id] * box.AtIndex(i).Width()
		if val > bestVal {
			best, bestVal = i, val
		}
	}
	return best
}
