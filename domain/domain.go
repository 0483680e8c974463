package domain

import (
	"math"
	"sort"

	"github.com/realpaver-go/ncsp/interval"
)

// DomainKind distinguishes the four domain shapes a variable can carry
// (§3, §9 design note: "handle via a sum-type Domain ∈ {Interval,
// IntRange, IntSet, IntervalUnion}").
type DomainKind int

const (
	// KindInterval is a plain real interval.
	KindInterval DomainKind = iota
	// KindIntRange is a contiguous integer range {lo..hi}.
	KindIntRange
	// KindIntSet is an explicit finite set of integers (from x in S).
	KindIntSet
	// KindIntervalUnion is a disconnected union of intervals.
	KindIntervalUnion
)

// Domain is a value type holding one of the four shapes above. Every
// contractor operates on Hull(), the interval relaxation; when a
// contraction of the hull crosses a gap that existed in an
// IntRange/IntSet/IntervalUnion domain, IntersectHull reintroduces that
// gap so the domain never gains points it did not already have
// (§4.9/§9: integer domains are re-rounded once the propagator reaches
// a fixpoint on the interval hull — see DESIGN.md Open Question #3 for
// why re-rounding happens after, not inside, each contractor call).
type Domain struct {
	kind  DomainKind
	iv    interval.Interval   // KindInterval, KindIntRange (bounds are integers)
	ints  []int64             // KindIntSet, sorted ascending, deduplicated
	union []interval.Interval // KindIntervalUnion, sorted, disjoint, non-adjacent
}

// NewInterval returns a plain interval domain.
func NewInterval(x interval.Interval) Domain {
	return Domain{kind: KindInterval, iv: x}
}

// NewIntRange returns the integer range {lo, lo+1, ..., hi}.
func NewIntRange(lo, hi int64) Domain {
	if lo > hi {
		return Domain{kind: KindIntRange, iv: interval.Empty()}
	}
	return Domain{kind: KindIntRange, iv: interval.New(float64(lo), float64(hi))}
}

// NewIntSet returns the explicit finite set of integers in vals.
func NewIntSet(vals ...int64) Domain {
	cp := append([]int64(nil), vals...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:0]
	for i, v := range cp {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return Domain{kind: KindIntSet, ints: out}
}

// NewIntervalUnion returns the union of the given intervals, normalised
// into sorted, disjoint, non-adjacent pieces.
func NewIntervalUnion(ivs ...interval.Interval) Domain {
	pieces := make([]interval.Interval, 0, len(ivs))
	for _, x := range ivs {
		if !x.IsEmpty() {
			pieces = append(pieces, x)
		}
	}
	sort.Slice(pieces, func(i, j int) bool { return pieces[i].Lo < pieces[j].Lo })
	merged := make([]interval.Interval, 0, len(pieces))
	for _, p := range pieces {
		if n := len(merged); n > 0 && p.Lo <= merged[n-1].Hi {
			if p.Hi > merged[n-1].Hi {
				merged[n-1].Hi = p.Hi
			}
			continue
		}
		merged = append(merged, p)
	}
	if len(merged) == 1 {
		return Domain{kind: KindInterval, iv: merged[0]}
	}
	return Domain{kind: KindIntervalUnion, union: merged}
}

// Kind reports which of the four shapes this Domain holds.
func (d Domain) Kind() DomainKind { return d.kind }

// Hull returns the interval hull of d, the relaxation every contractor
// actually computes on (§3, §4.9).
func (d Domain) Hull() interval.Interval {
	switch d.kind {
	case KindInterval, KindIntRange:
		return d.iv
	case KindIntSet:
		if len(d.ints) == 0 {
			return interval.Empty()
		}
		return interval.New(float64(d.ints[0]), float64(d.ints[len(d.ints)-1]))
	case KindIntervalUnion:
		if len(d.union) == 0 {
			return interval.Empty()
		}
		h := d.union[0]
		for _, p := range d.union[1:] {
			h = h.Hull(p)
		}
		return h
	default:
		return interval.Empty()
	}
}

// IsEmpty reports whether d has no points at all.
func (d Domain) IsEmpty() bool {
	switch d.kind {
	case KindInterval, KindIntRange:
		return d.iv.IsEmpty()
	case KindIntSet:
		return len(d.ints) == 0
	case KindIntervalUnion:
		return len(d.union) == 0
	default:
		return true
	}
}

// Width returns the width of d's interval hull.
func (d Domain) Width() float64 { return d.Hull().Width() }

// Mid returns the midpoint of d's interval hull.
func (d Domain) Mid() float64 { return d.Hull().Mid() }

// BelowTolerance reports whether d's hull width is at or below tol.
func (d Domain) BelowTolerance(tol Tolerance) bool {
	h := d.Hull()
	return tol.Satisfied(h.Width(), h.Mid())
}

// IntersectHull narrows d by intersecting its interval hull with x,
// then reintroduces discreteness/gaps: IntRange and IntSet re-round to
// the surviving integers, IntervalUnion drops pieces left disjoint from
// x and clips the boundary pieces.
func (d Domain) IntersectHull(x interval.Interval) Domain {
	switch d.kind {
	case KindInterval:
		return Domain{kind: KindInterval, iv: d.iv.Inter(x)}
	case KindIntRange:
		narrowed := d.iv.Inter(x)
		if narrowed.IsEmpty() {
			return Domain{kind: KindIntRange, iv: interval.Empty()}
		}
		lo := int64(math.Ceil(narrowed.Lo - 1e-12))
		hi := int64(math.Floor(narrowed.Hi + 1e-12))
		return NewIntRange(lo, hi)
	case KindIntSet:
		out := d.ints[:0:0]
		for _, v := range d.ints {
			if x.Contains(float64(v)) {
				out = append(out, v)
			}
		}
		return Domain{kind: KindIntSet, ints: out}
	case KindIntervalUnion:
		pieces := make([]interval.Interval, 0, len(d.union))
		for _, p := range d.union {
			if n := p.Inter(x); !n.IsEmpty() {
				pieces = append(pieces, n)
			}
		}
		return NewIntervalUnion(pieces...)
	default:
		return d
	}
}

// SplitPoint returns the point at which a splitter should cut d's
// hull: the midpoint for continuous domains, and the half-integer
// just above the midpoint's floor for discrete ones, so re-rounding
// the halves leaves each child a strictly smaller integer domain
// (cutting exactly on an integer would hand that integer to both
// children and the wider child never shrinks).
func (d Domain) SplitPoint() float64 {
	m := d.Mid()
	if d.kind == KindIntRange || d.kind == KindIntSet {
		return math.Floor(m) + 0.5
	}
	return m
}

// Contains reports whether x is a member of d (not just its hull).
func (d Domain) Contains(x float64) bool {
	switch d.kind {
	case KindInterval, KindIntRange:
		return d.iv.Contains(x)
	case KindIntSet:
		for _, v := range d.ints {
			if float64(v) == x {
				return true
			}
		}
		return false
	case KindIntervalUnion:
		for _, p := range d.union {
			if p.Contains(x) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IntValues returns the sorted members of an IntRange or IntSet
// domain. It returns ErrKindMismatch for Interval/IntervalUnion
// domains, which are not enumerable.
func (d Domain) IntValues() ([]int64, error) {
	switch d.kind {
	case KindIntRange:
		if d.iv.IsEmpty() {
			return nil, nil
		}
		lo, hi := int64(d.iv.Lo), int64(d.iv.Hi)
		out := make([]int64, 0, hi-lo+1)
		for v := lo; v <= hi; v++ {
			out = append(out, v)
		}
		return out, nil
	case KindIntSet:
		return append([]int64(nil), d.ints...), nil
	default:
		return nil, ErrKindMismatch
	}
}
