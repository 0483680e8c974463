package interval

import "math"

// Interval is a closed real interval [Lo, Hi]. The zero value is the
// degenerate interval [0, 0]; use Empty(), Universe(), or one of the
// constructors for anything else.
//
// An interval with Lo > Hi represents Empty (see IsEmpty). Infinite
// bounds are legal and represent unbounded sides.
type Interval struct {
	Lo, Hi float64
}

// New returns the interval [lo, hi]. If lo > hi the result is Empty.
func New(lo, hi float64) Interval {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return Empty()
	}
	return Interval{Lo: lo, Hi: hi}
}

// Degenerate returns the point interval [x, x].
func Degenerate(x float64) Interval {
	if math.IsNaN(x) {
		return Empty()
	}
	return Interval{Lo: x, Hi: x}
}

// Empty returns the canonical empty interval.
func Empty() Interval {
	return Interval{Lo: math.Inf(1), Hi: math.Inf(-1)}
}

// Universe returns (-Inf, +Inf).
func Universe() Interval {
	return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// Zero returns the point interval [0, 0].
func Zero() Interval { return Degenerate(0) }

// IsEmpty reports whether x has no points.
func (x Interval) IsEmpty() bool {
	return x.Lo > x.Hi
}

// IsUniverse reports whether x is exactly (-Inf, +Inf).
func (x Interval) IsUniverse() bool {
	return x.Lo == math.Inf(-1) && x.Hi == math.Inf(1)
}

// IsDegenerate reports whether x is a single point (and non-empty).
func (x Interval) IsDegenerate() bool {
	return !x.IsEmpty() && x.Lo == x.Hi
}

// ContainsZero reports whether 0 is a member of x.
func (x Interval) ContainsZero() bool {
	return !x.IsEmpty() && x.Lo <= 0 && 0 <= x.Hi
}

// Contains reports whether y is a finite real contained in x.
func (x Interval) Contains(y float64) bool {
	return !x.IsEmpty() && x.Lo <= y && y <= x.Hi
}

// Width returns Hi - Lo, or 0 for an empty interval, or +Inf if
// unbounded on at least one side.
func (x Interval) Width() float64 {
	if x.IsEmpty() {
		return 0
	}
	return x.Hi - x.Lo
}

// Mid returns the midpoint of x. For a one-sided unbounded interval it
// returns the finite bound; for Universe it returns 0.
func (x Interval) Mid() float64 {
	if x.IsEmpty() {
		return math.NaN()
	}
	switch {
	case math.IsInf(x.Lo, -1) && math.IsInf(x.Hi, 1):
		return 0
	case math.IsInf(x.Lo, -1):
		return x.Hi
	case math.IsInf(x.Hi, 1):
		return x.Lo
	default:
		return x.Lo + 0.5*(x.Hi-x.Lo)
	}
}

// Radius returns half the width, used by affine-form evaluation.
func (x Interval) Radius() float64 {
	return 0.5 * x.Width()
}

// Inter returns the intersection of x and y, Empty if disjoint.
func (x Interval) Inter(y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	lo := math.Max(x.Lo, y.Lo)
	hi := math.Min(x.Hi, y.Hi)
	if lo > hi {
		return Empty()
	}
	return Interval{Lo: lo, Hi: hi}
}

// Hull returns the smallest interval containing both x and y (the
// interval union when one of them is empty is the other).
func (x Interval) Hull(y Interval) Interval {
	if x.IsEmpty() {
		return y
	}
	if y.IsEmpty() {
		return x
	}
	return Interval{Lo: math.Min(x.Lo, y.Lo), Hi: math.Max(x.Hi, y.Hi)}
}

// IsSubset reports whether x is a subset of y.
func (x Interval) IsSubset(y Interval) bool {
	if x.IsEmpty() {
		return true
	}
	if y.IsEmpty() {
		return false
	}
	return y.Lo <= x.Lo && x.Hi <= y.Hi
}

// Overlaps reports whether x and y share at least one point.
func (x Interval) Overlaps(y Interval) bool {
	return !x.Inter(y).IsEmpty()
}

// SplitAt returns the two halves of x obtained by cutting at m, which
// must lie in [Lo, Hi]. Used by splitters (§4.7) and var3B/varCID
// slicing (§4.5).
func (x Interval) SplitAt(m float64) (left, right Interval) {
	return Interval{Lo: x.Lo, Hi: m}, Interval{Lo: m, Hi: x.Hi}
}

// String renders x as "[lo, hi]", or "∅" for Empty.
func (x Interval) String() string {
	if x.IsEmpty() {
		return "∅"
	}
	return "[" + formatBound(x.Lo) + ", " + formatBound(x.Hi) + "]"
}
