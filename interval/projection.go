package interval

import "math"

// This file implements the backward (projection) form of every forward
// operation in arithmetic.go and trig.go. Each ProjX narrows one
// argument against the other argument(s) and a target image z, per
// §4.1: projX(x, y, z) = x ∩ { u ∈ x : ∃ v ∈ y, op(u, v) ∈ z }. Every
// projection here is sound (returns a superset of the true solution
// set) even where it is not the tightest possible narrowing; callers
// needing the exact answer compose it with the forward evaluation
// already intersected with z upstream in HC4Revise.

// ProjNeg narrows x for the constraint -x ∈ z.
func ProjNeg(x, z Interval) Interval {
	return x.Inter(Neg(z))
}

// ProjAddX narrows x for x + y ∈ z.
func ProjAddX(x, y, z Interval) Interval {
	return x.Inter(Sub(z, y))
}

// ProjAddY narrows y for x + y ∈ z.
func ProjAddY(x, y, z Interval) Interval {
	return y.Inter(Sub(z, x))
}

// ProjSubX narrows x for x - y ∈ z.
func ProjSubX(x, y, z Interval) Interval {
	return x.Inter(Add(z, y))
}

// ProjSubY narrows y for x - y ∈ z.
func ProjSubY(x, y, z Interval) Interval {
	return y.Inter(Sub(x, z))
}

// ProjMulX narrows x for x * y ∈ z.
func ProjMulX(x, y, z Interval) Interval {
	return x.Inter(Div(z, y))
}

// ProjMulY narrows y for x * y ∈ z.
func ProjMulY(x, y, z Interval) Interval {
	return y.Inter(Div(z, x))
}

// ProjDivX narrows x for x / y ∈ z.
func ProjDivX(x, y, z Interval) Interval {
	return x.Inter(Mul(z, y))
}

// ProjDivY narrows y for x / y ∈ z.
func ProjDivY(x, y, z Interval) Interval {
	return y.Inter(Div(x, z))
}

// ProjMin narrows x for min(x, y) ∈ z.
func ProjMin(x, y, z Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() || z.IsEmpty() {
		return Empty()
	}
	lo := math.Max(x.Lo, z.Lo)
	hi := x.Hi
	if y.Lo > z.Hi {
		hi = math.Min(hi, z.Hi)
	}
	return x.Inter(Interval{Lo: roundDown(lo), Hi: roundUp(hi)})
}

// ProjMax narrows x for max(x, y) ∈ z.
func ProjMax(x, y, z Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() || z.IsEmpty() {
		return Empty()
	}
	hi := math.Min(x.Hi, z.Hi)
	lo := x.Lo
	if y.Hi < z.Lo {
		lo = math.Max(lo, z.Lo)
	}
	return x.Inter(Interval{Lo: roundDown(lo), Hi: roundUp(hi)})
}

// ProjAbs narrows x for |x| ∈ z.
func ProjAbs(x, z Interval) Interval {
	zz := z.Inter(Interval{Lo: 0, Hi: math.Inf(1)})
	if zz.IsEmpty() {
		return Empty()
	}
	pos := zz
	neg := Neg(zz)
	return x.Inter(pos).Hull(x.Inter(neg))
}

// ProjSign narrows x for sgn(x) ∈ z.
func ProjSign(x, z Interval) Interval {
	result := x
	if !z.Contains(1) {
		result = result.Inter(Interval{Lo: math.Inf(-1), Hi: 0})
	}
	if !z.Contains(-1) {
		result = result.Inter(Interval{Lo: 0, Hi: math.Inf(1)})
	}
	return result
}

// ProjSqr narrows x for x^2 ∈ z.
func ProjSqr(x, z Interval) Interval {
	zz := z.Inter(Interval{Lo: 0, Hi: math.Inf(1)})
	if zz.IsEmpty() {
		return Empty()
	}
	lo, hi := roundDown(math.Sqrt(zz.Lo)), roundUp(math.Sqrt(zz.Hi))
	pos := Interval{Lo: lo, Hi: hi}
	neg := Neg(pos)
	return x.Inter(pos).Hull(x.Inter(neg))
}

// ProjSqrt narrows x for sqrt(x) ∈ z.
func ProjSqrt(x, z Interval) Interval {
	zz := z.Inter(Interval{Lo: 0, Hi: math.Inf(1)})
	if zz.IsEmpty() {
		return Empty()
	}
	return x.Inter(Sqr(zz))
}

// ProjExp narrows x for exp(x) ∈ z.
func ProjExp(x, z Interval) Interval {
	zz := z.Inter(Interval{Lo: 0, Hi: math.Inf(1)})
	if zz.IsEmpty() {
		return Empty()
	}
	return x.Inter(Log(zz))
}

// ProjLog narrows x for log(x) ∈ z.
func ProjLog(x, z Interval) Interval {
	return x.Inter(Exp(z))
}

// ProjIntPow narrows x for x^n ∈ z, n >= 0.
func ProjIntPow(x, z Interval, n int) Interval {
	switch {
	case n == 0:
		if !z.Contains(1) {
			return Empty()
		}
		return x
	case n == 1:
		return x.Inter(z)
	case n%2 == 0:
		zz := z.Inter(Interval{Lo: 0, Hi: math.Inf(1)})
		if zz.IsEmpty() {
			return Empty()
		}
		lo := roundDown(nthRoot(zz.Lo, n))
		hi := roundUp(nthRoot(zz.Hi, n))
		pos := Interval{Lo: lo, Hi: hi}
		neg := Neg(pos)
		return x.Inter(pos).Hull(x.Inter(neg))
	default:
		lo := roundDown(signedNthRoot(z.Lo, n))
		hi := roundUp(signedNthRoot(z.Hi, n))
		return x.Inter(Interval{Lo: lo, Hi: hi})
	}
}

func nthRoot(v float64, n int) float64 {
	if math.IsInf(v, 1) {
		return math.Inf(1)
	}
	if v <= 0 {
		return 0
	}
	return math.Pow(v, 1/float64(n))
}

func signedNthRoot(v float64, n int) float64 {
	if math.IsInf(v, 1) {
		return math.Inf(1)
	}
	if math.IsInf(v, -1) {
		return math.Inf(-1)
	}
	s := math.Pow(math.Abs(v), 1/float64(n))
	if v < 0 {
		return -s
	}
	return s
}

// periodicHullProject is the shared engine behind ProjSin/ProjCos/ProjTan:
// given the candidate solution set expressed as base branches within one
// period, it replicates those branches across every period overlapping
// x and returns the hull of x intersected with each replica — sound
// because it is the union (via hull) of sub-preimages, each itself a
// sound intersection with x.
func periodicHullProject(x Interval, branches []Interval, period float64) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	k0 := math.Floor(x.Lo/period) - 1
	k1 := math.Ceil(x.Hi/period) + 1
	result := Empty()
	for k := k0; k <= k1; k++ {
		shift := k * period
		for _, b := range branches {
			if b.IsEmpty() {
				continue
			}
			shifted := Interval{Lo: b.Lo + shift, Hi: b.Hi + shift}
			result = result.Hull(x.Inter(shifted))
		}
	}
	return result
}

// ProjSin narrows x for sin(x) ∈ z.
func ProjSin(x, z Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if x.Hi-x.Lo >= 2*math.Pi {
		return x
	}
	zz := z.Inter(Interval{Lo: -1, Hi: 1})
	if zz.IsEmpty() {
		return Empty()
	}
	// increasing branch on [-pi/2, pi/2]
	b1 := Interval{Lo: roundDown(math.Asin(zz.Lo)), Hi: roundUp(math.Asin(zz.Hi))}
	// decreasing branch on [pi/2, 3pi/2]: u = pi - asin(v)
	b2 := Interval{Lo: roundDown(math.Pi - math.Asin(zz.Hi)), Hi: roundUp(math.Pi - math.Asin(zz.Lo))}
	return periodicHullProject(x, []Interval{b1, b2}, 2*math.Pi)
}

// ProjCos narrows x for cos(x) ∈ z.
func ProjCos(x, z Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if x.Hi-x.Lo >= 2*math.Pi {
		return x
	}
	zz := z.Inter(Interval{Lo: -1, Hi: 1})
	if zz.IsEmpty() {
		return Empty()
	}
	// decreasing branch on [0, pi]
	b1 := Interval{Lo: roundDown(math.Acos(zz.Hi)), Hi: roundUp(math.Acos(zz.Lo))}
	// mirror branch on [-pi, 0]
	b2 := Neg(b1)
	return periodicHullProject(x, []Interval{b1, b2}, 2*math.Pi)
}

// ProjTan narrows x for tan(x) ∈ z.
func ProjTan(x, z Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if x.Hi-x.Lo >= math.Pi {
		return x
	}
	b := Interval{Lo: roundDown(math.Atan(z.Lo)), Hi: roundUp(math.Atan(z.Hi))}
	return periodicHullProject(x, []Interval{b}, math.Pi)
}
