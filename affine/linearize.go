package affine

import (
	"math"

	"github.com/realpaver-go/ncsp/interval"
)

// Linearization selects the linear enclosure strategy used to lift a
// nonlinear univariate operator into affine arithmetic (§4.2).
type Linearization int

const (
	// MinRange picks the slope that minimises the width of the
	// resulting enclosure (the classic affine-arithmetic "min-range"
	// approximation: the average of the function's derivative at the
	// domain endpoints).
	MinRange Linearization = iota
	// Chebyshev picks the secant slope between the domain endpoints,
	// which minimises the maximum pointwise error instead.
	Chebyshev
)

// enclose builds the affine form alpha*f + beta + [-err, err] that
// tightly bounds a convex (sign=+1) or concave (sign=-1) function fn
// with derivative dfn over f's range [lo, hi], per the chosen
// linearization. newIdx names the fresh noise term created to hold
// the [-err, err] slack, letting that slack later be contracted like
// any other noise symbol by the affine-revise contractor rather than
// being stuck forever in Err.
func enclose(f Form, lo, hi float64, fn, dfn func(float64) float64, sign float64, kind Linearization, newIdx int) Form {
	if lo > hi || math.IsNaN(f.Centre) {
		return Form{Centre: math.NaN()}
	}
	if lo == hi {
		return Form{Centre: fn(lo), Err: f.Err}
	}

	var alpha float64
	switch kind {
	case Chebyshev:
		alpha = (fn(hi) - fn(lo)) / (hi - lo)
	default: // MinRange
		alpha = 0.5 * (dfn(lo) + dfn(hi))
	}

	g := func(x float64) float64 { return fn(x) - alpha*x }
	gLo, gHi := g(lo), g(hi)
	gMin, gMax := math.Min(gLo, gHi), math.Max(gLo, gHi)

	// For a convex fn, g is itself convex with the same sign of
	// curvature as fn when alpha lies between dfn(lo) and dfn(hi); its
	// extremum occurs where fn'(t) = alpha. Sample it to tighten the
	// bound beyond the two endpoints.
	if t, ok := invertMonotone(dfn, lo, hi, alpha); ok {
		gt := g(t)
		gMin = math.Min(gMin, gt)
		gMax = math.Max(gMax, gt)
	}

	var beta, err float64
	if sign >= 0 {
		beta = 0.5 * (gMin + gMax)
		err = 0.5 * (gMax - gMin)
	} else {
		beta = 0.5 * (gMin + gMax)
		err = 0.5 * (gMax - gMin)
	}

	coeffs := make(map[int]float64, len(f.Coeffs)+1)
	for idx, c := range f.Coeffs {
		coeffs[idx] = alpha * c
	}
	totalErr := math.Abs(alpha)*f.Err + err
	if totalErr != 0 {
		coeffs[newIdx] += totalErr
	}
	return Form{Centre: alpha*f.Centre + beta, Coeffs: coeffs}
}

// invertMonotone searches for t in [lo, hi] with dfn(t) == target by
// bisection, assuming dfn is monotone on [lo, hi] (true for every
// operator this package lifts: sqr, exp, log, reciprocal and sqrt on
// their natural domains, sin/cos on a half-period).
func invertMonotone(dfn func(float64) float64, lo, hi, target float64) (float64, bool) {
	dLo, dHi := dfn(lo), dfn(hi)
	if (dLo-target)*(dHi-target) > 0 {
		return 0, false
	}
	a, b := lo, hi
	fa := dfn(a) - target
	for i := 0; i < 60; i++ {
		m := 0.5 * (a + b)
		fm := dfn(m) - target
		if fm == 0 {
			return m, true
		}
		if (fa > 0) == (fm > 0) {
			a, fa = m, fm
		} else {
			b = m
		}
	}
	return 0.5 * (a + b), true
}

// Sqr lifts x^2 into affine arithmetic, convex everywhere.
func Sqr(f Form, dom interval.Interval, kind Linearization, newIdx int) Form {
	return enclose(f, dom.Lo, dom.Hi, func(x float64) float64 { return x * x }, func(x float64) float64 { return 2 * x }, 1, kind, newIdx)
}

// Recip lifts 1/x into affine arithmetic. dom must not straddle zero.
func Recip(f Form, dom interval.Interval, kind Linearization, newIdx int) Form {
	if dom.ContainsZero() {
		return Form{Centre: math.NaN()}
	}
	return enclose(f, dom.Lo, dom.Hi, func(x float64) float64 { return 1 / x }, func(x float64) float64 { return -1 / (x * x) }, 1, kind, newIdx)
}

// Sqrt lifts sqrt(x) into affine arithmetic, concave on x >= 0.
func Sqrt(f Form, dom interval.Interval, kind Linearization, newIdx int) Form {
	lo := math.Max(0, dom.Lo)
	if lo > dom.Hi {
		return Form{Centre: math.NaN()}
	}
	return enclose(f, lo, dom.Hi, math.Sqrt, func(x float64) float64 { return 0.5 / math.Sqrt(x) }, -1, kind, newIdx)
}

// Exp lifts exp(x) into affine arithmetic, convex everywhere.
func Exp(f Form, dom interval.Interval, kind Linearization, newIdx int) Form {
	return enclose(f, dom.Lo, dom.Hi, math.Exp, math.Exp, 1, kind, newIdx)
}

// Log lifts log(x) into affine arithmetic, concave on x > 0.
func Log(f Form, dom interval.Interval, kind Linearization, newIdx int) Form {
	if dom.Lo <= 0 {
		return Form{Centre: math.NaN()}
	}
	return enclose(f, dom.Lo, dom.Hi, math.Log, func(x float64) float64 { return 1 / x }, -1, kind, newIdx)
}

// Sin lifts sin(x) into affine arithmetic over a domain narrower than
// one half-period so that sin is monotone (concave or convex) there;
// wider domains fall back to the interval hull [-1, 1].
func Sin(f Form, dom interval.Interval, kind Linearization, newIdx int) Form {
	if dom.Hi-dom.Lo >= math.Pi {
		return Form{Centre: 0, Err: 1}
	}
	sign := 1.0
	if math.Sin(0.5*(dom.Lo+dom.Hi)) > 0 {
		sign = -1 // concave near a positive hump
	}
	return enclose(f, dom.Lo, dom.Hi, math.Sin, math.Cos, sign, kind, newIdx)
}

// Cos lifts cos(x) into affine arithmetic, same convention as Sin.
func Cos(f Form, dom interval.Interval, kind Linearization, newIdx int) Form {
	if dom.Hi-dom.Lo >= math.Pi {
		return Form{Centre: 0, Err: 1}
	}
	sign := 1.0
	if math.Cos(0.5*(dom.Lo+dom.Hi)) > 0 {
		sign = -1
	}
	return enclose(f, dom.Lo, dom.Hi, math.Cos, func(x float64) float64 { return -math.Sin(x) }, sign, kind, newIdx)
}
