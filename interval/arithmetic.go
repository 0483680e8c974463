package interval

import "math"

// Neg returns -x.
func Neg(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: roundDown(-x.Hi), Hi: roundUp(-x.Lo)}
}

// Add returns x + y, outward-rounded.
func Add(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: roundDown(x.Lo + y.Lo), Hi: roundUp(x.Hi + y.Hi)}
}

// Sub returns x - y, outward-rounded.
func Sub(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: roundDown(x.Lo - y.Hi), Hi: roundUp(x.Hi - y.Lo)}
}

// Mul returns x * y, outward-rounded. The tightest enclosure is the hull
// of the four corner products.
func Mul(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	if x.IsDegenerate() && x.Lo == 0 {
		return Zero()
	}
	if y.IsDegenerate() && y.Lo == 0 {
		return Zero()
	}
	p1, p2, p3, p4 := x.Lo*y.Lo, x.Lo*y.Hi, x.Hi*y.Lo, x.Hi*y.Hi
	return Interval{Lo: hullLo(p1, p2, p3, p4), Hi: hullHi(p1, p2, p3, p4)}
}

// MulScalar returns x * c, outward-rounded.
func MulScalar(x Interval, c float64) Interval {
	return Mul(x, Degenerate(c))
}

// Div returns x / y, outward-rounded. Division by an interval
// containing zero is handled per the spec: if y is exactly {0} the
// result is Empty when x excludes zero (no finite quotient exists) and
// Universe when x contains zero; if y straddles zero
// with nonzero endpoints the result widens to Universe (the projection
// form recovers precision where the problem structure allows).
func Div(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	if y.IsDegenerate() && y.Lo == 0 {
		if x.ContainsZero() {
			return Universe()
		}
		return Empty()
	}
	if y.ContainsZero() {
		return Universe()
	}
	q1, q2, q3, q4 := x.Lo/y.Lo, x.Lo/y.Hi, x.Hi/y.Lo, x.Hi/y.Hi
	return Interval{Lo: hullLo(q1, q2, q3, q4), Hi: hullHi(q1, q2, q3, q4)}
}

// Abs returns the image of |.| over x.
func Abs(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if x.Hi <= 0 {
		return Interval{Lo: roundDown(-x.Hi), Hi: roundUp(-x.Lo)}
	}
	if x.Lo >= 0 {
		return x
	}
	return Interval{Lo: 0, Hi: roundUp(math.Max(-x.Lo, x.Hi))}
}

// Sign returns the image of the sign function (-1, 0, or 1) over x.
func Sign(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	switch {
	case x.Hi < 0:
		return Interval{Lo: -1, Hi: -1}
	case x.Lo > 0:
		return Interval{Lo: 1, Hi: 1}
	case x.Lo == 0 && x.Hi == 0:
		return Zero()
	default:
		lo, hi := 0.0, 0.0
		if x.Lo < 0 {
			lo = -1
		}
		if x.Hi > 0 {
			hi = 1
		}
		return Interval{Lo: lo, Hi: hi}
	}
}

// Sqr returns the image of x^2 over x.
func Sqr(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	a := Abs(x)
	return Interval{Lo: roundDown(a.Lo * a.Lo), Hi: roundUp(a.Hi * a.Hi)}
}

// Sqrt returns the image of sqrt(x). Negative parts of the domain
// contribute nothing (sqrt is undefined there); a wholly negative
// interval yields Empty.
func Sqrt(x Interval) Interval {
	if x.IsEmpty() || x.Hi < 0 {
		return Empty()
	}
	lo := math.Max(0, x.Lo)
	return Interval{Lo: roundDown(math.Sqrt(lo)), Hi: roundUp(math.Sqrt(x.Hi))}
}

// IntPow returns the image of x^n for an integer exponent n >= 0.
// IntPow(x, 0) is {1} even for x = {0}, following the usual convention.
func IntPow(x Interval, n int) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if n == 0 {
		return Degenerate(1)
	}
	if n == 1 {
		return x
	}
	if n%2 == 0 {
		a := Abs(x)
		return Interval{Lo: roundDown(math.Pow(a.Lo, float64(n))), Hi: roundUp(math.Pow(a.Hi, float64(n)))}
	}
	return Interval{Lo: roundDown(sgnPow(x.Lo, n)), Hi: roundUp(sgnPow(x.Hi, n))}
}

func sgnPow(v float64, n int) float64 {
	s := math.Pow(math.Abs(v), float64(n))
	if v < 0 {
		return -s
	}
	return s
}

// Exp returns the image of exp(x).
func Exp(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: roundDown(math.Exp(x.Lo)), Hi: roundUp(math.Exp(x.Hi))}
}

// Log returns the image of log(x). The non-positive part of the domain
// contributes nothing.
func Log(x Interval) Interval {
	if x.IsEmpty() || x.Hi <= 0 {
		return Empty()
	}
	lo := x.Lo
	if lo <= 0 {
		return Interval{Lo: math.Inf(-1), Hi: roundUp(math.Log(x.Hi))}
	}
	return Interval{Lo: roundDown(math.Log(lo)), Hi: roundUp(math.Log(x.Hi))}
}

// Min returns the image of min(x, y).
func Min(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: roundDown(math.Min(x.Lo, y.Lo)), Hi: roundUp(math.Min(x.Hi, y.Hi))}
}

// Max returns the image of max(x, y).
func Max(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: roundDown(math.Max(x.Lo, y.Lo)), Hi: roundUp(math.Max(x.Hi, y.Hi))}
}
