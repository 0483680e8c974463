package interval

import "math"

// critsInRange returns every x = phase + k*step inside [a, b], used to
// locate stationary points of sin/cos (where the derivative vanishes)
// without enumerating the whole real line.
func critsInRange(a, b, phase, step float64) []float64 {
	if b-a >= step {
		// At least one full step is covered. Sin and Cos reach this
		// branch for widths in [pi, 2pi): they fall back to [-1, 1]
		// only at 2pi but search with a step of pi.
		k0 := math.Floor((a - phase) / step)
		out := make([]float64, 0, 3)
		for k := k0; ; k++ {
			c := phase + k*step
			if c > b {
				break
			}
			if c >= a {
				out = append(out, c)
			}
		}
		return out
	}
	k0 := math.Floor((a - phase) / step)
	out := make([]float64, 0, 3)
	for k := k0; k <= k0+2; k++ {
		c := phase + k*step
		if c >= a && c <= b {
			out = append(out, c)
		}
	}
	return out
}

// Sin returns the image of sin over x, exact for intervals narrower
// than one period and widening to [-1, 1] otherwise.
func Sin(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if x.Hi-x.Lo >= 2*math.Pi {
		return Interval{Lo: -1, Hi: 1}
	}
	vals := []float64{math.Sin(x.Lo), math.Sin(x.Hi)}
	for _, c := range critsInRange(x.Lo, x.Hi, math.Pi/2, math.Pi) {
		vals = append(vals, math.Sin(c))
	}
	return Interval{Lo: hullLo(vals...), Hi: hullHi(vals...)}
}

// Cos returns the image of cos over x.
func Cos(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if x.Hi-x.Lo >= 2*math.Pi {
		return Interval{Lo: -1, Hi: 1}
	}
	vals := []float64{math.Cos(x.Lo), math.Cos(x.Hi)}
	for _, c := range critsInRange(x.Lo, x.Hi, 0, math.Pi) {
		vals = append(vals, math.Cos(c))
	}
	return Interval{Lo: hullLo(vals...), Hi: hullHi(vals...)}
}

// Tan returns the image of tan over x. If x contains a pole
// (pi/2 + k*pi) tan is unbounded on both sides there and the result
// widens to Universe; otherwise tan is monotone increasing between
// consecutive poles and the image is the hull of the endpoint values.
func Tan(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	if x.Hi-x.Lo >= math.Pi {
		return Universe()
	}
	for _, c := range critsInRange(x.Lo, x.Hi, math.Pi/2, math.Pi) {
		if c > x.Lo && c < x.Hi {
			return Universe()
		}
		if c == x.Lo || c == x.Hi {
			return Universe()
		}
	}
	lo, hi := math.Tan(x.Lo), math.Tan(x.Hi)
	return Interval{Lo: roundDown(lo), Hi: roundUp(hi)}
}
