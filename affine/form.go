package affine

import (
	"math"
	"sort"

	"github.com/realpaver-go/ncsp/interval"
)

// Form is an affine form a0 + Σ aᵢ·εᵢ + [-err, err].
//
// Coeffs is keyed by noise index; a zero or absent coefficient means
// the form does not depend on that noise symbol. Form is a value type:
// every operation returns a new Form rather than mutating its
// receiver, matching the value-type Box/DomainBox convention used
// elsewhere in this module.
type Form struct {
	Centre float64
	Coeffs map[int]float64
	Err    float64 // >= 0
}

// Const returns the affine form representing the constant c exactly.
func Const(c float64) Form {
	return Form{Centre: c}
}

// FromInterval returns the affine form for x, introducing a single
// fresh noise symbol at noiseIdx with coefficient equal to x's radius.
// This is how contractor.AffineRevise seeds one affine form per scope
// variable before evaluating a constraint in affine arithmetic.
func FromInterval(x interval.Interval, noiseIdx int) Form {
	if x.IsEmpty() {
		return Form{Centre: math.NaN()}
	}
	r := x.Radius()
	if r == 0 {
		return Const(x.Mid())
	}
	return Form{Centre: x.Mid(), Coeffs: map[int]float64{noiseIdx: r}}
}

// Radius returns Σ|aᵢ|, the sum of the noise-term magnitudes (not
// counting Err).
func (f Form) Radius() float64 {
	r := 0.0
	for _, c := range f.Coeffs {
		r += math.Abs(c)
	}
	return r
}

// ToInterval evaluates the form to an interval: a0 + [-r, r] + [-Err, Err].
func (f Form) ToInterval() interval.Interval {
	r := f.Radius() + f.Err
	return interval.New(f.Centre-r, f.Centre+r)
}

func mergeCoeffs(f, g Form, fc, gc float64) map[int]float64 {
	out := make(map[int]float64, len(f.Coeffs)+len(g.Coeffs))
	for idx, c := range f.Coeffs {
		out[idx] += fc * c
	}
	for idx, c := range g.Coeffs {
		out[idx] += gc * c
	}
	for idx, c := range out {
		if c == 0 {
			delete(out, idx)
		}
	}
	return out
}

// Add returns f + g; the error terms add linearly (triangle inequality
// on the two independent bounds).
func Add(f, g Form) Form {
	return Form{
		Centre: f.Centre + g.Centre,
		Coeffs: mergeCoeffs(f, g, 1, 1),
		Err:    f.Err + g.Err,
	}
}

// Sub returns f - g.
func Sub(f, g Form) Form {
	return Form{
		Centre: f.Centre - g.Centre,
		Coeffs: mergeCoeffs(f, g, 1, -1),
		Err:    f.Err + g.Err,
	}
}

// Neg returns -f.
func Neg(f Form) Form {
	out := make(map[int]float64, len(f.Coeffs))
	for idx, c := range f.Coeffs {
		out[idx] = -c
	}
	return Form{Centre: -f.Centre, Coeffs: out, Err: f.Err}
}

// MulScalar returns c * f for a plain real scalar.
func MulScalar(f Form, c float64) Form {
	if c == 0 {
		return Const(0)
	}
	out := make(map[int]float64, len(f.Coeffs))
	for idx, v := range f.Coeffs {
		out[idx] = v * c
	}
	return Form{Centre: f.Centre * c, Coeffs: out, Err: math.Abs(c) * f.Err}
}

// MulScalarInterval returns c * f for an interval scalar, converting
// the interval's own radius into additional error absorbed into E —
// the "multiplication by a scalar interval" operation from §4.2.
func MulScalarInterval(f Form, c interval.Interval) Form {
	if c.IsEmpty() || math.IsNaN(f.Centre) {
		return Form{Centre: math.NaN()}
	}
	mid, rad := c.Mid(), c.Radius()
	base := MulScalar(f, mid)
	// extra uncertainty: rad * (|centre| + radius(f) + f.Err)
	extra := rad * (math.Abs(f.Centre) + f.Radius() + f.Err)
	base.Err += extra
	return base
}

// Mul returns the full affine product f * g, introducing exactly one
// new noise term (at newIdx, which must not already be in use by
// either operand) to absorb the quadratic cross term, per §4.2: the
// product of two first-order forms is not itself first-order, so the
// nonlinear remainder (bounded by the product of the two radii, here
// counting Err in the radius) is folded into that fresh noise term
// rather than into Err, giving the caller a chance to contract it like
// any other noise symbol; Err carries each operand's own error term
// scaled by the magnitude of the other operand's centre.
func Mul(f, g Form, newIdx int) Form {
	fr := f.Radius() + f.Err
	gr := g.Radius() + g.Err
	out := make(map[int]float64, len(f.Coeffs)+len(g.Coeffs)+1)
	for idx, c := range f.Coeffs {
		out[idx] += g.Centre * c
	}
	for idx, c := range g.Coeffs {
		out[idx] += f.Centre * c
	}
	for idx, c := range out {
		if c == 0 {
			delete(out, idx)
		}
	}
	newCoeff := fr * gr
	if newCoeff != 0 {
		out[newIdx] += newCoeff
	}
	return Form{
		Centre: f.Centre * g.Centre,
		Coeffs: out,
		Err:    f.Err*math.Abs(g.Centre) + g.Err*math.Abs(f.Centre),
	}
}

// NoiseIndices returns the sorted noise indices with a nonzero
// coefficient, used by the affine-revise contractor to know which
// domain variables to attempt to narrow.
func (f Form) NoiseIndices() []int {
	idxs := make([]int, 0, len(f.Coeffs))
	for idx := range f.Coeffs {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}
