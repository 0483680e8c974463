package affine

import (
	"math"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/interval"
)

// Revise implements the affine-revise contractor step from §4.2: given
// a function's affine form on the current box and its image [L, U], it
// decides Inner/Empty/Maybe and, in the Maybe case, returns a narrowed
// interval for every noise symbol with a nonzero coefficient. The
// caller (contractor.AffineRevise) is responsible for mapping noise
// indices back to domain variables and intersecting the returned
// intervals into the box.
func Revise(f Form, image interval.Interval) (cert.Certificate, map[int]interval.Interval) {
	if image.IsEmpty() || math.IsNaN(f.Centre) {
		return cert.Empty, nil
	}

	r := f.Radius()
	whole := interval.New(f.Centre-r-f.Err, f.Centre+r+f.Err)

	if whole.IsSubset(image) {
		return cert.Inner, nil
	}
	if !whole.Overlaps(image) {
		return cert.Empty, nil
	}

	// J = [L, U] - a0 + [-E, E]
	j := interval.Sub(image, interval.Degenerate(f.Centre))
	j = interval.Add(j, interval.New(-f.Err, f.Err))

	updates := make(map[int]interval.Interval, len(f.Coeffs))
	for idx, ai := range f.Coeffs {
		if ai == 0 {
			continue
		}
		si := r - math.Abs(ai)
		numer := interval.Add(j, interval.New(-si, si))
		eps := interval.Div(numer, interval.Degenerate(ai)).Inter(interval.New(-1, 1))
		if eps.IsEmpty() {
			return cert.Empty, nil
		}
		updates[idx] = eps
	}
	return cert.Maybe, updates
}
