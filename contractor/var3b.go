package contractor

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
)

// Var3B slices one variable's domain into Slices equal pieces and
// tests feasibility of the outermost pieces on each side with Inner,
// stopping at the first surviving slice per side and returning the
// hull of the outermost survivors (3B-consistency, §4.5). Slicing is
// skipped, deferring straight to Inner, when the variable's width is
// already below MinWidth.
//
// Grounded on original_source/src/realpaver/ContractorVar3B.hpp.
type Var3B struct {
	Inner    Contractor
	VarID    int
	Slices   int
	MinWidth float64
}

// NewVar3B returns a Var3B contractor over varID, wrapping inner.
func NewVar3B(inner Contractor, varID int, slices int, minWidth float64) *Var3B {
	if slices < 1 {
		slices = DefaultSlices
	}
	return &Var3B{Inner: inner, VarID: varID, Slices: slices, MinWidth: minWidth}
}

func (c *Var3B) Scope() domain.Scope { return c.Inner.Scope() }

func (c *Var3B) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	x, err := box.At(c.VarID)
	if err != nil || x.IsEmpty() {
		return c.Inner.Contract(box)
	}
	if x.Width() <= c.MinWidth {
		return c.Inner.Contract(box)
	}

	n := c.Slices
	width := x.Width() / float64(n)
	lo, loFound := x.Lo, false
	for i := 0; i < n && !loFound; i++ {
		a, b := sliceBounds(x, width, i, n)
		if c.surviving(box, a, b) {
			lo, loFound = a, true
		}
	}
	if !loFound {
		return box, cert.Empty
	}
	hi := x.Hi
	for i := n - 1; i >= 0; i-- {
		a, b := sliceBounds(x, width, i, n)
		if c.surviving(box, a, b) {
			hi = b
			break
		}
	}

	out := box.Clone()
	_ = out.SetAt(c.VarID, interval.New(lo, hi))
	if out.IsEmpty() {
		return out, cert.Empty
	}
	return out, cert.Maybe
}

func (c *Var3B) surviving(box domain.IntervalBox, a, b float64) bool {
	probe := box.Clone()
	_ = probe.SetAt(c.VarID, interval.New(a, b))
	_, res := c.Inner.Contract(probe)
	return res != cert.Empty
}

func sliceBounds(x interval.Interval, width float64, i, n int) (float64, float64) {
	a := x.Lo + float64(i)*width
	b := a + width
	if i == n-1 {
		b = x.Hi
	}
	return a, b
}
