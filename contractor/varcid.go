package contractor

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
)

// VarCID slices one variable's domain into Slices equal pieces, tests
// every slice with Inner (unlike Var3B it never stops early), and
// unions the resulting box over every variable in Inner's scope across
// every surviving slice — stronger than Var3B because interior slices
// that Var3B would never look past a surviving boundary slice to reach
// still get to narrow every other variable (§4.5: "the hull of *all*
// surviving slices").
//
// Grounded on original_source/src/realpaver/ContractorVarCID.hpp.
type VarCID struct {
	Inner    Contractor
	VarID    int
	Slices   int
	MinWidth float64
}

// NewVarCID returns a VarCID contractor over varID, wrapping inner.
func NewVarCID(inner Contractor, varID int, slices int, minWidth float64) *VarCID {
	if slices < 1 {
		slices = DefaultSlices
	}
	return &VarCID{Inner: inner, VarID: varID, Slices: slices, MinWidth: minWidth}
}

func (c *VarCID) Scope() domain.Scope { return c.Inner.Scope() }

func (c *VarCID) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	x, err := box.At(c.VarID)
	if err != nil || x.IsEmpty() {
		return c.Inner.Contract(box)
	}
	if x.Width() <= c.MinWidth {
		return c.Inner.Contract(box)
	}

	n := c.Slices
	width := x.Width() / float64(n)
	scope := c.Inner.Scope()
	unioned := make(map[int]interval.Interval, scope.Len())
	survived := false
	allInner := true

	for i := 0; i < n; i++ {
		a, b := sliceBounds(x, width, i, n)
		probe := box.Clone()
		_ = probe.SetAt(c.VarID, interval.New(a, b))
		res, c2 := c.Inner.Contract(probe)
		if c2 == cert.Empty {
			continue
		}
		survived = true
		if c2 != cert.Inner {
			allInner = false
		}
		for _, v := range scope.Vars() {
			rv, err := res.At(v.ID)
			if err != nil {
				continue
			}
			if cur, ok := unioned[v.ID]; ok {
				unioned[v.ID] = cur.Hull(rv)
			} else {
				unioned[v.ID] = rv
			}
		}
	}
	if !survived {
		return box, cert.Empty
	}

	out := box.Clone()
	for id, iv := range unioned {
		_ = out.SetAt(id, iv)
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	if allInner {
		return out, cert.Inner
	}
	return out, cert.Maybe
}
