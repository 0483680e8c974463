package contractor

import (
	"sort"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
)

// ACID is the adaptive CID variant of §4.5: it keeps a running,
// exponentially-smoothed estimate of how much VarCID-slicing each
// candidate variable contracts the box, and only spends the slicing
// budget on the K variables with the best recent track record, with K
// itself adjusted up or down each call depending on whether that
// round's slicing actually helped.
//
// Grounded on original_source/src/realpaver/ContractorACID.hpp's
// running-impact / adaptive-K loop, reusing VarCID as the per-variable
// slicing primitive it wraps K times per call.
type ACID struct {
	Inner    Contractor
	Vars     []int // candidate variables, a subset of Inner.Scope()
	Slices   int
	MinWidth float64

	k        int
	impact   map[int]float64
	minK     int
	maxK     int
}

// NewACID returns an ACID contractor over vars, wrapping inner. k
// starts at min(3, len(vars)).
func NewACID(inner Contractor, vars []int, slices int, minWidth float64) *ACID {
	if slices < 1 {
		slices = DefaultSlices
	}
	k := 3
	if len(vars) < k {
		k = len(vars)
	}
	if k < 1 {
		k = 1
	}
	return &ACID{
		Inner: inner, Vars: vars, Slices: slices, MinWidth: minWidth,
		k: k, impact: make(map[int]float64, len(vars)),
		minK: 1, maxK: len(vars),
	}
}

func (c *ACID) Scope() domain.Scope { return c.Inner.Scope() }

func (c *ACID) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	if len(c.Vars) == 0 {
		return c.Inner.Contract(box)
	}
	order := c.rankedVars()
	k := c.k
	if k > len(order) {
		k = len(order)
	}

	out := box
	certf := cert.Inner
	totalGain := 0.0
	for _, id := range order[:k] {
		before, err := out.At(id)
		if err != nil || before.IsEmpty() {
			continue
		}
		cid := NewVarCID(c.Inner, id, c.Slices, c.MinWidth)
		narrowed, cf := cid.Contract(out)
		certf = cert.Meet(certf, cf)
		if cf == cert.Empty {
			return narrowed, cert.Empty
		}
		after, _ := narrowed.At(id)
		gain := 0.0
		if before.Width() > 0 {
			gain = 1 - after.Width()/before.Width()
		}
		c.impact[id] = 0.7*c.impact[id] + 0.3*gain
		totalGain += gain
		out = narrowed
	}
	c.adjustK(totalGain / float64(k))
	return out, certf
}

// rankedVars returns c.Vars sorted by descending running impact (ties
// broken by variable id for determinism, §5).
func (c *ACID) rankedVars() []int {
	out := append([]int(nil), c.Vars...)
	sort.Slice(out, func(i, j int) bool {
		gi, gj := c.impact[out[i]], c.impact[out[j]]
		if gi != gj {
			return gi > gj
		}
		return out[i] < out[j]
	})
	return out
}

// adjustK grows k when the average gain per slice was worthwhile and
// shrinks it when slicing bought little, bounded within [minK, maxK].
func (c *ACID) adjustK(avgGain float64) {
	switch {
	case avgGain > 0.1 && c.k < c.maxK:
		c.k++
	case avgGain < 0.01 && c.k > c.minK:
		c.k--
	}
}
