package contractor

import (
	"sort"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
)

// DefaultSlices is the number of sub-intervals BC4 partitions a
// multi-occurrence variable's domain into (§4.5: "slice into a small
// number of sub-intervals").
const DefaultSlices = 7

// BC4 runs HC4Revise, then for every variable occurring more than once
// in the constraint's term, slices its domain and proves emptiness on
// the outermost slices, returning the hull of the survivors
// (box-consistency, §4.5). Grounded on
// original_source/src/realpaver/HC4Contractor.cpp's box-consistency
// pass and ContractorVar3B.hpp's slicing loop, reused here per
// variable instead of as an outer structural wrapper.
type BC4 struct {
	Fn     flatfn.DagFun
	flat   *flatfn.FlatFunction
	multi  []int // variable ids occurring more than once in Term
	Slices int
}

// NewBC4 returns the BC4 contractor for fn, whose multi-occurrence
// variables are derived from src (the Term fn.Fn's Dag root was
// compiled from, since the Dag itself no longer distinguishes
// occurrence count from hash-consed sharing). src is also flattened
// into a FlatFunction here: the slicing pass re-evaluates the same
// constraint up to Slices times per variable, the straight-line form's
// hot loop (§4.4).
func NewBC4(fn flatfn.DagFun, src term.Term) *BC4 {
	counts := occurrenceCounts(src)
	var multi []int
	for id, n := range counts {
		if n > 1 {
			multi = append(multi, id)
		}
	}
	sort.Ints(multi) // map order is not reproducible; slicing order must be (§5)
	return &BC4{
		Fn:     fn,
		flat:   flatfn.Compile(src, fn.Scope, fn.Image),
		multi:  multi,
		Slices: DefaultSlices,
	}
}

func (c *BC4) Scope() domain.Scope { return c.Fn.Scope }

func (c *BC4) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	out, certf := c.flat.Contract(box)
	if certf == cert.Empty || certf == cert.Inner {
		return out, certf
	}
	for _, id := range c.multi {
		x, err := out.At(id)
		if err != nil || x.IsEmpty() {
			continue
		}
		hull, ok := c.sliceHull(out, id, x)
		if !ok {
			return out, cert.Empty
		}
		if hull != x {
			_ = out.SetAt(id, hull)
		}
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	return out, cert.Maybe
}

// sliceHull partitions x into c.Slices equal pieces, tests each via
// forward evaluation of c.Fn with that piece substituted for variable
// id, and returns the hull of every slice whose forward image overlaps
// the function's Image. ok is false when every slice was empty.
func (c *BC4) sliceHull(box domain.IntervalBox, id int, x interval.Interval) (interval.Interval, bool) {
	n := c.Slices
	if n < 1 {
		n = 1
	}
	width := x.Width() / float64(n)
	var lo, hi float64
	found := false
	for i := 0; i < n; i++ {
		a := x.Lo + float64(i)*width
		b := a + width
		if i == n-1 {
			b = x.Hi
		}
		slice := interval.New(a, b)
		probe := box.Clone()
		_ = probe.SetAt(id, slice)
		val := c.flat.Eval(probe)
		if !val.Overlaps(c.Fn.Image) {
			continue
		}
		if !found {
			lo, hi = a, b
			found = true
		} else {
			hi = b
		}
	}
	if !found {
		return interval.Empty(), false
	}
	return interval.New(lo, hi), true
}

// occurrenceCounts returns, for every variable referenced by t, the
// number of distinct syntactic occurrences (an OpLin node counts each
// of its addends once, since the builder only folds additive
// occurrences of the *same* variable into one addend — multiplicative
// reuse such as x*x still shows up as two separate Var leaves).
func occurrenceCounts(t term.Term) map[int]int {
	counts := map[int]int{}
	var walk func(term.Term)
	walk = func(t term.Term) {
		switch t.Op() {
		case term.OpVar:
			counts[t.VarID()]++
		case term.OpConst:
		case term.OpLin:
			for i := 0; i < t.LinLen(); i++ {
				counts[t.LinVarID(i)]++
			}
		default:
			for i := 0; i < t.Arity(); i++ {
				walk(t.Child(i))
			}
		}
	}
	walk(t)
	return counts
}
