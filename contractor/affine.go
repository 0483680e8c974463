package contractor

import (
	"github.com/realpaver-go/ncsp/affine"
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
)

// AffineRevise is the affine-form variant of HC4Revise (§4.2): it
// builds one affine form per scope variable (one fresh noise symbol
// each), evaluates the constraint's term in affine arithmetic via
// affine.EvalTerm, and applies affine.Revise to contract every noise
// symbol, mapping each back to the domain variable it was seeded from.
//
// Grounded on original_source/src/realpaver/ContractorAffineRevise.hpp
// for the seed-per-variable / contract-per-noise-symbol shape.
type AffineRevise struct {
	Fn   flatfn.DagFun
	Src  term.Term // the term Fn.Root was compiled from
	Kind affine.Linearization
}

// NewAffineRevise returns the affine-revise contractor for fn.
func NewAffineRevise(fn flatfn.DagFun, src term.Term, kind affine.Linearization) *AffineRevise {
	return &AffineRevise{Fn: fn, Src: src, Kind: kind}
}

func (a *AffineRevise) Scope() domain.Scope { return a.Fn.Scope }

type noiseMeta struct {
	varID    int
	mid, rad float64
}

func (a *AffineRevise) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	scope := a.Fn.Scope
	lookup := func(varID int) interval.Interval {
		x, err := box.At(varID)
		if err != nil {
			return interval.Universe()
		}
		return x
	}
	vals := a.Fn.Dag.Eval(lookup)

	varForm := make(map[int]affine.Form, scope.Len())
	meta := make(map[int]noiseMeta, scope.Len())
	next := scope.Len()
	for i, v := range scope.Vars() {
		x, _ := box.At(v.ID)
		varForm[v.ID] = affine.FromInterval(x, i)
		meta[i] = noiseMeta{varID: v.ID, mid: x.Mid(), rad: x.Radius()}
	}

	form := affine.EvalTerm(a.Src, a.Fn.Dag, vals, varForm, a.Kind, &next)
	c, updates := affine.Revise(form, a.Fn.Image)
	if c != cert.Maybe {
		return box, c
	}
	out := box.Clone()
	for idx, eps := range updates {
		m, ok := meta[idx]
		if !ok || m.rad == 0 {
			continue
		}
		nx := interval.New(m.mid+m.rad*eps.Lo, m.mid+m.rad*eps.Hi)
		cur, _ := out.At(m.varID)
		_ = out.SetAt(m.varID, cur.Inter(nx))
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	return out, cert.Maybe
}
