package linearize

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/lp"
)

// Polytope is the polytope-hull contractor (§4.5): it relaxes every
// function in Funcs into the LP built by Builder, then for each
// variable in the combined scope solves two LPs (minimise, maximise
// that variable's own coordinate over the relaxation) and intersects
// the certified optimum back into the box. It lives in this package,
// rather than contractor, because it is the one contractor whose
// Contract method needs a Builder/Oracle round trip instead of a
// single Dag walk. It satisfies contractor.Contractor without
// importing contractor, so neither package imports the other.
//
// Grounded on original_source/src/realpaver/ContractorPolytope.hpp.
type Polytope struct {
	Funcs   []FuncSrc
	Builder CutBuilder
	NewLP   func() lp.Oracle
}

// NewPolytope returns a Polytope contractor relaxing every fn in funcs
// with builder, using newLP to create a fresh Oracle per Contract call
// (an Oracle is single-use: it accumulates rows and cannot be reset).
func NewPolytope(funcs []FuncSrc, builder CutBuilder, newLP func() lp.Oracle) *Polytope {
	return &Polytope{Funcs: funcs, Builder: builder, NewLP: newLP}
}

func (p *Polytope) Scope() domain.Scope {
	if len(p.Funcs) == 0 {
		return domain.Scope{}
	}
	s := p.Funcs[0].Fn.Scope
	for _, fs := range p.Funcs[1:] {
		s = domain.Union(s, fs.Fn.Scope)
	}
	return s
}

func (p *Polytope) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	scope := p.Scope()
	if scope.Len() == 0 || len(p.Funcs) == 0 {
		return box, cert.Maybe
	}

	o := p.NewLP()
	varIdx := AddVars(box, scope, o)
	for _, fs := range p.Funcs {
		p.Builder.AddCuts(box, scope, varIdx, fs, o)
	}

	out := box.Clone()
	narrowed := false
	for _, v := range scope.Vars() {
		idx := varIdx[v.ID]
		lo, loOK := p.bound(o, idx, false)
		hi, hiOK := p.bound(o, idx, true)
		if !loOK && !hiOK {
			continue
		}
		cur, _ := out.At(v.ID)
		next := cur
		if loOK {
			next = next.Inter(interval.New(lo, interval.Universe().Hi))
		}
		if hiOK {
			next = next.Inter(interval.New(interval.Universe().Lo, hi))
		}
		if next.IsEmpty() {
			return out, cert.Empty
		}
		if next.Lo > cur.Lo || next.Hi < cur.Hi {
			narrowed = true
		}
		_ = out.SetAt(v.ID, next)
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	if !narrowed {
		return out, cert.Maybe
	}
	return out, cert.Maybe
}

// bound solves one direction of the LP for variable idx (maximize when
// max is true, else minimize) and returns its certified optimum. ok is
// false when the relaxation is infeasible (a stronger result than this
// contractor reports: true infeasibility is cert.Empty, but a single
// failed LP solve here just means this bound contributes nothing,
// since another row's earlier pass may have already handled it).
func (p *Polytope) bound(o lp.Oracle, idx int, max bool) (float64, bool) {
	o.SetObjective(lp.LinearExpr{idx: 1}, max)
	status, err := o.Optimize()
	if err != nil || status != lp.StatusOptimal {
		return 0, false
	}
	v, err := o.CertifiedOptimum()
	if err != nil {
		return 0, false
	}
	return v, true
}
