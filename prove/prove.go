// Package prove implements the §4.8 prover: given a candidate box that
// a contractor/propagator pass has already narrowed to Maybe, it tries
// to upgrade the certificate to Feasible (a solution provably exists
// in the box) or Inner (every point of the box is a solution), using
// the techniques the box's constraint shapes actually admit. A failed
// upgrade attempt always leaves the certificate at Maybe rather than
// erroring — proof is best-effort, never required for termination
// (§7: the solver never aborts on a numerical condition).
//
// Grounded on original_source/src/realpaver/CSPPropagator.cpp's
// prover hook and Preprocessor.hpp's fixed-variable handling for the
// epsilon-inflation retry loop's shrink-factor convention.
package prove

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/contractor"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
)

// Prover attempts to upgrade a box's certificate using whichever
// technique fits the constraint set it was built over:
//   - Equations (a square system, one DagFun per scope variable): an
//     interval Newton/Krawczyk sweep, retried with an epsilon-inflated
//     box if the first sweep only narrowed without proving (§4.8).
//   - Inequalities: a direct containment test, running each
//     constraint's negation contractor (ContractNeg) over the box (no
//     Newton system needed).
type Prover struct {
	Equations    []flatfn.DagFun
	Scope        domain.Scope // must match len(Equations) for Newton to apply
	Inequalities []flatfn.DagFun

	// InflationFactor widens the box by this fraction of its own width
	// on each epsilon-inflation retry (§4.8); InflationRounds bounds how
	// many retries are attempted before giving up.
	InflationFactor float64
	InflationRounds int
}

// NewProver returns a Prover with the original_source default inflation
// schedule (10% widening, up to 3 rounds).
func NewProver(equations []flatfn.DagFun, scope domain.Scope, inequalities []flatfn.DagFun) *Prover {
	return &Prover{
		Equations: equations, Scope: scope, Inequalities: inequalities,
		InflationFactor: 0.1, InflationRounds: 3,
	}
}

// Prove attempts to upgrade box's certificate, returning the best
// certificate reached (never worse than cert.Maybe unless an
// inequality is actually violated, in which case cert.Empty). The box
// is left unchanged — a successful proof certifies the box as given; it
// never narrows it further (narrowing is the contractor/propagator's
// job, not the prover's).
func (p *Prover) Prove(box domain.IntervalBox) cert.Certificate {
	overall := cert.Maybe

	if c, ok := p.containmentCheck(box); ok {
		if c == cert.Empty {
			return cert.Empty
		}
		overall = c // containmentCheck only reports ok with Empty or Inner
	}

	if len(p.Equations) > 0 && len(p.Equations) == p.Scope.Len() {
		if c := p.newtonProve(box); c > overall {
			overall = c
		}
	}
	return overall
}

// containmentCheck runs the negation contractor on every inequality
// (§4.8 "direct containment test", via §4.3's HC4ReviseNeg): a
// constraint whose complement is infeasible on box holds everywhere
// (cert.Inner if that is true of all of them), one whose complement
// covers box is violated entirely (cert.Empty); ok is false when
// neither holds (still Maybe) or there are no inequalities to check.
func (p *Prover) containmentCheck(box domain.IntervalBox) (cert.Certificate, bool) {
	if len(p.Inequalities) == 0 {
		return cert.Maybe, false
	}
	allInner := true
	for _, fn := range p.Inequalities {
		switch _, c := fn.ContractNeg(box); c {
		case cert.Empty:
		case cert.Inner:
			return cert.Empty, true
		default:
			allInner = false
		}
	}
	if allInner {
		return cert.Inner, true
	}
	return cert.Maybe, false
}

// newtonProve runs the interval Newton/Krawczyk operator from
// contractor.Newton and, if the first sweep only narrowed the box
// (Maybe) rather than proving it, retries on an epsilon-inflated copy
// of the original box: per original_source's Krawczyk certification,
// if the operator maps the inflated box strictly inside itself, a
// unique solution is certified to exist in the inflated (and hence the
// original) box.
func (p *Prover) newtonProve(box domain.IntervalBox) cert.Certificate {
	n := contractor.NewNewton(p.Equations, p.Scope)
	if _, c := n.Contract(box); c == cert.Feasible {
		return cert.Feasible
	}

	cur := box
	for round := 0; round < p.InflationRounds; round++ {
		inflated := inflate(cur, p.Scope, p.InflationFactor)
		narrowed, c := n.Contract(inflated)
		if c == cert.Empty {
			return cert.Maybe // inflation can manufacture spurious emptiness; stay Maybe, not Empty
		}
		if c == cert.Feasible && narrowed.IsSubset(inflated) {
			return cert.Feasible
		}
		cur = inflated
	}
	return cert.Maybe
}

// inflate widens every variable in scope by factor times its current
// width, centred on its midpoint (§4.8 epsilon-inflation).
func inflate(box domain.IntervalBox, scope domain.Scope, factor float64) domain.IntervalBox {
	out := box.Clone()
	for _, v := range scope.Vars() {
		x, err := out.At(v.ID)
		if err != nil {
			continue
		}
		w := x.Width()
		if w == 0 {
			w = 1e-10
		}
		pad := factor * w
		_ = out.SetAt(v.ID, interval.New(x.Lo-pad, x.Hi+pad))
	}
	return out
}
