package flatfn

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
)

// DagFun is a function over a shared Dag: its root node, the scope of
// variables it actually depends on (a subset of the problem's full
// scope), and, for a constraint, the image interval its value must lie
// in (for a plain expression — e.g. the objective — Image is the
// universe interval and Contract is never called).
type DagFun struct {
	Dag   *dag.Dag
	Root  dag.NodeID
	Scope domain.Scope
	Image interval.Interval
}

// NewDagFun bundles d, root, and scope into a plain expression (no
// bound). Use WithImage to turn it into a constraint's function.
func NewDagFun(d *dag.Dag, root dag.NodeID, scope domain.Scope) DagFun {
	return DagFun{Dag: d, Root: root, Scope: scope, Image: interval.Universe()}
}

// WithImage returns a copy of f bound to the given image.
func (f DagFun) WithImage(image interval.Interval) DagFun {
	f.Image = image
	return f
}

func (f DagFun) lookup(box domain.IntervalBox) dag.VariableLookup {
	return func(varID int) interval.Interval {
		x, err := box.At(varID)
		if err != nil {
			return interval.Universe()
		}
		return x
	}
}

// Eval returns f's value over box.
func (f DagFun) Eval(box domain.IntervalBox) interval.Interval {
	vals := f.Dag.Eval(f.lookup(box))
	return vals[f.Root]
}

// Contract runs HC4Revise for f against box's current values and
// returns the narrowed box together with the resulting certificate.
// box is never mutated in place; callers that want to keep the
// original must Clone beforehand.
func (f DagFun) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	out := box.Clone()
	best := map[int]interval.Interval{}
	notify := func(varID int, x interval.Interval) {
		if cur, ok := best[varID]; ok {
			best[varID] = cur.Inter(x)
		} else {
			best[varID] = x
		}
	}
	c := f.Dag.HC4Revise(f.Root, f.Image, f.lookup(box), notify)
	if c == cert.Empty {
		return out, cert.Empty
	}
	for id, x := range best {
		if out.Scope().Contains(id) {
			_ = out.SetAt(id, x)
		}
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	return out, c
}

// ContractNeg contracts box against the COMPLEMENT of f's constraint
// via HC4ReviseNeg (§4.3). The certificate reads relative to the
// negation: Empty proves f holds on all of box, Inner proves f is
// violated on all of box.
func (f DagFun) ContractNeg(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	out := box.Clone()
	best := map[int]interval.Interval{}
	notify := func(varID int, x interval.Interval) {
		if cur, ok := best[varID]; ok {
			best[varID] = cur.Inter(x)
		} else {
			best[varID] = x
		}
	}
	c := f.Dag.HC4ReviseNeg(f.Root, f.Image, f.lookup(box), notify)
	if c != cert.Maybe {
		return out, c
	}
	for id, x := range best {
		if out.Scope().Contains(id) {
			_ = out.SetAt(id, x)
		}
	}
	if out.IsEmpty() {
		return out, cert.Empty
	}
	return out, cert.Maybe
}
