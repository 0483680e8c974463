// Package propagator drives a contractor.Pool to a fixpoint: it repeats
// contracting with every pool member until none can narrow any variable
// further (§4.6). This is the AC3 queue generalised from "arc" to
// "contractor": a contractor is requeued only when one of the
// variables it depends on was actually narrowed by another contractor,
// not on every round, which is what keeps the fixpoint terminating in
// close to the minimal number of contractions rather than re-running
// every contractor every round.
//
// Grounded on graph/bfs.go's Options{Ctx, OnEnqueue, OnDequeue,
// OnVisit}-style traversal shape, generalised from "visit a vertex" to
// "apply a contractor", and on
// original_source/src/realpaver/CSPPropagator.cpp's variable-triggered
// worklist.
package propagator

import (
	"context"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/contractor"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
)

// DefaultMinRelContraction is the reactivation threshold used when
// Options.MinRelContraction is left at zero: a variable must shrink by
// more than 10% of its prior width to re-enqueue the other contractors
// that depend on it (§4.6, "more than a configured relative threshold
// (e.g. 10%)").
const DefaultMinRelContraction = 0.1

// Options configures a Propagate call, mirroring the teacher's
// Ctx-plus-callbacks traversal options.
type Options struct {
	// Ctx is optional; propagation aborts with ctx.Err() when it fires.
	Ctx context.Context
	// MinRelContraction is the minimum relative width decrease
	// (1 - after/before) a variable must undergo before the other
	// contractors depending on it are reactivated. Zero selects
	// DefaultMinRelContraction; a negative value reactivates on any
	// decrease at all.
	MinRelContraction float64
	// MaxSteps caps how many contractor invocations one Propagate call
	// may spend (§4.6's per-iteration work budget). Zero means no cap.
	// Stopping early is sound — the box is simply less narrowed.
	MaxSteps int
	// OnDequeue(idx) is called just before contractor idx runs.
	OnDequeue func(idx int)
	// OnContract(idx, c) is called after contractor idx runs, with the
	// certificate it returned.
	OnContract func(idx int, c cert.Certificate)
}

// Propagator holds a contractor.Pool plus the variable -> contractor
// trigger index built once from the pool's scopes.
type Propagator struct {
	Pool     contractor.Pool
	triggers map[int][]int // variable ID -> contractor indices depending on it
}

// New builds a Propagator over pool, indexing which contractors depend
// on which variables.
func New(pool contractor.Pool) *Propagator {
	triggers := make(map[int][]int)
	for i, c := range pool {
		for _, v := range c.Scope().Vars() {
			triggers[v.ID] = append(triggers[v.ID], i)
		}
	}
	return &Propagator{Pool: pool, triggers: triggers}
}

// Propagate runs the pool to a fixpoint over box (§4.6). It returns the
// narrowed box, the meet of every contractor's certificate across the
// whole run, and a non-nil error only when opts.Ctx was cancelled
// mid-run (the partially narrowed box up to that point is still
// returned, since every contraction along the way was sound).
func (p *Propagator) Propagate(box domain.IntervalBox, opts *Options) (domain.IntervalBox, cert.Certificate, error) {
	if opts == nil {
		opts = &Options{}
	}
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	minRel := opts.MinRelContraction
	if minRel == 0 {
		minRel = DefaultMinRelContraction
	}

	n := len(p.Pool)
	if n == 0 {
		return box, cert.Inner, nil
	}

	queue := make([]int, n)
	inQueue := make([]bool, n)
	for i := range queue {
		queue[i] = i
		inQueue[i] = true
	}

	overall := cert.Inner
	steps := 0
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return box, overall, ctx.Err()
		default:
		}
		if opts.MaxSteps > 0 && steps >= opts.MaxSteps {
			return box, cert.Meet(overall, cert.Maybe), nil
		}
		steps++

		idx := queue[0]
		queue = queue[1:]
		inQueue[idx] = false

		if opts.OnDequeue != nil {
			opts.OnDequeue(idx)
		}

		c := p.Pool[idx]
		before := snapshot(box, c.Scope())
		narrowed, cf := c.Contract(box)
		if opts.OnContract != nil {
			opts.OnContract(idx, cf)
		}
		overall = cert.Meet(overall, cf)
		if cf == cert.Empty {
			return narrowed, cert.Empty, nil
		}
		box = narrowed

		for _, v := range c.Scope().Vars() {
			after, err := box.At(v.ID)
			if err != nil {
				continue
			}
			prior := before[v.ID].Width()
			if prior == 0 || after.Width() >= prior || !(1-after.Width()/prior > minRel) {
				continue // contraction below the reactivation threshold
			}
			for _, dep := range p.triggers[v.ID] {
				if dep == idx || inQueue[dep] {
					continue
				}
				inQueue[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return box, overall, nil
}

func snapshot(box domain.IntervalBox, scope domain.Scope) map[int]interval.Interval {
	out := make(map[int]interval.Interval, scope.Len())
	for _, v := range scope.Vars() {
		x, err := box.At(v.ID)
		if err != nil {
			continue
		}
		out[v.ID] = x
	}
	return out
}
