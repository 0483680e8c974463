// Package search's Solver ties the propagator, splitter, node store,
// and prover into the branch-and-prune loop of §4.7: pop a node,
// propagate it to a fixpoint, file it as a solution if it meets the
// stop criteria (or the splitter has nothing left to cut), otherwise
// split it into two children and push them back.
//
// Grounded on original_source/src/realpaver/CSPSolver.hpp's main loop
// and on dfs.go's/graph/dfs.go's Ctx-pollable traversal shape (§5:
// the search polls a cancellation token and deadline between node
// expansions).
package search

import (
	"context"
	"time"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/propagator"
)

// Prover is the minimal surface Solver needs from a prove.Prover,
// kept as an interface so search does not import prove (prove already
// imports contractor and flatfn; search stays a leaf consumer of both
// without adding a third edge).
type Prover interface {
	Prove(box domain.IntervalBox) cert.Certificate
}

// Limits bounds a Solve run (§4.7 "Limits and termination", §6's
// TIME_LIMIT/NODE_LIMIT/SOLUTION_LIMIT/DEPTH_LIMIT parameters). A zero
// field means that limit is disabled.
type Limits struct {
	Time     time.Duration
	Nodes    int
	Solutions int
	Depth    int
}

// Options configures a Solve call.
type Options struct {
	Ctx        context.Context
	Prop       *propagator.Propagator
	Split      Splitter
	Store      Store // defaults to a fresh StackStore if nil
	Prove      Prover // optional; nil skips the Feasible/Inner upgrade
	Limits     Limits
	OnNode     func(n *Node) // called once per node, after propagation
}

// Result is the output cover of §4.7: the solution boxes (each with
// its certificate), the boxes still pending when a limit fired, and
// aggregate counters.
type Result struct {
	Solutions []*Node
	Pending   []*Node
	Nodes     int
	Elapsed   time.Duration
	Partial   bool
}

// Solve runs branch-and-prune from root (§4.7). It never panics on a
// numerical condition (§7): every per-node outcome is either a
// certificate or a split, and a fired limit only ever truncates the
// tree, it never leaves a node half-processed.
func Solve(root domain.DomainBox, opts Options) Result {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = NewStackStore()
	}

	start := time.Now()
	var res Result

	store.Push(&Node{Box: root, Depth: 0, Parent: -1, Cert: cert.Maybe, SplitVar: -1})

	for store.Len() > 0 {
		if opts.Limits.Time > 0 && time.Since(start) > opts.Limits.Time {
			res.Partial = true
			break
		}
		select {
		case <-ctx.Done():
			res.Partial = true
		default:
		}
		if res.Partial {
			break
		}
		if opts.Limits.Nodes > 0 && res.Nodes >= opts.Limits.Nodes {
			res.Partial = true
			break
		}
		if opts.Limits.Solutions > 0 && len(res.Solutions) >= opts.Limits.Solutions {
			res.Partial = true
			break
		}

		n, ok := store.Pop()
		if !ok {
			break
		}
		res.Nodes++

		if n.Box.IsEmpty() {
			continue
		}

		narrowedBox := n.Box
		narrowedCert := n.Cert
		if opts.Prop != nil {
			hull, c, err := opts.Prop.Propagate(n.Box.Hull(), &propagator.Options{Ctx: ctx})
			if err != nil {
				res.Partial = true
				n.Cert = cert.Maybe
				res.Pending = append(res.Pending, n)
				continue
			}
			if c == cert.Empty {
				continue
			}
			narrowedBox = n.Box.IntersectHull(hull)
			narrowedCert = c
			if narrowedBox.IsEmpty() {
				continue
			}
		}
		n.Box = narrowedBox
		n.Cert = narrowedCert

		if opts.OnNode != nil {
			opts.OnNode(n)
		}

		stop := narrowedBox.BelowTolerance() || narrowedCert == cert.Inner
		var varID int
		var point float64
		var splitOK bool
		if !stop && opts.Split != nil {
			varID, point, splitOK = opts.Split.Split(narrowedBox)
			stop = !splitOK
		}

		if stop {
			if narrowedCert != cert.Inner && opts.Prove != nil {
				if p := opts.Prove.Prove(narrowedBox.Hull()); p > narrowedCert {
					n.Cert = p
				}
			}
			res.Solutions = append(res.Solutions, n)
			continue
		}

		if opts.Limits.Depth > 0 && n.Depth >= opts.Limits.Depth {
			res.Partial = true
			res.Pending = append(res.Pending, n)
			continue
		}

		left, right := splitBox(narrowedBox, varID, point)
		parentIdx := res.Nodes - 1
		store.Push(&Node{Box: left, Depth: n.Depth + 1, Parent: parentIdx, Cert: cert.Maybe, SplitVar: varID})
		store.Push(&Node{Box: right, Depth: n.Depth + 1, Parent: parentIdx, Cert: cert.Maybe, SplitVar: varID})
	}

	if res.Partial {
		for store.Len() > 0 {
			n, ok := store.Pop()
			if !ok {
				break
			}
			res.Pending = append(res.Pending, n)
		}
	}

	res.Elapsed = time.Since(start)
	return res
}

// splitBox clones box and replaces variable varID's domain with the
// two halves of its hull on either side of point (§4.7: "produce two
// children with the respective halves"), re-rounding each half through
// Domain.IntersectHull so discrete/union domains stay representable.
func splitBox(box domain.DomainBox, varID int, point float64) (domain.DomainBox, domain.DomainBox) {
	d, err := box.At(varID)
	if err != nil {
		return box.Clone(), box.Clone()
	}
	hull := d.Hull()

	left := box.Clone()
	right := box.Clone()
	_ = left.SetAt(varID, d.IntersectHull(interval.New(hull.Lo, point)))
	_ = right.SetAt(varID, d.IntersectHull(interval.New(point, hull.Hi)))
	return left, right
}
