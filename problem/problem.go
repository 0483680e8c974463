// Package problem ties domain, term, dag, and flatfn together into the
// semantic object the rest of the solver operates on: a Problem is a
// scope of variables plus a set of constraints (each a Term bound to an
// image interval) and an optional objective (§3, §6).
//
// Problem itself carries no parser- or file-format concerns; it is the
// object the parser package produces and the preprocessor/search
// packages consume. Grounded on original_source/src/realpaver/Problem.cpp
// for the shape (variables + constraints + objective, a Compile step
// that shares one Dag across every constraint) and on the teacher's
// core.Graph constructor/options pattern for Builder.
package problem

import (
	"sort"

	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
)

// Constraint is one named relation f(x...) in Image (§3: a DagFun's
// image is the constraint's right-hand side). An equality a == b is
// normalised to (a - b) in [0, 0] at construction time.
type Constraint struct {
	Name  string
	Term  term.Term
	Image interval.Interval
}

// Objective is the optional MIN/MAX clause of a problem file (§6).
// Solving does not require one; the core's testable properties (§8)
// only concern the constraint set, but the Objective rides along so
// the solution writer can report it and the exclusion-region
// contractor (§9, omitted — see DESIGN.md) would have somewhere to
// plug in if it existed.
type Objective struct {
	Term     term.Term
	Minimize bool
}

// Metadata is non-semantic bookkeeping that rides along with a
// Problem purely so the solution writer can echo it (§6: the .sol
// header identifies the input file).
type Metadata struct {
	SourceFile string
}

// Problem is a fully-built constraint satisfaction problem: a dense
// variable scope, the constraint set, and an optional objective.
type Problem struct {
	Scope       domain.Scope
	Constraints []Constraint
	Objective   *Objective
	Meta        Metadata
}

// Compiled is a Problem together with the single shared Dag built over
// every constraint and objective (§3: "the solver builds a single
// shared DAG over all remaining constraints"), and one flatfn.DagFun
// view per constraint with its own narrowed scope.
type Compiled struct {
	Dag         *dag.Dag
	Funcs       []flatfn.DagFun // one per Constraints[i], same order
	ObjectiveFn *flatfn.DagFun  // nil if Problem.Objective is nil
}

// Compile builds the shared Dag and one DagFun per constraint (plus the
// objective, if present). Each DagFun's scope is the sub-scope of p's
// full Scope actually referenced by that constraint's term, in
// variable-ID order, matching the invariant that "scopes in a function
// view are supersets of scopes in its child nodes" read the other way:
// a DagFun never carries variables its term does not depend on.
func (p *Problem) Compile() *Compiled {
	d := dag.New()
	out := &Compiled{Dag: d, Funcs: make([]flatfn.DagFun, len(p.Constraints))}
	for i, c := range p.Constraints {
		root := d.Compile(c.Term)
		scope := p.subscope(c.Term)
		out.Funcs[i] = flatfn.NewDagFun(d, root, scope).WithImage(c.Image)
	}
	if p.Objective != nil {
		root := d.Compile(p.Objective.Term)
		scope := p.subscope(p.Objective.Term)
		fn := flatfn.NewDagFun(d, root, scope)
		out.ObjectiveFn = &fn
	}
	return out
}

// subscope returns the variables of p.Scope that t actually depends on,
// in ascending variable-ID order (term.VarIDs is already sorted).
func (p *Problem) subscope(t term.Term) domain.Scope {
	ids := t.VarIDs()
	vars := make([]domain.Variable, 0, len(ids))
	byID := make(map[int]domain.Variable, p.Scope.Len())
	for _, v := range p.Scope.Vars() {
		byID[v.ID] = v
	}
	sort.Ints(ids)
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			vars = append(vars, v)
		}
	}
	return domain.NewScope(vars...)
}

// InitialBox returns the domain box p's variables start search from.
func (p *Problem) InitialBox() domain.DomainBox {
	return domain.NewDomainBox(p.Scope)
}
