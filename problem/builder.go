package problem

import (
	"errors"

	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
)

// ErrDuplicateName is returned by Builder.NewVar when name was already
// declared in this builder.
var ErrDuplicateName = errors.New("problem: duplicate variable name")

// Builder incrementally assembles a Problem: declare variables (which
// hands back a usable term.Term referencing them), build up
// expressions with the shared TermBuilder, attach constraints and an
// objective, then Build. Mirrors the teacher's NewGraph(options...)
// constructor pattern generalised to a multi-step assembly instead of
// a single options list, since a problem's constraints reference the
// variables its own earlier steps declared.
type Builder struct {
	tb     term.Builder
	byName map[string]int
	vars   []domain.Variable
	cons   []Constraint
	obj    *Objective
	meta   Metadata
}

// NewBuilder returns an empty Builder. simplify controls whether the
// underlying term.Builder folds constants and collapses linear chains
// as expressions are built (§4.3); parser-driven builds want it on,
// round-trip tests want it off (§8 round-trip property).
func NewBuilder(simplify bool) *Builder {
	return &Builder{tb: term.NewBuilder(simplify), byName: map[string]int{}}
}

// Term exposes the shared TermBuilder so callers can build up
// expressions referencing variables returned by NewVar.
func (b *Builder) Term() term.Builder { return b.tb }

// NewVar declares a fresh variable with a dense id and returns the
// Term referencing it, for use in subsequent expressions.
func (b *Builder) NewVar(name string, kind domain.Kind, dom domain.Domain, tol domain.Tolerance) (term.Term, error) {
	if _, dup := b.byName[name]; dup {
		return term.Term{}, ErrDuplicateName
	}
	id := len(b.vars)
	v, err := domain.NewVariable(id, name, kind, dom, tol)
	if err != nil {
		return term.Term{}, err
	}
	b.byName[name] = id
	b.vars = append(b.vars, v)
	return b.tb.Var(id), nil
}

// AddConstraint adds the relation lhs in image under the given name.
func (b *Builder) AddConstraint(name string, lhs term.Term, image interval.Interval) {
	b.cons = append(b.cons, Constraint{Name: name, Term: lhs, Image: image})
}

// AddEquation adds lhs == rhs, normalised to (lhs - rhs) in [0, 0]
// (§6: "f(x, y) == sqr(n)" style constraints).
func (b *Builder) AddEquation(name string, lhs, rhs term.Term) {
	b.AddConstraint(name, b.tb.Sub(lhs, rhs), interval.Degenerate(0))
}

// AddInequality adds lo <= lhs <= hi.
func (b *Builder) AddInequality(name string, lhs term.Term, lo, hi float64) {
	b.AddConstraint(name, lhs, interval.New(lo, hi))
}

// SetObjective sets the optional MIN/MAX clause.
func (b *Builder) SetObjective(t term.Term, minimize bool) {
	b.obj = &Objective{Term: t, Minimize: minimize}
}

// SetSource records the input file name for the solution writer's
// header (§6); it has no effect on solving semantics.
func (b *Builder) SetSource(name string) {
	b.meta.SourceFile = name
}

// Build finalises the Problem. Variable order in the resulting Scope
// is declaration order, which is also dense-id order (§3).
func (b *Builder) Build() *Problem {
	return &Problem{
		Scope:       domain.NewScope(b.vars...),
		Constraints: append([]Constraint(nil), b.cons...),
		Objective:   b.obj,
		Meta:        b.meta,
	}
}
