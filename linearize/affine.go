package linearize

import (
	"github.com/realpaver-go/ncsp/affine"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/lp"
)

// AffineBuilder linearises a function by lifting it to an affine form
// over the scope's variables (one noise symbol per variable, indexed
// by scope position) and substituting each noise symbol's definition
// eps_i = (x_i - mid_i)/rad_i back in terms of x_i, so the whole
// affine inequality collapses into a single linear row in the box's
// own variables. Noise symbols introduced by a nonlinear operator
// (index >= scope.Len()) have no x_i to substitute against and are
// folded into the row's slack instead.
//
// Grounded on original_source/src/realpaver/LinearizerAffine.hpp.
type AffineBuilder struct {
	Config
}

func (b *AffineBuilder) AddCuts(box domain.IntervalBox, scope domain.Scope, varIdx map[int]int, fs FuncSrc, o lp.Oracle) {
	lookup := boxLookup(box)
	vals := fs.Fn.Dag.Eval(lookup)

	varForm := make(map[int]affine.Form, scope.Len())
	mid := make([]float64, scope.Len())
	rad := make([]float64, scope.Len())
	for i, v := range scope.Vars() {
		x, _ := box.At(v.ID)
		varForm[v.ID] = affine.FromInterval(x, i)
		mid[i] = x.Mid()
		rad[i] = x.Radius()
	}
	next := scope.Len()
	form := affine.EvalTerm(fs.Src, fs.Fn.Dag, vals, varForm, affine.Chebyshev, &next)

	expr := lp.LinearExpr{}
	// const0 + sum c_i*x_i approximates the affine form's value once
	// every scope-indexed noise symbol eps_i = (x_i-mid_i)/rad_i is
	// substituted back; synthetic noise symbols beyond scope.Len() and
	// the form's own Err both become extra slack.
	const0 := form.Centre
	slack := form.Err
	for i, v := range scope.Vars() {
		c := form.Coeffs[i]
		if c == 0 {
			continue
		}
		if rad[i] == 0 {
			continue // degenerate variable: coefficient carries no span
		}
		ci := c / rad[i]
		expr[varIdx[v.ID]] = ci
		const0 -= ci * mid[i]
	}
	for idx, c := range form.Coeffs {
		if idx < scope.Len() {
			continue
		}
		slack += absf(c)
	}
	lo := fs.Fn.Image.Lo - slack - const0
	hi := fs.Fn.Image.Hi + slack - const0
	o.AddConstraint(expr, lo, hi)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
