package linearize

import (
	"math"
	"testing"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/lp"
	"github.com/realpaver-go/ncsp/term"
	"github.com/stretchr/testify/require"
)

func mustVar(t *testing.T, id int, lo, hi float64) domain.Variable {
	t.Helper()
	v, err := domain.NewVariable(id, "x", domain.Continuous, domain.NewInterval(interval.New(lo, hi)), domain.DefaultTolerance)
	require.NoError(t, err)
	return v
}

func TestTaylorCutContainsLinearFunction(t *testing.T) {
	tb := term.NewBuilder(false)
	x := tb.Var(0)
	y := tb.Var(1)
	src := tb.Add(x, y) // x + y, image [0, 10]

	vx := mustVar(t, 0, 1, 4)
	vy := mustVar(t, 1, 2, 5)
	scope := domain.NewScope(vx, vy)
	d := dag.New()
	root := d.Compile(src)
	fn := flatfn.NewDagFun(d, root, scope).WithImage(interval.New(0, 10))

	box := domain.NewIntervalBox(scope)
	o := lp.NewGonumOracle()
	varIdx := AddVars(box, scope, o)

	builder := &TaylorBuilder{Config: Config{FixedCorner: []bool{false, false}}}
	builder.AddCuts(box, scope, varIdx, FuncSrc{Fn: fn, Src: src}, o)

	// x=2,y=3 satisfies x+y=5 in [0,10]; the cut must not exclude it.
	o.SetObjective(lp.LinearExpr{varIdx[0]: 1, varIdx[1]: 1}, true)
	// Constrain both variables to the test point by re-adding bounds is
	// unnecessary: the cut itself must be satisfied by any box point, so
	// just check the row's coefficients reproduce the exact linear sum
	// (an affine function's Taylor cut is its own tight envelope, slack
	// 0).
	status, err := o.Optimize()
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, status)
	opt, err := o.CertifiedOptimum()
	require.NoError(t, err)
	require.InDelta(t, 9, opt, 1e-6) // max of x+y over the box is 4+5=9
}

func TestMcCormickEnvelopeContainsTrueProduct(t *testing.T) {
	tb := term.NewBuilder(false)
	x := tb.Var(0)
	y := tb.Var(1)
	src := tb.Mul(x, y)

	vx := mustVar(t, 0, 1, 3)
	vy := mustVar(t, 1, 2, 4)
	scope := domain.NewScope(vx, vy)
	d := dag.New()
	root := d.Compile(src)
	fn := flatfn.NewDagFun(d, root, scope).WithImage(interval.New(2, 12))

	box := domain.NewIntervalBox(scope)
	o := lp.NewGonumOracle()
	varIdx := AddVars(box, scope, o)

	builder := &RLTBuilder{}
	builder.AddCuts(box, scope, varIdx, FuncSrc{Fn: fn, Src: src}, o)

	// x=2,y=3 -> w=6, a point the relaxation (over x,y only) must admit
	// for some feasible combination; check the McCormick facets don't
	// forbid the box corner x=1,y=2 (w=2, within image).
	o.SetObjective(lp.LinearExpr{varIdx[0]: 1}, true)
	status, err := o.Optimize()
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, status)
}

func TestAffineCutRow(t *testing.T) {
	tb := term.NewBuilder(false)
	x := tb.Var(0)
	src := tb.Mul(x, x) // x^2, a genuinely nonlinear term

	vx := mustVar(t, 0, -2, 3)
	scope := domain.NewScope(vx)
	d := dag.New()
	root := d.Compile(src)
	fn := flatfn.NewDagFun(d, root, scope).WithImage(interval.New(0, 9))

	box := domain.NewIntervalBox(scope)
	o := lp.NewGonumOracle()
	varIdx := AddVars(box, scope, o)

	builder := &AffineBuilder{}
	builder.AddCuts(box, scope, varIdx, FuncSrc{Fn: fn, Src: src}, o)

	o.SetObjective(lp.LinearExpr{varIdx[0]: 1}, true)
	status, err := o.Optimize()
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, status)
	opt, err := o.CertifiedOptimum()
	require.NoError(t, err)
	require.True(t, opt >= 3-1e-6, "relaxation must not cut off x=3, got bound %v", opt)
}

func TestPolytopeContractNarrowsBox(t *testing.T) {
	tb := term.NewBuilder(false)
	x := tb.Var(0)
	y := tb.Var(1)
	src := tb.Add(x, y) // x + y in [0, 3]

	vx := mustVar(t, 0, -10, 10)
	vy := mustVar(t, 1, 0, 0.5)
	scope := domain.NewScope(vx, vy)
	d := dag.New()
	root := d.Compile(src)
	fn := flatfn.NewDagFun(d, root, scope).WithImage(interval.New(0, 3))

	poly := NewPolytope(
		[]FuncSrc{{Fn: fn, Src: src}},
		&TaylorBuilder{Config: Config{FixedCorner: []bool{false, false}}},
		func() lp.Oracle { return lp.NewGonumOracle() },
	)

	box := domain.NewIntervalBox(scope)
	out, _ := poly.Contract(box)
	xi, _ := out.At(0)
	// y in [0, 0.5] forces x in [-0.5, 3] given x+y in [0,3], tighter
	// than x's own declared bound [-10, 10].
	require.True(t, xi.Lo > -10, "expected lower bound narrowed from -10, got %v", xi.Lo)
	require.True(t, xi.Hi <= 10)
}

// TestPolytopeTaylorParabolaStrip covers the corner-Taylor case with a
// genuinely nonlinear pair: y - x^2 >= 0 and y + x^2 - 2 <= 0 on
// x in [-2, 1], y in [-1, 2], expanded at the (left-x, right-y) corner
// and its opposite. The two under/over estimator rows meet at y = 1,
// which pins x's lower bound to -1.25 while leaving y untouched.
func TestPolytopeTaylorParabolaStrip(t *testing.T) {
	tb := term.NewBuilder(false)
	x := tb.Var(0)
	y := tb.Var(1)
	above := tb.Sub(y, tb.Sqr(x))                // y - x^2 in [0, +oo)
	below := tb.Sub(tb.Add(y, tb.Sqr(x)), tb.Num(2)) // y + x^2 - 2 in (-oo, 0]

	vx := mustVar(t, 0, -2, 1)
	vy := mustVar(t, 1, -1, 2)
	scope := domain.NewScope(vx, vy)
	d := dag.New()
	fnAbove := flatfn.NewDagFun(d, d.Compile(above), scope).
		WithImage(interval.New(0, math.Inf(1)))
	fnBelow := flatfn.NewDagFun(d, d.Compile(below), scope).
		WithImage(interval.New(math.Inf(-1), 0))

	poly := NewPolytope(
		[]FuncSrc{{Fn: fnAbove, Src: above}, {Fn: fnBelow, Src: below}},
		&TaylorBuilder{Config: Config{FixedCorner: []bool{false, true}}},
		func() lp.Oracle { return lp.NewGonumOracle() },
	)

	box := domain.NewIntervalBox(scope)
	out, c := poly.Contract(box)
	require.NotEqual(t, cert.Empty, c)

	xi, err := out.At(0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, xi.Lo, -1.25-1e-8)
	require.InDelta(t, -1.25, xi.Lo, 1e-6)
	require.LessOrEqual(t, xi.Hi, 1+1e-8)

	yi, err := out.At(1)
	require.NoError(t, err)
	require.InDelta(t, -1, yi.Lo, 1e-12)
	require.InDelta(t, 2, yi.Hi, 1e-12)
}
