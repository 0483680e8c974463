package contractor

import (
	"testing"

	"github.com/realpaver-go/ncsp/affine"
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
	"github.com/stretchr/testify/require"
)

func mustVar(t *testing.T, id int, name string, lo, hi float64) domain.Variable {
	t.Helper()
	v, err := domain.NewVariable(id, name, domain.Continuous,
		domain.NewInterval(interval.New(lo, hi)), domain.DefaultTolerance)
	require.NoError(t, err)
	return v
}

// sumSquareChain builds (x+y)^2 - 2z + 2 == 0 over the given z range,
// with x in [-10, 15] and y in [-20, 5].
func sumSquareChain(t *testing.T, zLo, zHi float64) (*HC4, domain.IntervalBox) {
	t.Helper()
	tb := term.NewBuilder(false)
	src := tb.Add(
		tb.Sub(tb.Sqr(tb.Add(tb.Var(0), tb.Var(1))), tb.Mul(tb.Num(2), tb.Var(2))),
		tb.Num(2))

	vx := mustVar(t, 0, "x", -10, 15)
	vy := mustVar(t, 1, "y", -20, 5)
	vz := mustVar(t, 2, "z", zLo, zHi)
	scope := domain.NewScope(vx, vy, vz)

	d := dag.New()
	fn := flatfn.NewDagFun(d, d.Compile(src), scope).WithImage(interval.Degenerate(0))
	return NewHC4(fn), domain.NewIntervalBox(scope)
}

// TestHC4ContractsSumSquareChain: one HC4Revise pass on
// (x+y)^2 - 2z + 2 = 0 must land inside x in [-8, 15], y in [-18, 5],
// z in [1, 5.5]: the square forces 2z-2 >= 0, and its upper bound 9
// caps |x+y| at 3.
func TestHC4ContractsSumSquareChain(t *testing.T) {
	h, box := sumSquareChain(t, -10, 5.5)
	out, c := h.Contract(box)
	require.NotEqual(t, cert.Empty, c)

	const slack = 1e-9
	xi, _ := out.At(0)
	require.GreaterOrEqual(t, xi.Lo, -8-slack)
	require.LessOrEqual(t, xi.Hi, 15+slack)
	yi, _ := out.At(1)
	require.GreaterOrEqual(t, yi.Lo, -18-slack)
	require.LessOrEqual(t, yi.Hi, 5+slack)
	zi, _ := out.At(2)
	require.GreaterOrEqual(t, zi.Lo, 1-slack)
	require.LessOrEqual(t, zi.Hi, 5.5+slack)
}

// TestHC4DetectsEmptySumSquareChain: with z in [-10, 0] the square
// would have to equal 2z-2 <= -2, so the constraint is infeasible.
func TestHC4DetectsEmptySumSquareChain(t *testing.T) {
	h, box := sumSquareChain(t, -10, 0)
	_, c := h.Contract(box)
	require.Equal(t, cert.Empty, c)
}

// TestVar3BHullOfOutermostSlices: the membership constraint
// x in [1.5, 5.5] on x in [0, 10] cut into 10 slices keeps slices
// [1, 2] through [5, 6] alive, so 3B-consistency returns [1, 6].
func TestVar3BHullOfOutermostSlices(t *testing.T) {
	tb := term.NewBuilder(false)
	src := tb.Var(0)
	vx := mustVar(t, 0, "x", 0, 10)
	scope := domain.NewScope(vx)

	d := dag.New()
	fn := flatfn.NewDagFun(d, d.Compile(src), scope).WithImage(interval.New(1.5, 5.5))
	v3b := NewVar3B(NewHC4(fn), 0, 10, 0)

	out, c := v3b.Contract(domain.NewIntervalBox(scope))
	require.Equal(t, cert.Maybe, c)
	xi, _ := out.At(0)
	require.InDelta(t, 1, xi.Lo, 1e-12)
	require.InDelta(t, 6, xi.Hi, 1e-12)
}

func TestVar3BDetectsEmpty(t *testing.T) {
	tb := term.NewBuilder(false)
	src := tb.Var(0)
	vx := mustVar(t, 0, "x", 0, 10)
	scope := domain.NewScope(vx)

	d := dag.New()
	fn := flatfn.NewDagFun(d, d.Compile(src), scope).WithImage(interval.New(20, 30))
	v3b := NewVar3B(NewHC4(fn), 0, 10, 0)

	_, c := v3b.Contract(domain.NewIntervalBox(scope))
	require.Equal(t, cert.Empty, c)
}

// TestBC4SliceHullTightensMultiOccurrence: on x*x == 4 with x in
// [0, 10], plain HC4 leaves a wide domain because the two occurrences
// of x decorrelate, while BC4's slicing pass keeps only the slice whose
// forward image reaches 4.
func TestBC4SliceHullTightensMultiOccurrence(t *testing.T) {
	tb := term.NewBuilder(false)
	src := tb.Mul(tb.Var(0), tb.Var(0))
	vx := mustVar(t, 0, "x", 0, 10)
	scope := domain.NewScope(vx)

	d := dag.New()
	fn := flatfn.NewDagFun(d, d.Compile(src), scope).WithImage(interval.Degenerate(4))
	bc4 := NewBC4(fn, src)

	out, c := bc4.Contract(domain.NewIntervalBox(scope))
	require.Equal(t, cert.Maybe, c)
	xi, _ := out.At(0)
	require.True(t, xi.Contains(2), "solution x=2 must survive, got %v", xi)
	require.GreaterOrEqual(t, xi.Lo, 1.0)
	require.LessOrEqual(t, xi.Hi, 3.7)
}

// parabola builds y - x^2 == 0 on x in [-1, 1], y in [-2, 2].
func parabola(t *testing.T) (*HC4, domain.IntervalBox) {
	t.Helper()
	tb := term.NewBuilder(false)
	src := tb.Sub(tb.Var(1), tb.Sqr(tb.Var(0)))
	vx := mustVar(t, 0, "x", -1, 1)
	vy := mustVar(t, 1, "y", -2, 2)
	scope := domain.NewScope(vx, vy)

	d := dag.New()
	fn := flatfn.NewDagFun(d, d.Compile(src), scope).WithImage(interval.Degenerate(0))
	return NewHC4(fn), domain.NewIntervalBox(scope)
}

// TestVarCIDUnionNarrowsDependentVariable: slicing x on y == x^2
// narrows y on every slice even though x itself cannot shrink; the
// union of the per-slice results is y in [0, 1].
func TestVarCIDUnionNarrowsDependentVariable(t *testing.T) {
	inner, box := parabola(t)
	cid := NewVarCID(inner, 0, 4, 0)

	out, c := cid.Contract(box)
	require.Equal(t, cert.Maybe, c)
	yi, _ := out.At(1)
	require.GreaterOrEqual(t, yi.Lo, -1e-9)
	require.LessOrEqual(t, yi.Hi, 1+1e-9)
	xi, _ := out.At(0)
	require.InDelta(t, -1, xi.Lo, 1e-12)
	require.InDelta(t, 1, xi.Hi, 1e-12)
}

// TestACIDContractsAndStaysSound: ACID over both variables of
// y == x^2 must reach at least the same y range as a single varCID on
// x, and repeated calls stay sound while the internal k adapts.
func TestACIDContractsAndStaysSound(t *testing.T) {
	inner, box := parabola(t)
	acid := NewACID(inner, []int{0, 1}, 4, 0)

	out, c := acid.Contract(box)
	require.NotEqual(t, cert.Empty, c)
	yi, _ := out.At(1)
	require.GreaterOrEqual(t, yi.Lo, -1e-9)
	require.LessOrEqual(t, yi.Hi, 1+1e-9)

	again, c2 := acid.Contract(out)
	require.NotEqual(t, cert.Empty, c2)
	require.True(t, again.IsSubset(out), "repeated contraction may only shrink")
}

// newtonPair builds the square linear system x+y == 3, x-y == 1 over
// the given bounds for both unknowns.
func newtonPair(t *testing.T, lo, hi float64) (*Newton, domain.IntervalBox) {
	t.Helper()
	tb := term.NewBuilder(false)
	vx := mustVar(t, 0, "x", lo, hi)
	vy := mustVar(t, 1, "y", lo, hi)
	scope := domain.NewScope(vx, vy)

	d := dag.New()
	f1 := flatfn.NewDagFun(d, d.Compile(tb.Add(tb.Var(0), tb.Var(1))), scope).
		WithImage(interval.Degenerate(3))
	f2 := flatfn.NewDagFun(d, d.Compile(tb.Sub(tb.Var(0), tb.Var(1))), scope).
		WithImage(interval.Degenerate(1))
	return NewNewton([]flatfn.DagFun{f1, f2}, scope), domain.NewIntervalBox(scope)
}

// TestNewtonSolvesLinearSystem: on a linear system the interval Newton
// step is exact, collapsing the box onto (2, 1) and proving a solution
// exists (the contracted box maps strictly into the old one).
func TestNewtonSolvesLinearSystem(t *testing.T) {
	nw, box := newtonPair(t, 0, 5)
	out, c := nw.Contract(box)
	require.Equal(t, cert.Feasible, c)
	xi, _ := out.At(0)
	require.InDelta(t, 2, xi.Lo, 1e-9)
	require.InDelta(t, 2, xi.Hi, 1e-9)
	yi, _ := out.At(1)
	require.InDelta(t, 1, yi.Lo, 1e-9)
	require.InDelta(t, 1, yi.Hi, 1e-9)
}

func TestNewtonDetectsEmpty(t *testing.T) {
	nw, box := newtonPair(t, 10, 11)
	_, c := nw.Contract(box)
	require.Equal(t, cert.Empty, c)
}

func TestAffineReviseNarrowsSum(t *testing.T) {
	tb := term.NewBuilder(false)
	src := tb.Add(tb.Var(0), tb.Var(1))
	vx := mustVar(t, 0, "x", 0, 1)
	vy := mustVar(t, 1, "y", 0, 1)
	scope := domain.NewScope(vx, vy)

	d := dag.New()
	fn := flatfn.NewDagFun(d, d.Compile(src), scope).WithImage(interval.Degenerate(1.5))
	ar := NewAffineRevise(fn, src, affine.MinRange)

	out, c := ar.Contract(domain.NewIntervalBox(scope))
	require.Equal(t, cert.Maybe, c)
	// x + y = 1.5 with both in [0, 1] forces each above 0.5.
	xi, _ := out.At(0)
	require.GreaterOrEqual(t, xi.Lo, 0.5-1e-9)
	yi, _ := out.At(1)
	require.GreaterOrEqual(t, yi.Lo, 0.5-1e-9)
}

func TestAffineReviseCertificates(t *testing.T) {
	tb := term.NewBuilder(false)
	src := tb.Add(tb.Var(0), tb.Var(1))
	vx := mustVar(t, 0, "x", 0, 1)
	vy := mustVar(t, 1, "y", 0, 1)
	scope := domain.NewScope(vx, vy)
	box := domain.NewIntervalBox(scope)

	d := dag.New()
	root := d.Compile(src)

	disjoint := NewAffineRevise(
		flatfn.NewDagFun(d, root, scope).WithImage(interval.Degenerate(10)),
		src, affine.MinRange)
	_, c := disjoint.Contract(box)
	require.Equal(t, cert.Empty, c)

	containing := NewAffineRevise(
		flatfn.NewDagFun(d, root, scope).WithImage(interval.New(-10, 10)),
		src, affine.MinRange)
	_, c = containing.Contract(box)
	require.Equal(t, cert.Inner, c)
}

func TestPoolCombinedScope(t *testing.T) {
	tb := term.NewBuilder(false)
	vx := mustVar(t, 0, "x", 0, 1)
	vy := mustVar(t, 1, "y", 0, 1)
	vz := mustVar(t, 2, "z", 0, 1)

	d := dag.New()
	fnXY := flatfn.NewDagFun(d, d.Compile(tb.Add(tb.Var(0), tb.Var(1))),
		domain.NewScope(vx, vy)).WithImage(interval.Degenerate(1))
	fnYZ := flatfn.NewDagFun(d, d.Compile(tb.Add(tb.Var(1), tb.Var(2))),
		domain.NewScope(vy, vz)).WithImage(interval.Degenerate(1))

	pool := Pool{NewHC4(fnXY), NewHC4(fnYZ)}
	s := pool.CombinedScope()
	require.Equal(t, 3, s.Len())
	for id := 0; id < 3; id++ {
		require.True(t, s.Contains(id))
	}
}
