package propagator

import (
	"testing"

	"github.com/realpaver-go/ncsp/contractor"
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
	"github.com/stretchr/testify/require"
)

func mustVar(t *testing.T, id int, lo, hi float64) domain.Variable {
	t.Helper()
	v, err := domain.NewVariable(id, "v", domain.Continuous, domain.NewInterval(interval.New(lo, hi)), domain.DefaultTolerance)
	require.NoError(t, err)
	return v
}

// TestPropagateChainReactsAcrossSharedVariable builds two constraints
// sharing variable y: x = y (forces x narrow to y's range) and
// y = z (forces y, and transitively x, to z's tight range), and checks
// that narrowing z's contractor also reactivates the x=y contractor
// even though it never directly touches z.
func TestPropagateChainReactsAcrossSharedVariable(t *testing.T) {
	tb := term.NewBuilder(false)

	vx := mustVar(t, 0, -100, 100)
	vy := mustVar(t, 1, -100, 100)
	vz := mustVar(t, 2, 5, 5.5)

	scopeXY := domain.NewScope(vx, vy)
	scopeYZ := domain.NewScope(vy, vz)

	d := dag.New()
	xEqY := tb.Sub(tb.Var(0), tb.Var(1)) // x - y in [0,0]
	yEqZ := tb.Sub(tb.Var(1), tb.Var(2)) // y - z in [0,0]

	fnXY := flatfn.NewDagFun(d, d.Compile(xEqY), scopeXY).WithImage(interval.New(0, 0))
	fnYZ := flatfn.NewDagFun(d, d.Compile(yEqZ), scopeYZ).WithImage(interval.New(0, 0))

	pool := contractor.Pool{contractor.NewHC4(fnXY), contractor.NewHC4(fnYZ)}
	p := New(pool)

	box := domain.NewIntervalBox(domain.NewScope(vx, vy, vz))
	out, c, err := p.Propagate(box, nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(c))

	xi, _ := out.At(0)
	require.InDelta(t, 5, xi.Lo, 1e-9)
	require.InDelta(t, 5.5, xi.Hi, 1e-9)
}

func TestPropagateDetectsEmpty(t *testing.T) {
	tb := term.NewBuilder(false)
	vx := mustVar(t, 0, 10, 20)
	scope := domain.NewScope(vx)
	d := dag.New()
	root := d.Compile(tb.Var(0))
	fn := flatfn.NewDagFun(d, root, scope).WithImage(interval.New(0, 1))

	pool := contractor.Pool{contractor.NewHC4(fn)}
	p := New(pool)

	box := domain.NewIntervalBox(scope)
	_, c, err := p.Propagate(box, nil)
	require.NoError(t, err)
	require.Equal(t, 0, int(c)) // cert.Empty == 0
}

// parabolaPool builds the two-constraint pool y - x^2 = 0,
// x^2 + y^2 - 2 = 0 used by the fixpoint property tests.
func parabolaPool(t *testing.T) (*Propagator, domain.Scope) {
	t.Helper()
	tb := term.NewBuilder(false)
	vx := mustVar(t, 0, -7, 3)
	vy := mustVar(t, 1, -3, 6)
	scope := domain.NewScope(vx, vy)

	d := dag.New()
	parab := tb.Sub(tb.Var(1), tb.Sqr(tb.Var(0)))
	circle := tb.Sub(tb.Add(tb.Sqr(tb.Var(0)), tb.Sqr(tb.Var(1))), tb.Num(2))
	f1 := flatfn.NewDagFun(d, d.Compile(parab), scope).WithImage(interval.Degenerate(0))
	f2 := flatfn.NewDagFun(d, d.Compile(circle), scope).WithImage(interval.Degenerate(0))
	return New(contractor.Pool{contractor.NewHC4(f1), contractor.NewHC4(f2)}), scope
}

// TestPropagateIdempotentAtFixpoint: running the propagator on its own
// output must change nothing.
func TestPropagateIdempotentAtFixpoint(t *testing.T) {
	p, scope := parabolaPool(t)
	box := domain.NewIntervalBox(scope)

	once, c1, err := p.Propagate(box, nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(c1))

	twice, _, err := p.Propagate(once, nil)
	require.NoError(t, err)
	for _, v := range scope.Vars() {
		a, _ := once.At(v.ID)
		b, _ := twice.At(v.ID)
		require.Equal(t, a, b, "variable %d moved on the second pass", v.ID)
	}
}

// TestPropagateMonotone: for boxes B inside B', the propagated B stays
// inside the propagated B'.
func TestPropagateMonotone(t *testing.T) {
	p, scope := parabolaPool(t)

	outer := domain.NewIntervalBox(scope)
	inner := outer.Clone()
	require.NoError(t, inner.SetAt(0, interval.New(-2, 2)))
	require.NoError(t, inner.SetAt(1, interval.New(0, 3)))

	pOuter, cOuter, err := p.Propagate(outer, nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(cOuter))
	pInner, cInner, err := p.Propagate(inner, nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, int(cInner))

	require.True(t, pInner.IsSubset(pOuter))
}
