package problem

import (
	"testing"

	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/stretchr/testify/require"
)

func TestBuilderRejectsDuplicateNames(t *testing.T) {
	b := NewBuilder(true)
	_, err := b.NewVar("x", domain.Continuous,
		domain.NewInterval(interval.New(0, 1)), domain.DefaultTolerance)
	require.NoError(t, err)
	_, err = b.NewVar("x", domain.Continuous,
		domain.NewInterval(interval.New(0, 1)), domain.DefaultTolerance)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestBuilderRejectsEmptyInitialDomain(t *testing.T) {
	b := NewBuilder(true)
	_, err := b.NewVar("x", domain.Continuous,
		domain.NewInterval(interval.Empty()), domain.DefaultTolerance)
	require.ErrorIs(t, err, domain.ErrEmptyDomain)
}

// TestCompileSharesCommonSubexpressions builds two constraints both
// containing sqr(x) and checks the shared Dag holds a single node for
// it: the per-constraint roots differ but the subexpression is
// hash-consed once.
func TestCompileSharesCommonSubexpressions(t *testing.T) {
	b := NewBuilder(false)
	x, err := b.NewVar("x", domain.Continuous,
		domain.NewInterval(interval.New(-2, 2)), domain.DefaultTolerance)
	require.NoError(t, err)
	y, err := b.NewVar("y", domain.Continuous,
		domain.NewInterval(interval.New(-2, 2)), domain.DefaultTolerance)
	require.NoError(t, err)
	tb := b.Term()

	b.AddEquation("parabola", y, tb.Sqr(x))               // y - sqr(x) == 0
	b.AddEquation("circle", tb.Add(tb.Sqr(x), tb.Sqr(y)), tb.Num(2))

	p := b.Build()
	compiled := p.Compile()
	require.Len(t, compiled.Funcs, 2)

	// Nodes: x, y, sqr(x), y-sqr(x), {0}... plus sqr(y), sqr(x)+sqr(y),
	// {2}, and the second root. A second sqr(x) would push the count up;
	// compiling the same problem twice into fresh Dags must agree.
	count := compiled.Dag.NumNodes()
	again := p.Compile()
	require.Equal(t, count, again.Dag.NumNodes())

	d := compiled.Dag
	_ = d.Compile(tb.Sqr(x))
	require.Equal(t, count, d.NumNodes(), "re-inserting sqr(x) must not allocate")
}

// TestCompileScopesAreNarrowed checks each DagFun carries only the
// variables its constraint mentions, not the whole problem scope.
func TestCompileScopesAreNarrowed(t *testing.T) {
	b := NewBuilder(false)
	x, err := b.NewVar("x", domain.Continuous,
		domain.NewInterval(interval.New(0, 1)), domain.DefaultTolerance)
	require.NoError(t, err)
	_, err = b.NewVar("y", domain.Continuous,
		domain.NewInterval(interval.New(0, 1)), domain.DefaultTolerance)
	require.NoError(t, err)
	tb := b.Term()
	b.AddEquation("fix-x", x, tb.Num(1))

	compiled := b.Build().Compile()
	require.Equal(t, 1, compiled.Funcs[0].Scope.Len())
	require.True(t, compiled.Funcs[0].Scope.Contains(0))
	require.False(t, compiled.Funcs[0].Scope.Contains(1))
}

func TestInitialBoxMatchesDeclarations(t *testing.T) {
	b := NewBuilder(true)
	_, err := b.NewVar("x", domain.Continuous,
		domain.NewInterval(interval.New(-3, 4)), domain.DefaultTolerance)
	require.NoError(t, err)
	_, err = b.NewVar("n", domain.Discrete, domain.NewIntRange(0, 6), domain.DefaultTolerance)
	require.NoError(t, err)

	box := b.Build().InitialBox()
	xd, err := box.At(0)
	require.NoError(t, err)
	require.Equal(t, -3.0, xd.Hull().Lo)
	require.Equal(t, 4.0, xd.Hull().Hi)
	nd, err := box.At(1)
	require.NoError(t, err)
	require.Equal(t, domain.KindIntRange, nd.Kind())
}
