package search

import (
	"testing"
	"time"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/contractor"
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/propagator"
	"github.com/realpaver-go/ncsp/term"
	"github.com/stretchr/testify/require"
)

func mustVar(t *testing.T, id int, lo, hi float64) domain.Variable {
	t.Helper()
	v, err := domain.NewVariable(id, "v", domain.Continuous,
		domain.NewInterval(interval.New(lo, hi)),
		domain.Tolerance{Abs: 1e-3, Rel: 1e-3})
	require.NoError(t, err)
	return v
}

// TestSolveConvergesOnLinearEquation checks that a single linear
// equation constraint (x == 5) is eventually narrowed to a box within
// tolerance, confirming the propagate-split loop terminates at a
// single solution for a trivially determined system.
func TestSolveConvergesOnLinearEquation(t *testing.T) {
	tb := term.NewBuilder(false)
	v := mustVar(t, 0, -100, 100)
	scope := domain.NewScope(v)

	d := dag.New()
	root := d.Compile(tb.Sub(tb.Var(0), tb.Num(5)))
	fn := flatfn.NewDagFun(d, root, scope).WithImage(interval.Degenerate(0))

	pool := contractor.Pool{contractor.NewHC4(fn)}
	prop := propagator.New(pool)

	root0 := domain.NewDomainBox(scope)
	res := Solve(root0, Options{
		Prop:  prop,
		Split: &LargestWidth{},
		Limits: Limits{Time: time.Second, Nodes: 10000},
	})

	require.False(t, res.Partial)
	require.NotEmpty(t, res.Solutions)
	for _, n := range res.Solutions {
		x, err := n.Box.At(0)
		require.NoError(t, err)
		hull := x.Hull()
		require.InDelta(t, 5, hull.Mid(), 1e-2)
	}
}

// TestSolveRespectsNodeLimit checks that a constraint whose solution set
// is a curve (propagation never empties the box, so the search keeps
// splitting toward tolerance) stops once the node limit fires and
// reports Partial.
func TestSolveRespectsNodeLimit(t *testing.T) {
	tb := term.NewBuilder(false)
	vx := mustVar(t, 0, -1, 1)
	vy := mustVar(t, 1, -1, 1)
	scope := domain.NewScope(vx, vy)

	d := dag.New()
	// x*y == 0.5: satisfied along a hyperbola inside [-1,1]x[-1,1], so
	// HC4Revise never empties the box and search keeps splitting until
	// the node limit fires.
	root := d.Compile(tb.Mul(tb.Var(0), tb.Var(1)))
	fn := flatfn.NewDagFun(d, root, scope).WithImage(interval.Degenerate(0.5))

	pool := contractor.Pool{contractor.NewHC4(fn)}
	prop := propagator.New(pool)

	res := Solve(domain.NewDomainBox(scope), Options{
		Prop:   prop,
		Split:  &LargestWidth{},
		Limits: Limits{Nodes: 20},
	})
	require.True(t, res.Partial)
	require.LessOrEqual(t, res.Nodes, 21)
}

// TestSolveWithNilPropagatorStillSplitsToTolerance exercises the
// no-propagator path (a pure branch-and-bound over the box alone).
// Halving [0,1] down to the 1e-3 tolerance takes 2^11-1 = 2047 nodes.
func TestSolveWithNilPropagatorStillSplitsToTolerance(t *testing.T) {
	v := mustVar(t, 0, 0, 1)
	scope := domain.NewScope(v)
	res := Solve(domain.NewDomainBox(scope), Options{
		Split:  &LargestWidth{},
		Limits: Limits{Nodes: 4096},
	})
	require.False(t, res.Partial)
	for _, n := range res.Solutions {
		require.Equal(t, cert.Maybe, n.Cert)
	}
}
