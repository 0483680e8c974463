package search

import (
	"math"
	"testing"
	"time"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/contractor"
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/propagator"
	"github.com/realpaver-go/ncsp/prove"
	"github.com/realpaver-go/ncsp/term"
	"github.com/stretchr/testify/require"
)

// TestParabolaCircleIntersection solves y - x^2 = 0 and
// x^2 + y^2 - 2 = 0 on x in [-7, 3], y in [-3, 6] with HC4 alone at
// tolerance 1e-4. The system has exactly the two regular solutions
// (1, 1) and (-1, 1); every returned box must cluster around one of
// them, both clusters must be reached, and the prover must certify a
// box in each cluster.
func TestParabolaCircleIntersection(t *testing.T) {
	tb := term.NewBuilder(false)
	tol := domain.Tolerance{Abs: 1e-4}
	vx, err := domain.NewVariable(0, "x", domain.Continuous,
		domain.NewInterval(interval.New(-7, 3)), tol)
	require.NoError(t, err)
	vy, err := domain.NewVariable(1, "y", domain.Continuous,
		domain.NewInterval(interval.New(-3, 6)), tol)
	require.NoError(t, err)
	scope := domain.NewScope(vx, vy)

	d := dag.New()
	parab := tb.Sub(tb.Var(1), tb.Sqr(tb.Var(0)))
	circle := tb.Sub(tb.Add(tb.Sqr(tb.Var(0)), tb.Sqr(tb.Var(1))), tb.Num(2))
	f1 := flatfn.NewDagFun(d, d.Compile(parab), scope).WithImage(interval.Degenerate(0))
	f2 := flatfn.NewDagFun(d, d.Compile(circle), scope).WithImage(interval.Degenerate(0))

	prop := propagator.New(contractor.Pool{contractor.NewHC4(f1), contractor.NewHC4(f2)})
	prover := prove.NewProver([]flatfn.DagFun{f1, f2}, scope, nil)

	res := Solve(domain.NewDomainBox(scope), Options{
		Prop:   prop,
		Split:  &LargestWidth{},
		Prove:  prover,
		Limits: Limits{Time: 30 * time.Second, Nodes: 500000},
	})
	require.False(t, res.Partial)
	require.NotEmpty(t, res.Solutions)

	posProved, negProved := false, false
	posSeen, negSeen := false, false
	for _, n := range res.Solutions {
		xd, err := n.Box.At(0)
		require.NoError(t, err)
		yd, err := n.Box.At(1)
		require.NoError(t, err)
		x := xd.Hull().Mid()
		y := yd.Hull().Mid()
		require.InDelta(t, 1, y, 5e-3)
		require.InDelta(t, 1, math.Abs(x), 5e-3)
		proved := n.Cert == cert.Feasible || n.Cert == cert.Inner
		if x > 0 {
			posSeen = true
			posProved = posProved || proved
		} else {
			negSeen = true
			negProved = negProved || proved
		}
	}
	require.True(t, posSeen, "no solution near (1, 1)")
	require.True(t, negSeen, "no solution near (-1, 1)")
	require.True(t, posProved, "no certified solution near (1, 1)")
	require.True(t, negProved, "no certified solution near (-1, 1)")
}

// TestIntegerRadiusEnumeration solves x^2 + y^2 = n^2 and y = x^2 + 1
// on x in [-7, 3], y in [-6, 4], n in {0..6}. Substituting y = x^2 + 1
// gives y^2 + y - 1 = n^2 — concretely, only n in {1, 2, 3, 4}
// admits a real solution with y in range, so the search must enumerate
// exactly those integers.
func TestIntegerRadiusEnumeration(t *testing.T) {
	tb := term.NewBuilder(false)
	tol := domain.Tolerance{Abs: 1e-4}
	vx, err := domain.NewVariable(0, "x", domain.Continuous,
		domain.NewInterval(interval.New(-7, 3)), tol)
	require.NoError(t, err)
	vy, err := domain.NewVariable(1, "y", domain.Continuous,
		domain.NewInterval(interval.New(-6, 4)), tol)
	require.NoError(t, err)
	vn, err := domain.NewVariable(2, "n", domain.Discrete,
		domain.NewIntRange(0, 6), domain.Tolerance{Abs: 0.5})
	require.NoError(t, err)
	scope := domain.NewScope(vx, vy, vn)

	d := dag.New()
	ring := tb.Sub(tb.Add(tb.Sqr(tb.Var(0)), tb.Sqr(tb.Var(1))), tb.Sqr(tb.Var(2)))
	parab := tb.Sub(tb.Var(1), tb.Add(tb.Sqr(tb.Var(0)), tb.Num(1)))
	f1 := flatfn.NewDagFun(d, d.Compile(ring), scope).WithImage(interval.Degenerate(0))
	f2 := flatfn.NewDagFun(d, d.Compile(parab), scope).WithImage(interval.Degenerate(0))

	prop := propagator.New(contractor.Pool{contractor.NewHC4(f1), contractor.NewHC4(f2)})

	res := Solve(domain.NewDomainBox(scope), Options{
		Prop:   prop,
		Split:  &LargestWidth{},
		Limits: Limits{Time: 60 * time.Second, Nodes: 2000000},
	})
	require.False(t, res.Partial)
	require.NotEmpty(t, res.Solutions)

	seen := map[int64]bool{}
	for _, n := range res.Solutions {
		nd, err := n.Box.At(2)
		require.NoError(t, err)
		hull := nd.Hull()
		require.Less(t, hull.Width(), 0.51, "n must be pinned to one integer, got %v", hull)
		k := int64(math.Round(hull.Mid()))
		require.Contains(t, []int64{1, 2, 3, 4}, k, "inadmissible radius %d survived", k)
		seen[k] = true
	}
	for _, k := range []int64{1, 2, 3, 4} {
		require.True(t, seen[k], "no solution enumerated for n=%d", k)
	}
}

// TestSolveDeterministic runs the same solve twice and requires the
// solution sequences to be identical box for box (§5: bit-identical
// covers for a fixed problem and parameters).
func TestSolveDeterministic(t *testing.T) {
	run := func() []*Node {
		tb := term.NewBuilder(false)
		tol := domain.Tolerance{Abs: 1e-3}
		vx, err := domain.NewVariable(0, "x", domain.Continuous,
			domain.NewInterval(interval.New(-2, 2)), tol)
		require.NoError(t, err)
		vy, err := domain.NewVariable(1, "y", domain.Continuous,
			domain.NewInterval(interval.New(-2, 2)), tol)
		require.NoError(t, err)
		scope := domain.NewScope(vx, vy)

		d := dag.New()
		circle := tb.Sub(tb.Add(tb.Sqr(tb.Var(0)), tb.Sqr(tb.Var(1))), tb.Num(1))
		line := tb.Sub(tb.Var(1), tb.Var(0))
		f1 := flatfn.NewDagFun(d, d.Compile(circle), scope).WithImage(interval.Degenerate(0))
		f2 := flatfn.NewDagFun(d, d.Compile(line), scope).WithImage(interval.Degenerate(0))

		prop := propagator.New(contractor.Pool{contractor.NewHC4(f1), contractor.NewHC4(f2)})
		res := Solve(domain.NewDomainBox(scope), Options{
			Prop:   prop,
			Split:  &LargestWidth{},
			Limits: Limits{Nodes: 100000},
		})
		require.False(t, res.Partial)
		return res.Solutions
	}

	a, b := run(), run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, a[i].Cert, b[i].Cert, "solution %d certificate", i)
		for _, id := range []int{0, 1} {
			av, err := a[i].Box.At(id)
			require.NoError(t, err)
			bv, err := b[i].Box.At(id)
			require.NoError(t, err)
			require.Equal(t, av.Hull(), bv.Hull(), "solution %d variable %d", i, id)
		}
	}
}
