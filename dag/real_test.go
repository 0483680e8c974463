package dag

import (
	"math"
	"testing"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
	"github.com/stretchr/testify/require"
)

func pointLookup(vals map[int]float64) RealLookup {
	return func(id int) float64 { return vals[id] }
}

func TestEvalRealMatchesExpression(t *testing.T) {
	b := term.NewBuilder(false)
	x, y := b.Var(0), b.Var(1)
	// x*exp(y) + sqrt(x) at (4, 0) = 4 + 2
	e := b.Add(b.Mul(x, b.Exp(y)), b.Sqrt(x))

	d := New()
	root := d.Compile(e)
	vals := d.EvalReal(pointLookup(map[int]float64{0: 4, 1: 0}))
	require.InDelta(t, 6, vals[root], 1e-12)
}

func TestDiffRealGradient(t *testing.T) {
	b := term.NewBuilder(false)
	x, y := b.Var(0), b.Var(1)
	// f = x^2*y + sin(y); df/dx = 2xy, df/dy = x^2 + cos(y)
	e := b.Add(b.Mul(b.Sqr(x), y), b.Sin(y))

	d := New()
	root := d.Compile(e)
	pt := map[int]float64{0: 3, 1: 2}
	rvals := d.EvalReal(pointLookup(pt))
	grad := d.DiffReal(root, rvals)
	require.InDelta(t, 2*3*2, grad[0], 1e-12)
	require.InDelta(t, 9+math.Cos(2), grad[1], 1e-12)
}

func TestDiffRealSharedSubterm(t *testing.T) {
	b := term.NewBuilder(false)
	x := b.Var(0)
	// f = (x*x) + sin(x*x); the Mul node is hash-consed, so its adjoint
	// must accumulate both parents: df/dx = 2x*(1 + cos(x^2)).
	sub := b.Mul(x, x)
	e := b.Add(sub, b.Sin(sub))

	d := New()
	root := d.Compile(e)
	pt := map[int]float64{0: 2}
	rvals := d.EvalReal(pointLookup(pt))
	grad := d.DiffReal(root, rvals)
	require.InDelta(t, 2*2*(1+math.Cos(4)), grad[0], 1e-12)
}

func TestHC4ReviseNegBoundedImage(t *testing.T) {
	b := term.NewBuilder(false)
	e := b.Var(0)

	d := New()
	root := d.Compile(e)

	// Negation of x in [1.5, 5.5] over x in [0, 10]: the complement
	// projections are [0, 1.5) and (5.5, 10], whose union spans the
	// whole original domain minus the middle — the notify hull is
	// [0, 10], and the certificate stays Maybe.
	got := map[int]interval.Interval{}
	c := d.HC4ReviseNeg(root, interval.New(1.5, 5.5),
		boxLookup(map[int]interval.Interval{0: interval.New(0, 10)}),
		func(id int, x interval.Interval) { got[id] = x })
	require.Equal(t, cert.Maybe, c)
	require.InDelta(t, 0, got[0].Lo, 1e-12)
	require.InDelta(t, 10, got[0].Hi, 1e-12)

	// Over x in [2, 5] the complement is unreachable: the original
	// constraint holds everywhere, so its negation is Empty.
	c = d.HC4ReviseNeg(root, interval.New(1.5, 5.5),
		boxLookup(map[int]interval.Interval{0: interval.New(2, 5)}),
		func(int, interval.Interval) {})
	require.Equal(t, cert.Empty, c)

	// Over x in [7, 10] every point violates the constraint: Inner.
	c = d.HC4ReviseNeg(root, interval.New(1.5, 5.5),
		boxLookup(map[int]interval.Interval{0: interval.New(7, 10)}),
		func(int, interval.Interval) {})
	require.Equal(t, cert.Inner, c)
}

func TestHC4ReviseNegHalfLineImage(t *testing.T) {
	b := term.NewBuilder(false)
	e := b.Sub(b.Var(0), b.Var(1)) // x - y >= 0

	d := New()
	root := d.Compile(e)
	image := interval.New(0, math.Inf(1))

	// Negation is x - y < 0: over x in [6, 9], y in [0, 4] the single
	// complement half-line pass finds no violating point.
	got := map[int]interval.Interval{}
	c := d.HC4ReviseNeg(root, image,
		boxLookup(map[int]interval.Interval{
			0: interval.New(6, 9),
			1: interval.New(0, 4),
		}),
		func(id int, x interval.Interval) { got[id] = x })
	// x - y in [2, 9]: never negative, negation infeasible.
	require.Equal(t, cert.Empty, c)
	require.Empty(t, got)
}
