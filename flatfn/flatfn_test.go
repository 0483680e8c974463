package flatfn

import (
	"testing"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/dag"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
	"github.com/stretchr/testify/require"
)

func mkBox(t *testing.T, lo0, hi0, lo1, hi1 float64) (domain.IntervalBox, domain.Variable, domain.Variable) {
	x, err := domain.NewVariable(0, "x", domain.Continuous, domain.NewInterval(interval.New(lo0, hi0)), domain.DefaultTolerance)
	require.NoError(t, err)
	y, err := domain.NewVariable(1, "y", domain.Continuous, domain.NewInterval(interval.New(lo1, hi1)), domain.DefaultTolerance)
	require.NoError(t, err)
	scope := domain.NewScope(x, y)
	return domain.NewDomainBox(scope).Hull(), x, y
}

func TestDagFunContractNarrows(t *testing.T) {
	b := term.NewBuilder(false)
	e := b.Add(b.Var(0), b.Var(1)) // x + y == 10

	d := dag.New()
	root := d.Compile(e)

	box, x, y := mkBox(t, 0, 100, 0, 1)
	fn := NewDagFun(d, root, domain.NewScope(x, y)).WithImage(interval.New(10, 10))

	out, c := fn.Contract(box)
	require.NotEqual(t, cert.Empty, c)
	xv, _ := out.At(0)
	require.InDelta(t, 9.0, xv.Lo, 1e-6)
	require.InDelta(t, 10.0, xv.Hi, 1e-6)
}

func TestDagFunContractEmpty(t *testing.T) {
	b := term.NewBuilder(false)
	e := b.Var(0)

	d := dag.New()
	root := d.Compile(e)

	box, x, _ := mkBox(t, 0, 1, 0, 1)
	fn := NewDagFun(d, root, domain.NewScope(x)).WithImage(interval.New(5, 6))

	_, c := fn.Contract(box)
	require.Equal(t, cert.Empty, c)
}

func TestDagFunEval(t *testing.T) {
	b := term.NewBuilder(false)
	e := b.Mul(b.Var(0), b.Var(1))

	d := dag.New()
	root := d.Compile(e)

	box, x, y := mkBox(t, 2, 2, 3, 3)
	fn := NewDagFun(d, root, domain.NewScope(x, y))
	got := fn.Eval(box)
	require.InDelta(t, 6.0, got.Lo, 1e-6)
	require.InDelta(t, 6.0, got.Hi, 1e-6)
}
