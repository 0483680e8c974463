package affine

import (
	"testing"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/stretchr/testify/require"
)

func TestFromIntervalRoundTrip(t *testing.T) {
	x := interval.New(2, 6)
	f := FromInterval(x, 0)
	require.InDelta(t, 4, f.Centre, 1e-9)
	got := f.ToInterval()
	require.InDelta(t, x.Lo, got.Lo, 1e-9)
	require.InDelta(t, x.Hi, got.Hi, 1e-9)
}

func TestAddSub(t *testing.T) {
	x := FromInterval(interval.New(0, 2), 0)
	y := FromInterval(interval.New(0, 2), 1)
	sum := Add(x, y)
	require.InDelta(t, 2, sum.Centre, 1e-9)
	iv := sum.ToInterval()
	require.InDelta(t, 0, iv.Lo, 1e-9)
	require.InDelta(t, 4, iv.Hi, 1e-9)

	same := Sub(x, x)
	require.InDelta(t, 0, same.ToInterval().Lo, 1e-9)
	require.InDelta(t, 0, same.ToInterval().Hi, 1e-9)
}

func TestMulIntroducesNoiseTerm(t *testing.T) {
	x := FromInterval(interval.New(1, 3), 0)
	y := FromInterval(interval.New(1, 3), 1)
	p := Mul(x, y, 2)
	iv := p.ToInterval()
	require.True(t, iv.Lo <= 1 && iv.Hi >= 9, "product enclosure must contain [1,9], got %v", iv)
	require.Contains(t, p.Coeffs, 2)
}

func TestSqrEnclosureContainsTrueRange(t *testing.T) {
	dom := interval.New(-2, 3)
	x := FromInterval(dom, 0)
	sq := Sqr(x, dom, MinRange, 1)
	iv := sq.ToInterval()
	require.True(t, iv.Lo <= 0, "must contain the true minimum 0, got %v", iv)
	require.True(t, iv.Hi >= 9, "must contain the true maximum 9, got %v", iv)
}

func TestReviseInnerEmptyMaybe(t *testing.T) {
	f := Form{Centre: 5, Coeffs: map[int]float64{0: 1}}
	c, _ := Revise(f, interval.New(0, 10))
	require.Equal(t, cert.Inner, c)

	c2, _ := Revise(f, interval.New(100, 200))
	require.Equal(t, cert.Empty, c2)

	c3, updates := Revise(f, interval.New(4, 4.5))
	require.Equal(t, cert.Maybe, c3)
	require.Contains(t, updates, 0)
	require.True(t, updates[0].IsSubset(interval.New(-1, 1)))
}
