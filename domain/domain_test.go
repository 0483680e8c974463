package domain

import (
	"testing"

	"github.com/realpaver-go/ncsp/interval"
	"github.com/stretchr/testify/require"
)

func TestNewVariableEmptyDomain(t *testing.T) {
	_, err := NewVariable(0, "x", Continuous, NewInterval(interval.Empty()), DefaultTolerance)
	require.ErrorIs(t, err, ErrEmptyDomain)
}

func TestScopeMembership(t *testing.T) {
	x, _ := NewVariable(0, "x", Continuous, NewInterval(interval.New(-1, 1)), DefaultTolerance)
	y, _ := NewVariable(1, "y", Continuous, NewInterval(interval.New(-1, 1)), DefaultTolerance)
	s := NewScope(x, y)
	require.Equal(t, 2, s.Len())
	require.True(t, s.Contains(1))
	require.False(t, s.Contains(5))
	idx, ok := s.IndexOf(1)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestScopeDuplicatePanics(t *testing.T) {
	x, _ := NewVariable(0, "x", Continuous, NewInterval(interval.New(-1, 1)), DefaultTolerance)
	require.Panics(t, func() { NewScope(x, x) })
}

func TestIntRangeIntersectHull(t *testing.T) {
	d := NewIntRange(0, 10)
	narrowed := d.IntersectHull(interval.New(1.5, 5.5))
	vals, err := narrowed.IntValues()
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 4, 5}, vals)
}

func TestIntSetIntersectHull(t *testing.T) {
	d := NewIntSet(0, 1, 2, 3, 4, 5, 6)
	narrowed := d.IntersectHull(interval.New(2, 4))
	vals, err := narrowed.IntValues()
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 4}, vals)
}

func TestIntervalUnionReintroducesGap(t *testing.T) {
	d := NewIntervalUnion(interval.New(0, 2), interval.New(5, 7))
	require.Equal(t, KindIntervalUnion, d.Kind())
	require.Equal(t, interval.New(0, 7), d.Hull())

	narrowed := d.IntersectHull(interval.New(1, 6))
	require.Equal(t, interval.New(1, 6), narrowed.Hull())
	require.False(t, narrowed.Contains(3.5), "gap between the two original pieces must not reappear")
	require.True(t, narrowed.Contains(1.5))
	require.True(t, narrowed.Contains(5.5))
}

func TestDomainBoxCloneIndependence(t *testing.T) {
	x, _ := NewVariable(0, "x", Continuous, NewInterval(interval.New(-1, 1)), DefaultTolerance)
	scope := NewScope(x)
	b := NewDomainBox(scope)
	c := b.Clone()
	require.NoError(t, c.SetAt(0, NewInterval(interval.New(0, 1))))

	orig, _ := b.At(0)
	changed, _ := c.At(0)
	require.Equal(t, interval.New(-1, 1), orig.Hull())
	require.Equal(t, interval.New(0, 1), changed.Hull())
}

func TestIntervalBoxWidestIndex(t *testing.T) {
	x, _ := NewVariable(0, "x", Continuous, NewInterval(interval.New(-1, 1)), DefaultTolerance)
	y, _ := NewVariable(1, "y", Continuous, NewInterval(interval.New(-10, 10)), DefaultTolerance)
	scope := NewScope(x, y)
	b := NewIntervalBox(scope)
	require.Equal(t, 1, b.WidestIndex([]int{0, 1}))
}

func TestIntervalBoxIsSubset(t *testing.T) {
	x, _ := NewVariable(0, "x", Continuous, NewInterval(interval.New(-10, 10)), DefaultTolerance)
	scope := NewScope(x)
	full := NewIntervalBox(scope)
	narrow := full.Clone()
	require.NoError(t, narrow.SetAt(0, interval.New(0, 1)))
	require.True(t, narrow.IsSubset(full))
	require.False(t, full.IsSubset(narrow))
}

// TestSplitPointShrinksIntegerDomains guards the branch-and-prune
// termination argument: cutting a discrete domain at its SplitPoint
// and re-rounding both halves must leave each child strictly smaller
// than the parent.
func TestSplitPointShrinksIntegerDomains(t *testing.T) {
	d := NewIntRange(1, 2)
	p := d.SplitPoint()
	left := d.IntersectHull(interval.New(d.Hull().Lo, p))
	right := d.IntersectHull(interval.New(p, d.Hull().Hi))
	require.Equal(t, 0.0, left.Width())
	require.Equal(t, 0.0, right.Width())
	require.True(t, left.Contains(1))
	require.True(t, right.Contains(2))

	wide := NewIntRange(0, 6)
	p = wide.SplitPoint()
	l := wide.IntersectHull(interval.New(wide.Hull().Lo, p))
	r := wide.IntersectHull(interval.New(p, wide.Hull().Hi))
	require.Less(t, l.Width(), wide.Width())
	require.Less(t, r.Width(), wide.Width())
	require.InDelta(t, wide.Width()-1, l.Width()+r.Width(), 1e-12)
}
