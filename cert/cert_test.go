package cert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLatticeOrder(t *testing.T) {
	require.True(t, Empty < Maybe)
	require.True(t, Maybe < Feasible)
	require.True(t, Feasible < Inner)
}

func TestMeet(t *testing.T) {
	require.Equal(t, Empty, Meet(Empty, Inner))
	require.Equal(t, Empty, Meet(Inner, Empty))
	require.Equal(t, Maybe, Meet(Maybe, Inner))
	require.Equal(t, Feasible, Meet(Inner, Feasible))
	require.Equal(t, Inner, Meet(Inner, Inner))
}

func TestMonotoneUnder(t *testing.T) {
	// Contraction may only strengthen a certificate, or empty the box.
	require.True(t, MonotoneUnder(Maybe, Inner))
	require.True(t, MonotoneUnder(Inner, Inner))
	require.True(t, MonotoneUnder(Inner, Empty))
	require.False(t, MonotoneUnder(Inner, Maybe))
	require.False(t, MonotoneUnder(Feasible, Maybe))
}
