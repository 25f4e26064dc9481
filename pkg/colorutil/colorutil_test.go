package colorutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	a := New(10, 20, 30)
	require.Equal(t, 0.0, a.Distance(a))
	require.InDelta(t, 5.0, a.Distance(New(13, 24, 30)), 1e-9)
}

func TestWithin(t *testing.T) {
	bg := New(238, 217, 101)
	require.True(t, New(240, 215, 99).Within(bg, 10))
	require.False(t, New(200, 215, 99).Within(bg, 10))
}

func TestNearest(t *testing.T) {
	palette := map[string]BGR{
		"orange": New(109, 199, 239),
		"pink":   New(185, 181, 238),
		"red":    New(87, 76, 204),
	}
	require.Equal(t, "pink", Nearest(New(180, 180, 240), palette))
	require.Equal(t, "red", Nearest(New(90, 80, 200), palette))
	require.Equal(t, "", Nearest(New(0, 0, 0), map[string]BGR{}))
}

func TestNearestTieIsStable(t *testing.T) {
	// Two entries at the exact same distance from the sample. Map iteration
	// order varies between runs, so the winner must come from the sorted
	// key order instead.
	palette := map[string]BGR{
		"zinc":  New(100, 100, 110),
		"amber": New(100, 100, 90),
	}
	for i := 0; i < 50; i++ {
		require.Equal(t, "amber", Nearest(New(100, 100, 100), palette))
	}
}
