package dedupe

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/grid"
)

// tile creates a uniform 16x16 tile of the given intensity.
func tile(v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 16, 16, gocv.MatTypeCV8UC3)
}

func row(vals ...float64) grid.Row {
	r := make(grid.Row, len(vals))
	for i, v := range vals {
		r[i] = tile(v)
	}
	return r
}

func TestOfferIdempotent(t *testing.T) {
	s := NewSuppressor(2, 15)
	defer s.Close()

	first := row(10, 60, 110, 160)
	require.True(t, s.Offer(first))
	require.Equal(t, 4, s.Len())

	// The exact same row again must be suppressed.
	replay := row(10, 60, 110, 160)
	require.False(t, s.Offer(replay))
	replay.Close()
	require.Equal(t, 4, s.Len())
}

func TestOfferNearDuplicateWithinThreshold(t *testing.T) {
	s := NewSuppressor(2, 15)
	defer s.Close()

	require.True(t, s.Offer(row(10, 60, 110, 160)))

	// Small pixel drift, as produced by sub-pixel scrolling.
	drift := row(14, 64, 114, 164)
	require.False(t, s.Offer(drift))
	drift.Close()
}

func TestOfferCatchesStutterTwoRowsBack(t *testing.T) {
	s := NewSuppressor(2, 15)
	defer s.Close()

	require.True(t, s.Offer(row(10, 60, 110, 160)))
	require.True(t, s.Offer(row(210, 240, 20, 90)))

	// Row 1 reappears after a stutter: still suppressed via the second window.
	stutter := row(10, 60, 110, 160)
	require.False(t, s.Offer(stutter))
	stutter.Close()
	require.Equal(t, 8, s.Len())
}

func TestOfferAcceptsNewContent(t *testing.T) {
	s := NewSuppressor(3, 15)
	defer s.Close()

	require.True(t, s.Offer(row(10, 60, 110, 160)))
	require.True(t, s.Offer(row(200, 150, 100, 50)))
	require.Equal(t, 8, s.Len())
}

func TestOfferShortHistoryAccepts(t *testing.T) {
	s := NewSuppressor(2, 15)
	defer s.Close()

	// Only one tile of history; candidate row of four is accepted unchecked.
	require.True(t, s.Offer(row(10)))
	require.True(t, s.Offer(row(10, 10, 10, 10)))
}

func TestStutteredScrollYieldsDistinctRows(t *testing.T) {
	// A 4-row scroll where row 3 repeats due to a stutter: exactly 3 rows kept.
	s := NewSuppressor(2, 15)
	defer s.Close()

	rows := []grid.Row{
		row(10, 20, 30, 40),
		row(60, 70, 80, 90),
		row(110, 120, 130, 140),
		row(110, 120, 130, 140), // stutter
	}
	accepted := 0
	for _, r := range rows {
		if s.Offer(r) {
			accepted++
		} else {
			r.Close()
		}
	}
	require.Equal(t, 3, accepted)
	require.Equal(t, 12, s.Len())
}
