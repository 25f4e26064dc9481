// Package dedupe suppresses re-captured tile rows during slow or paused
// scrolling.
//
// Natural scrolling makes each new frame's rows overlap the previous frame's
// at sub-pixel offsets, so a freshly segmented row that pixel-matches any of
// the most recently accepted rows is a replay, not new content. Comparing
// against the last few row-widths of history (not just the immediately prior
// row) also catches rows that reappear after a brief stutter, without
// needing frame-accurate timestamps.
package dedupe

import (
	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/grid"
	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// Suppressor accumulates accepted tiles and rejects replayed rows.
type Suppressor struct {
	history []gocv.Mat

	// windows is how many trailing row-width windows of history each
	// candidate is compared against.
	windows int

	// threshold is the mean absolute pixel difference below which a
	// candidate row counts as a replay of a history window.
	threshold float64
}

// NewSuppressor creates a suppressor comparing candidates against the given
// number of trailing history windows at the given similarity threshold.
func NewSuppressor(windows int, threshold float64) *Suppressor {
	return &Suppressor{windows: windows, threshold: threshold}
}

// Offer submits a candidate row. If the row replays recent history it is
// rejected and the caller keeps ownership of its tiles; otherwise the
// suppressor takes ownership and appends them to the history.
func (s *Suppressor) Offer(row grid.Row) bool {
	if len(row) == 0 || s.isDuplicate(row) {
		return false
	}
	s.history = append(s.history, row...)
	return true
}

// isDuplicate compares the candidate against each of the trailing history
// windows. Tiles all share one size, so the mean difference over the
// concatenated row equals the average of the per-tile mean differences.
func (s *Suppressor) isDuplicate(row grid.Row) bool {
	n := len(row)
	if len(s.history) < n {
		return false // Not enough history to compare
	}

	for w := 1; w <= s.windows; w++ {
		end := len(s.history) - (w-1)*n
		start := end - n
		if start < 0 {
			break // History shorter than this window
		}

		var total float64
		ok := true
		for i, tile := range row {
			d, err := matutil.MeanAbsDiff(tile, s.history[start+i])
			if err != nil {
				ok = false // Window has differently-sized tiles
				break
			}
			total += d
		}
		if ok && total/float64(n) < s.threshold {
			return true
		}
	}
	return false
}

// Tiles returns the accepted tile history in acceptance order.
// The suppressor retains ownership.
func (s *Suppressor) Tiles() []gocv.Mat {
	return s.history
}

// Len returns the number of accepted tiles.
func (s *Suppressor) Len() int {
	return len(s.history)
}

// Close releases all accepted tiles.
func (s *Suppressor) Close() {
	for i := range s.history {
		s.history[i].Close()
	}
	s.history = nil
}
