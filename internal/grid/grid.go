// Package grid segments the cropped list region of a frame into rows of
// fixed-size card tiles.
//
// The game draws cards on a fixed grid separated by horizontal bands of
// background color. Row boundaries are recovered per frame by thresholding
// the region against the background color range, averaging the mask across
// each pixel row, and locating the transitions of that 1-D signal. Two row
// strategies exist: PhaseSegmenter derives a periodic row phase from the
// transition gaps (scrolling lists whose rows drift vertically), while
// BandSegmenter takes each plausible transition pair directly as one card
// band (lists whose rows snap to separators).
package grid

import (
	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// Row is one ordered set of card tiles cut from a single grid row.
// Tiles are cloned out of the source region; the receiver owns them.
type Row []gocv.Mat

// Close releases all tiles in the row.
func (r Row) Close() {
	for i := range r {
		r[i].Close()
	}
}

// Span is a half-open horizontal pixel range [Start, End).
type Span struct {
	Start int
	End   int
}

// Width returns the span width.
func (s Span) Width() int { return s.End - s.Start }

// transitions returns the y positions where the row-mean of the mask crosses
// the activation threshold, i.e. the boundaries between background separator
// bands and card content. Mirrors diff(rowMeans > activation) != 0.
func transitions(mask gocv.Mat, activation float64) []int {
	means := matutil.RowMeans(mask)
	var edges []int
	for y := 0; y+1 < len(means); y++ {
		if (means[y] > activation) != (means[y+1] > activation) {
			edges = append(edges, y)
		}
	}
	return edges
}
