// Package match assigns each segmented tile a canonical catalog name by
// nearest-neighbor search over the reference database.
//
// Two strategies exist, chosen by pipeline variant. HashMatcher compares
// perceptual hashes by Hamming distance (lists whose reference data ships as
// hashes). PixelMatcher first narrows candidates to the tile's background
// color category and then runs a two-stage pixel comparison: a cheap mean
// absolute difference, escalating to a slower shift-tolerant score only when
// the two best fast scores are too close to call.
package match

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/refdb"
)

// ErrNoCandidates reports an empty candidate set for a tile. The matcher
// never fabricates a name, so this aborts the scan.
var ErrNoCandidates = errors.New("no match candidates")

// Matcher assigns a reference entry to a tile.
type Matcher interface {
	Match(tile gocv.Mat) (*refdb.Entry, error)
}
