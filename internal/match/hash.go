package match

import (
	"fmt"
	"math"

	"github.com/corona10/goimagehash"
	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/refdb"
)

// HashParams configures perceptual hashing of tiles.
type HashParams struct {
	// Hash resolution. goimagehash requires width*height to be a power of
	// two, and the serialized form stores whole 64-bit words.
	HashWidth  int
	HashHeight int
}

// DefaultHashParams returns the hash resolution the reference hashes are
// generated at: 16x16 gives 256 bits, enough to separate cover art that
// differs only in small foreground details. Tile hashes must use the same
// resolution or Hamming distances are undefined.
func DefaultHashParams() HashParams {
	return HashParams{HashWidth: 16, HashHeight: 16}
}

// HashMatcher finds the reference entry with the minimum Hamming distance to
// the tile's perceptual hash. Perceptual hashing is robust enough here that
// the single nearest neighbor is trusted; ties keep the first minimum found.
type HashMatcher struct {
	entries []*refdb.Entry
	p       HashParams
}

// NewHashMatcher creates a matcher over the database's hash-backed entries.
func NewHashMatcher(db *refdb.Database, p HashParams) *HashMatcher {
	var entries []*refdb.Entry
	for _, e := range db.Entries() {
		if e.Hash != nil {
			entries = append(entries, e)
		}
	}
	return &HashMatcher{entries: entries, p: p}
}

// Match returns the nearest entry by Hamming distance.
func (m *HashMatcher) Match(tile gocv.Mat) (*refdb.Entry, error) {
	if len(m.entries) == 0 {
		return nil, fmt.Errorf("%w: no hash-backed entries", ErrNoCandidates)
	}

	img, err := tile.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert tile: %w", err)
	}
	hash, err := goimagehash.ExtPerceptionHash(img, m.p.HashWidth, m.p.HashHeight)
	if err != nil {
		return nil, fmt.Errorf("hash tile: %w", err)
	}

	var best *refdb.Entry
	bestDist := math.MaxInt
	for _, e := range m.entries {
		d, err := e.Hash.Distance(hash)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		if d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best, nil
}
