package match

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/refdb"
	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/geometry"
	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// PixelParams configures two-stage pixel matching.
type PixelParams struct {
	// Probe is the tile corner sampled to classify the card's background
	// category before the pixel comparison.
	Probe geometry.Rect

	// Palette maps category names to their card background colors.
	Palette map[string]colorutil.BGR

	// Margin is the fast-score gap above which the best candidate is
	// accepted without running the slow shift-tolerant comparison.
	Margin float64

	// Shifts are the vertical pixel offsets the slow comparison tries, to
	// compensate for minor segmentation misalignment.
	Shifts []int
}

// DefaultPixelParams returns parameters tuned for 112x112 card tiles from
// 720p captures. The probe sits in the lower card face, below any icon art.
func DefaultPixelParams() PixelParams {
	return PixelParams{
		Probe:   geometry.Span(60, 106, 70, 112),
		Palette: DefaultCardPalette(),
		Margin:  3,
		Shifts:  []int{-2, -1, 0, 1},
	}
}

// DefaultCardPalette returns the known card background colors in BGR.
func DefaultCardPalette() map[string]colorutil.BGR {
	return map[string]colorutil.BGR{
		"beige":      colorutil.New(174, 220, 228),
		"blue":       colorutil.New(229, 213, 189),
		"brick":      colorutil.New(113, 159, 183),
		"brown":      colorutil.New(65, 106, 143),
		"dark-gray":  colorutil.New(110, 108, 108),
		"gold":       colorutil.New(123, 199, 211),
		"green":      colorutil.New(128, 225, 156),
		"light-gray": colorutil.New(188, 188, 187),
		"orange":     colorutil.New(109, 199, 239),
		"pink":       colorutil.New(185, 181, 238),
		"red":        colorutil.New(87, 76, 204),
		"silver":     colorutil.New(163, 160, 159),
		"white":      colorutil.New(229, 233, 233),
		"yellow":     colorutil.New(125, 224, 229),
	}
}

// PixelMatcher matches tiles against image-backed reference entries.
type PixelMatcher struct {
	db *refdb.Database
	p  PixelParams
}

// NewPixelMatcher creates a matcher over the database's category lists.
func NewPixelMatcher(db *refdb.Database, p PixelParams) *PixelMatcher {
	return &PixelMatcher{db: db, p: p}
}

// Match classifies the tile's category and returns its nearest reference
// entry. The cheap mean-difference score decides outright when its winner
// leads the runner-up by more than Margin; otherwise every candidate is
// rescored with the slow shift-tolerant metric and the lowest wins.
func (m *PixelMatcher) Match(tile gocv.Mat) (*refdb.Entry, error) {
	category := m.classify(tile)
	candidates := m.db.Category(category)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: category %q", ErrNoCandidates, category)
	}

	fast := make([]float64, len(candidates))
	bestIdx := 0
	for i, c := range candidates {
		score, err := matutil.MeanAbsDiff(tile, *c.Image)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", c.Name, err)
		}
		fast[i] = score
		if score < fast[bestIdx] {
			bestIdx = i
		}
	}

	if len(candidates) == 1 || fast[runnerUp(fast, bestIdx)]-fast[bestIdx] > m.p.Margin {
		return candidates[bestIdx], nil
	}

	// Ambiguous: rescore with vertical-shift tolerance.
	bestScore := math.Inf(1)
	best := candidates[bestIdx]
	for _, c := range candidates {
		score, err := m.slowScore(tile, *c.Image)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", c.Name, err)
		}
		if score < bestScore {
			bestScore = score
			best = c
		}
	}
	return best, nil
}

// classify returns the palette category nearest the tile's probe color.
func (m *PixelMatcher) classify(tile gocv.Mat) string {
	probe := matutil.RegionMeanBGR(tile, m.p.Probe)
	return colorutil.Nearest(probe, m.p.Palette)
}

// slowScore returns the lowest summed absolute difference across the
// configured vertical shifts of the tile.
func (m *PixelMatcher) slowScore(tile, ref gocv.Mat) (float64, error) {
	best := math.Inf(1)
	for _, dy := range m.p.Shifts {
		shifted := matutil.RollVertical(tile, dy)
		score, err := matutil.SumAbsDiff(shifted, ref)
		shifted.Close()
		if err != nil {
			return 0, err
		}
		if score < best {
			best = score
		}
	}
	return best, nil
}

// runnerUp returns the index of the smallest fast score other than bestIdx.
func runnerUp(scores []float64, bestIdx int) int {
	second := -1
	for i := range scores {
		if i == bestIdx {
			continue
		}
		if second == -1 || scores[i] < scores[second] {
			second = i
		}
	}
	if second == -1 {
		return bestIdx
	}
	return second
}
