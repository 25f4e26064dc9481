package grid

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/geometry"
	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// PhaseParams fixes the geometry for phase-periodic row detection.
// The grid has a known row period but a playback-dependent vertical phase,
// so the phase is estimated per frame instead of being hardcoded.
type PhaseParams struct {
	// Background color window for the separator mask.
	LowerBGR colorutil.BGR
	UpperBGR colorutil.BGR

	// MaskRows limits separator detection to the top rows of the region,
	// where the grid is never obscured by overlays. 0 means the whole region.
	MaskRows int

	// Activation is the row-mean level above which a pixel row counts as
	// background separator.
	Activation float64

	// Period is the vertical distance between consecutive row starts, and
	// TileSize the square tile edge length.
	Period   int
	TileSize int

	// Columns holds the fixed x positions of each tile in a row.
	Columns []int

	// A pair of consecutive transitions is only trusted when its gap matches
	// the known geometry: (GapLow, GapHigh) brackets the card-content gap and
	// (WrapLow, WrapHigh) the separator band itself. SeparatorRise is the
	// distance from a separator's leading edge to the next row start.
	GapLow, GapHigh   int
	WrapLow, WrapHigh int
	SeparatorRise     int

	// PhaseBias is added to the averaged phase to compensate for the
	// half-pixel skew of the mask transitions.
	PhaseBias float64
}

// PhaseSegmenter extracts tile rows using per-frame phase estimation.
type PhaseSegmenter struct {
	p PhaseParams
}

// NewPhaseSegmenter creates a segmenter with the given geometry.
func NewPhaseSegmenter(p PhaseParams) *PhaseSegmenter {
	return &PhaseSegmenter{p: p}
}

// Rows segments the content region into tile rows.
//
// The phase candidates contributed by every trusted transition pair are
// folded modulo the row period and averaged into a single stable phase for
// the whole frame; rows are then generated at the fixed period from that
// phase. A frame with fewer than two transitions (or none in the trusted
// gap ranges) yields no rows, which is normal, not an error.
func (s *PhaseSegmenter) Rows(region gocv.Mat) []Row {
	p := s.p

	scan := region
	if p.MaskRows > 0 && p.MaskRows < region.Rows() {
		scan = region.RowRange(0, p.MaskRows)
		defer scan.Close()
	}
	mask := matutil.BackgroundMask(scan, p.LowerBGR, p.UpperBGR)
	defer mask.Close()

	edges := transitions(mask, p.Activation)
	if len(edges) < 2 {
		return nil
	}

	var offsets []float64
	for i := 0; i+1 < len(edges); i++ {
		y1, y2 := edges[i], edges[i+1]
		gap := y2 - y1
		switch {
		case p.GapLow < gap && gap < p.GapHigh:
			// y1 ends a separator, y2 starts the next one.
			offsets = append(offsets,
				float64(y1%p.Period), float64((y2+p.SeparatorRise)%p.Period))
		case p.WrapLow < gap && gap < p.WrapHigh:
			// The pair brackets a separator band.
			offsets = append(offsets,
				float64(y2%p.Period), float64((y1+p.SeparatorRise)%p.Period))
		}
	}
	if len(offsets) == 0 {
		return nil
	}

	phase := stat.Mean(offsets, nil) + p.PhaseBias

	var rows []Row
	for yf := phase; yf < float64(region.Rows()); yf += float64(p.Period) {
		y := int(yf)
		if y+p.TileSize > region.Rows() {
			continue // Past the bottom of the region
		}
		row := make(Row, 0, len(p.Columns))
		for _, x := range p.Columns {
			r := geometry.NewRect(x, y, p.TileSize, p.TileSize)
			tile := region.Region(r.ToImageRect())
			row = append(row, tile.Clone())
			tile.Close()
		}
		rows = append(rows, row)
	}
	return rows
}
