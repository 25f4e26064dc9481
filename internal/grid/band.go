package grid

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/geometry"
	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// BandParams fixes the geometry for separator-band row detection.
type BandParams struct {
	// Background color window for the separator mask.
	LowerBGR colorutil.BGR
	UpperBGR colorutil.BGR

	// Activation is the row-mean level above which a pixel row counts as
	// background separator.
	Activation float64

	// A transition pair is one card band when its gap falls in
	// (BandLow, BandHigh).
	BandLow, BandHigh int

	// Columns holds the fixed horizontal spans of each card in a row.
	Columns []Span

	// Card crop offsets relative to the band's top transition.
	CardTop, CardBottom int

	// The currently selected card is drawn enlarged: it spills into the strip
	// just above the band, so the mask mean over
	// [top+SelectedProbeTop, top+SelectedProbeBottom) drops below
	// SelectedThreshold. The crop is then widened by SelectedInset on both
	// sides, taken from SelectedTop to SelectedBottom, and resized back down.
	SelectedProbeTop    int
	SelectedProbeBottom int
	SelectedThreshold   float64
	SelectedTop         int
	SelectedBottom      int
	SelectedInset       int

	// TileSize is the normalized square tile edge length.
	TileSize int
}

// BandSegmenter extracts tile rows directly from separator band pairs.
type BandSegmenter struct {
	p BandParams
}

// NewBandSegmenter creates a segmenter with the given geometry.
func NewBandSegmenter(p BandParams) *BandSegmenter {
	return &BandSegmenter{p: p}
}

// Rows segments the content region into tile rows. Every tile is normalized
// to TileSize×TileSize, including the enlarged selected card. Rows whose
// crops would leave the region are skipped; fewer than two transitions
// yields no rows. Both are normal outcomes, not errors.
func (s *BandSegmenter) Rows(region gocv.Mat) []Row {
	p := s.p

	mask := matutil.BackgroundMask(region, p.LowerBGR, p.UpperBGR)
	defer mask.Close()

	edges := transitions(mask, p.Activation)
	if len(edges) < 2 {
		return nil
	}

	var rows []Row
	for i := 0; i+1 < len(edges); i++ {
		y1, y2 := edges[i], edges[i+1]
		if gap := y2 - y1; gap <= p.BandLow || gap >= p.BandHigh {
			continue // Not a card band
		}
		if row, ok := s.cutRow(region, mask, y1); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// cutRow cuts all column tiles for the band starting at y1.
// Returns ok=false if any crop would leave the region.
func (s *BandSegmenter) cutRow(region, mask gocv.Mat, y1 int) (Row, bool) {
	p := s.p
	w, h := region.Cols(), region.Rows()

	row := make(Row, 0, len(p.Columns))
	for _, col := range p.Columns {
		crop := geometry.Span(col.Start, y1+p.CardTop, col.End, y1+p.CardBottom)
		resize := false

		if y1+p.SelectedProbeTop >= 0 {
			probe := geometry.Span(col.Start, y1+p.SelectedProbeTop, col.End, y1+p.SelectedProbeBottom)
			if matutil.RegionMean(mask, probe) < p.SelectedThreshold {
				// Selected card: enlarged crop, resized back to tile size.
				crop = geometry.Span(col.Start-p.SelectedInset, y1+p.SelectedTop,
					col.End+p.SelectedInset, y1+p.SelectedBottom)
				resize = true
			}
		}

		if !crop.In(w, h) {
			row.Close()
			return nil, false
		}

		src := region.Region(crop.ToImageRect())
		if resize {
			tile := gocv.NewMat()
			gocv.Resize(src, &tile, image.Pt(p.TileSize, p.TileSize), 0, 0, gocv.InterpolationLinear)
			row = append(row, tile)
		} else {
			row = append(row, src.Clone())
		}
		src.Close()
	}
	return row, true
}
