package scan

import (
	"fmt"
	"log/slog"
	"sort"

	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/dedupe"
	"github.com/tmartin357/CatalogScanner/internal/frame"
	"github.com/tmartin357/CatalogScanner/internal/grid"
	"github.com/tmartin357/CatalogScanner/internal/match"
	"github.com/tmartin357/CatalogScanner/internal/translate"
	"github.com/tmartin357/CatalogScanner/internal/video"
	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/geometry"
	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// rowSegmenter is the strategy half of the driver: both grid segmenters
// satisfy it.
type rowSegmenter interface {
	Rows(region gocv.Mat) []grid.Row
}

// blankFilter drops tiles that show only list background, such as the empty
// slots at the end of a partially filled row.
type blankFilter struct {
	probe      geometry.Rect
	background colorutil.BGR
	tolerance  float64
}

func (b *blankFilter) isBlank(tile gocv.Mat) bool {
	return matutil.RegionMeanBGR(tile, b.probe).Within(b.background, b.tolerance)
}

// driver runs the shared pipeline: gate, segment, suppress, match, translate.
// The mode scanners embed it and differ only in configuration.
type driver struct {
	mode    Mode
	gate    *frame.Gate
	segment rowSegmenter
	matcher match.Matcher
	table   translate.Table

	// step processes only every step-th frame; 1 processes all.
	step int

	// Duplicate suppression window count and pixel threshold.
	windows   int
	threshold float64

	// blank, when set, filters background-only tiles before matching.
	blank *blankFilter

	log *slog.Logger
}

// Mode implements Scanner.
func (d *driver) Mode() Mode { return d.mode }

// Detect implements Scanner.
func (d *driver) Detect(f gocv.Mat) bool { return d.gate.Detect(f) }

// Scan implements Scanner. Frames are consumed in order on the calling
// goroutine; a resolution mismatch aborts the whole scan.
func (d *driver) Scan(src video.Source, opts Options) (*Result, error) {
	locale, err := translate.Resolve(opts.Locale)
	if err != nil {
		return nil, err
	}

	sup := dedupe.NewSuppressor(d.windows, d.threshold)
	defer sup.Close()

	f := gocv.NewMat()
	defer f.Close()

	frames, kept := 0, 0
	for ; ; frames++ {
		ok, err := src.Next(&f)
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", frames, err)
		}
		if !ok {
			break
		}
		if err := d.gate.Check(f); err != nil {
			return nil, err
		}
		if d.step > 1 && frames%d.step != 0 {
			continue
		}
		if !d.gate.Detect(f) {
			continue
		}
		kept++

		region := d.gate.Crop(f)
		rows := d.segment.Rows(region)
		region.Close()
		for _, row := range rows {
			if !sup.Offer(row) {
				row.Close()
			}
		}
	}
	d.log.Debug("video consumed",
		"mode", d.mode, "frames", frames, "kept", kept, "tiles", sup.Len())

	seen := make(map[string]bool)
	for _, tile := range sup.Tiles() {
		if d.blank != nil && d.blank.isBlank(tile) {
			continue
		}
		entry, err := d.matcher.Match(tile)
		if err != nil {
			return nil, err
		}
		if opts.ForSale && !entry.ForSale {
			continue
		}
		seen[entry.Name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	items, err := d.table.Translate(names, locale)
	if err != nil {
		return nil, err
	}

	d.log.Info("scan complete", "mode", d.mode, "items", len(items), "locale", locale)
	return &Result{Mode: d.mode, Items: items, Locale: locale}, nil
}
