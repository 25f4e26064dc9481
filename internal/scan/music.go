package scan

import (
	"log/slog"

	"github.com/tmartin357/CatalogScanner/internal/frame"
	"github.com/tmartin357/CatalogScanner/internal/grid"
	"github.com/tmartin357/CatalogScanner/internal/match"
	"github.com/tmartin357/CatalogScanner/internal/refdb"
	"github.com/tmartin357/CatalogScanner/internal/translate"
	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/geometry"
)

// MusicParams bundles the tuned geometry for the music list screen.
type MusicParams struct {
	Gate frame.Params
	Grid grid.PhaseParams
	Hash match.HashParams

	// Blank-slot detection: the last row of the list is usually only
	// partially filled, leaving background-colored tiles.
	BlankProbe     geometry.Rect
	BlankTolerance float64

	// Duplicate suppression and frame sampling.
	DedupeWindows   int
	DedupeThreshold float64
	FrameStep       int
}

// musicBackground is the sky-blue fill of the music list screen.
var musicBackground = colorutil.New(238, 217, 101)

// DefaultMusicParams returns the geometry measured from 720p captures of the
// music list.
func DefaultMusicParams() MusicParams {
	return MusicParams{
		Gate: frame.Params{
			// Top-right corner, clear of the cursor and all overlays.
			Probe:      geometry.Span(1220, 0, 1250, 20),
			Background: musicBackground,
			Tolerance:  10,
			Content:    geometry.Span(40, 95, 1240, 670),
		},
		Grid: grid.PhaseParams{
			LowerBGR: colorutil.New(210, 200, 75),
			UpperBGR: colorutil.New(255, 235, 125),
			// Below row 410 the hover text can cover the separators.
			MaskRows:      410,
			Activation:    100,
			Period:        287,
			TileSize:      260,
			Columns:       []int{40, 327, 614, 900},
			GapLow:        259,
			GapHigh:       266,
			WrapLow:       20,
			WrapHigh:      27,
			SeparatorRise: 25,
			PhaseBias:     1,
		},
		Hash:            match.DefaultHashParams(),
		BlankProbe:      geometry.Span(60, 5, 200, 25),
		BlankTolerance:  5,
		DedupeWindows:   2,
		DedupeThreshold: 15,
		FrameStep:       1,
	}
}

// MusicScanner scans the music list screen, matching cover art by
// perceptual hash.
type MusicScanner struct {
	driver
}

// NewMusicScanner creates a music scanner over the given reference database
// and translation table.
func NewMusicScanner(db *refdb.Database, table translate.Table, p MusicParams, log *slog.Logger) (*MusicScanner, error) {
	gate, err := frame.NewGate(p.Gate)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &MusicScanner{driver{
		mode:      ModeMusic,
		gate:      gate,
		segment:   grid.NewPhaseSegmenter(p.Grid),
		matcher:   match.NewHashMatcher(db, p.Hash),
		table:     table,
		step:      p.FrameStep,
		windows:   p.DedupeWindows,
		threshold: p.DedupeThreshold,
		blank: &blankFilter{
			probe:      p.BlankProbe,
			background: p.Gate.Background,
			tolerance:  p.BlankTolerance,
		},
		log: log,
	}}, nil
}
