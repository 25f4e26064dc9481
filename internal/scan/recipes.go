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

// RecipesParams bundles the tuned geometry for the recipe list screen.
type RecipesParams struct {
	Gate  frame.Params
	Grid  grid.BandParams
	Pixel match.PixelParams

	// Duplicate suppression and frame sampling.
	DedupeWindows   int
	DedupeThreshold float64
	FrameStep       int
}

// DefaultRecipesParams returns the geometry measured from 720p captures of
// the recipe list.
func DefaultRecipesParams() RecipesParams {
	return RecipesParams{
		Gate: frame.Params{
			// Left margin inside the list region, beige at every scroll
			// position.
			Probe:      geometry.Span(46, 150, 54, 650),
			Background: colorutil.New(197, 222, 227),
			Tolerance:  12,
			Content:    geometry.Span(45, 110, 730, 720),
		},
		Grid: grid.BandParams{
			LowerBGR:   colorutil.New(185, 215, 218),
			UpperBGR:   colorutil.New(210, 230, 237),
			Activation: 200,
			BandLow:    180,
			BandHigh:   200,
			Columns: []grid.Span{
				{Start: 10, End: 122},
				{Start: 148, End: 260},
				{Start: 285, End: 397},
				{Start: 423, End: 535},
				{Start: 560, End: 672},
			},
			CardTop:             36,
			CardBottom:          148,
			SelectedProbeTop:    -10,
			SelectedProbeBottom: -5,
			SelectedThreshold:   100,
			SelectedTop:         22,
			SelectedBottom:      152,
			SelectedInset:       9,
			TileSize:            112,
		},
		Pixel:           match.DefaultPixelParams(),
		DedupeWindows:   3,
		DedupeThreshold: 15,
		// The recipe list scrolls slowly; every fourth frame is enough.
		FrameStep: 4,
	}
}

// RecipeLoadOptions returns the reference database load options for recipe
// cards: card chrome trimmed off, visually-confusable background categories
// merged into shared candidate lists.
func RecipeLoadOptions(imageDir string) refdb.LoadOptions {
	return refdb.LoadOptions{
		ImageDir:   imageDir,
		ImageTrimY: 28,
		Merge:      [][]string{{"orange", "pink", "yellow"}},
	}
}

// RecipesScanner scans the DIY recipe list screen, matching card images by
// two-stage pixel comparison.
type RecipesScanner struct {
	driver
}

// NewRecipesScanner creates a recipe scanner over the given reference
// database and translation table.
func NewRecipesScanner(db *refdb.Database, table translate.Table, p RecipesParams, log *slog.Logger) (*RecipesScanner, error) {
	gate, err := frame.NewGate(p.Gate)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &RecipesScanner{driver{
		mode:      ModeRecipes,
		gate:      gate,
		segment:   grid.NewBandSegmenter(p.Grid),
		matcher:   match.NewPixelMatcher(db, p.Pixel),
		table:     table,
		step:      p.FrameStep,
		windows:   p.DedupeWindows,
		threshold: p.DedupeThreshold,
		log:       log,
	}}, nil
}
