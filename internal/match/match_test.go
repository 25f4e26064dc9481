package match

import (
	"image"
	"image/color"
	"testing"

	"github.com/corona10/goimagehash"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/refdb"
	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// cardTile builds a 112x112 tile filled with the given background color and
// a gray icon square at the given position.
func cardTile(bg colorutil.BGR, iconX, iconY int, iconVal uint8) gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(bg.B, bg.G, bg.R, 0), 112, 112, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&m, image.Rect(iconX, iconY, iconX+40, iconY+40),
		color.RGBA{R: iconVal, G: iconVal, B: iconVal, A: 255}, -1)
	return m
}

func entry(name, category string, img gocv.Mat) *refdb.Entry {
	return &refdb.Entry{Name: name, Category: category, ForSale: true, Image: &img}
}

func TestHashMatcherNearest(t *testing.T) {
	palette := DefaultCardPalette()
	imgA := cardTile(palette["red"], 20, 20, 255)
	defer imgA.Close()
	imgB := cardTile(palette["red"], 60, 60, 0)
	defer imgB.Close()

	p := DefaultHashParams()
	hashFor := func(m gocv.Mat) *goimagehash.ExtImageHash {
		img, err := m.ToImage()
		require.NoError(t, err)
		h, err := goimagehash.ExtPerceptionHash(img, p.HashWidth, p.HashHeight)
		require.NoError(t, err)
		return h
	}

	db := refdb.New([]*refdb.Entry{
		{Name: "alpha", Category: "red", Hash: hashFor(imgA)},
		{Name: "beta", Category: "red", Hash: hashFor(imgB)},
	}, nil)

	m := NewHashMatcher(db, p)

	tile := imgB.Clone()
	defer tile.Close()
	got, err := m.Match(tile)
	require.NoError(t, err)
	require.Equal(t, "beta", got.Name)
}

func TestDefaultHashGeometryComputable(t *testing.T) {
	// goimagehash only accepts hash sizes whose bit count is a power of
	// two, and serialization stores whole 64-bit words. The default
	// geometry must satisfy both, or every tile hash fails at runtime and
	// reference hashes cannot be stored.
	p := DefaultHashParams()

	tile := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), 112, 112, gocv.MatTypeCV8UC3)
	defer tile.Close()
	img, err := tile.ToImage()
	require.NoError(t, err)

	hash, err := goimagehash.ExtPerceptionHash(img, p.HashWidth, p.HashHeight)
	require.NoError(t, err)

	parsed, err := goimagehash.ExtImageHashFromString(hash.ToString())
	require.NoError(t, err)
	d, err := parsed.Distance(hash)
	require.NoError(t, err)
	require.Zero(t, d)
}

func TestHashMatcherNoCandidates(t *testing.T) {
	m := NewHashMatcher(refdb.New(nil, nil), DefaultHashParams())

	tile := gocv.NewMatWithSize(112, 112, gocv.MatTypeCV8UC3)
	defer tile.Close()
	_, err := m.Match(tile)
	require.ErrorIs(t, err, ErrNoCandidates)
}

func TestPixelMatcherFastPath(t *testing.T) {
	palette := DefaultCardPalette()
	imgA := cardTile(palette["red"], 30, 30, 255)
	imgB := cardTile(palette["red"], 30, 30, 0)

	db := refdb.New([]*refdb.Entry{
		entry("alpha", "red", imgA),
		entry("beta", "red", imgB),
	}, nil)
	defer db.Close()

	m := NewPixelMatcher(db, DefaultPixelParams())

	tile := imgA.Clone()
	defer tile.Close()
	got, err := m.Match(tile)
	require.NoError(t, err)
	require.Equal(t, "alpha", got.Name)
}

func TestPixelMatcherSlowPathShiftTolerance(t *testing.T) {
	// The tile is uniform with one bright band. The first reference is the
	// tile shifted up by one row, so its fast score is nonzero but its slow
	// score is exactly zero at shift -1. The second reference has a nearly
	// identical band that scores slightly better on the fast pass, forcing
	// the ambiguous slow pass to decide.
	tile := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 100, 100, 0), 112, 112, gocv.MatTypeCV8UC3)
	defer tile.Close()
	gocv.Rectangle(&tile, image.Rect(0, 50, 112, 60), color.RGBA{R: 200, G: 200, B: 200, A: 255}, -1)

	shifted := matutil.RollVertical(tile, -1)

	dimmer := tile.Clone()
	gocv.Rectangle(&dimmer, image.Rect(0, 50, 112, 60), color.RGBA{R: 198, G: 198, B: 198, A: 255}, -1)

	db := refdb.New([]*refdb.Entry{
		entry("exact", "dark-gray", shifted),
		entry("dimmer", "dark-gray", dimmer),
	}, nil)
	defer db.Close()

	m := NewPixelMatcher(db, DefaultPixelParams())

	got, err := m.Match(tile)
	require.NoError(t, err)
	require.Equal(t, "exact", got.Name)
}

func TestPixelMatcherMergedCategory(t *testing.T) {
	palette := DefaultCardPalette()

	// The reference is filed under orange, but the scanned card is pink.
	// With the categories merged it must still be found.
	img := cardTile(palette["pink"], 30, 30, 255)
	db := refdb.New([]*refdb.Entry{
		entry("shared", "orange", img),
	}, [][]string{{"orange", "pink", "yellow"}})
	defer db.Close()

	m := NewPixelMatcher(db, DefaultPixelParams())

	tile := img.Clone()
	defer tile.Close()
	got, err := m.Match(tile)
	require.NoError(t, err)
	require.Equal(t, "shared", got.Name)
}

func TestPixelMatcherNoCandidates(t *testing.T) {
	m := NewPixelMatcher(refdb.New(nil, nil), DefaultPixelParams())

	tile := gocv.NewMatWithSize(112, 112, gocv.MatTypeCV8UC3)
	defer tile.Close()
	_, err := m.Match(tile)
	require.ErrorIs(t, err, ErrNoCandidates)
}
