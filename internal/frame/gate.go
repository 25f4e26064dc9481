// Package frame validates raw video frames and crops them to the scrollable
// content region of the target list screen.
package frame

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/geometry"
	"github.com/tmartin357/CatalogScanner/pkg/matutil"
)

// All known capture sources record the game at 720p. A different resolution
// means the video is not a capture of the expected screen, so the whole scan
// is aborted rather than producing garbage matches.
const (
	ExpectedWidth  = 1280
	ExpectedHeight = 720
)

// ErrResolution reports a frame whose dimensions don't match the expected
// capture resolution. It is a fatal precondition violation.
var ErrResolution = errors.New("unexpected frame resolution")

// Params fixes the screen geometry for one list screen variant.
type Params struct {
	// Probe is a small region sampled to decide whether the frame is
	// currently showing the target list screen.
	Probe geometry.Rect

	// Background is the expected mean color of the probe region, and
	// Tolerance the accepted Euclidean distance from it.
	Background colorutil.BGR
	Tolerance  float64

	// Content is the scrollable region handed to the segmenter.
	Content geometry.Rect
}

// Gate validates frames and crops them to the content region.
type Gate struct {
	p Params
}

// NewGate creates a Gate for the given screen geometry.
// The probe and content regions must lie inside the expected resolution.
func NewGate(p Params) (*Gate, error) {
	if _, err := geometry.Bounded(p.Probe.X, p.Probe.Y, p.Probe.Width, p.Probe.Height, ExpectedWidth, ExpectedHeight); err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	if _, err := geometry.Bounded(p.Content.X, p.Content.Y, p.Content.Width, p.Content.Height, ExpectedWidth, ExpectedHeight); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return &Gate{p: p}, nil
}

// Check verifies the frame has the expected capture resolution.
func (g *Gate) Check(frame gocv.Mat) error {
	if frame.Cols() != ExpectedWidth || frame.Rows() != ExpectedHeight {
		return fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrResolution, frame.Cols(), frame.Rows(), ExpectedWidth, ExpectedHeight)
	}
	return nil
}

// Detect reports whether the frame is currently showing the target screen,
// by comparing the probe region's mean color against the known background.
func (g *Gate) Detect(frame gocv.Mat) bool {
	if frame.Cols() != ExpectedWidth || frame.Rows() != ExpectedHeight {
		return false
	}
	probe := matutil.RegionMeanBGR(frame, g.p.Probe)
	return probe.Within(g.p.Background, g.p.Tolerance)
}

// Crop returns a view of the frame's scrollable content region.
// The view shares pixels with the frame; close it before the frame.
func (g *Gate) Crop(frame gocv.Mat) gocv.Mat {
	return frame.Region(g.p.Content.ToImageRect())
}

// Content returns the content region geometry.
func (g *Gate) Content() geometry.Rect {
	return g.p.Content
}
