// Package scan drives the full pipeline: frames in, catalog item names out.
//
// Each supported list screen has one Scanner that knows its screen geometry,
// row segmentation strategy and matcher. Scanners are selected by the Mode
// enumeration, or auto-detected by probing the first frames of the video
// against every scanner's Detect.
package scan

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/frame"
	"github.com/tmartin357/CatalogScanner/internal/video"
)

// detectProbeFrames bounds auto-detection to roughly the first three
// seconds of a 30fps capture.
const detectProbeFrames = 100

// ErrUnknownMode reports a mode name outside the supported set, or a video
// in which no scanner recognizes its screen.
var ErrUnknownMode = errors.New("unknown scan mode")

// Mode identifies one supported list screen type.
type Mode int

const (
	// ModeAuto requests detection from the video frames.
	ModeAuto Mode = iota
	ModeMusic
	ModeRecipes
)

// String returns the CLI-facing mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeMusic:
		return "music"
	case ModeRecipes:
		return "recipes"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a CLI mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto", "":
		return ModeAuto, nil
	case "music":
		return ModeMusic, nil
	case "recipes":
		return ModeRecipes, nil
	default:
		return ModeAuto, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Options adjusts a single scan.
type Options struct {
	// Locale selects the output language; "auto" and "" mean the default.
	Locale string

	// ForSale drops items marked not purchasable.
	ForSale bool
}

// Result is the outcome of one scan.
type Result struct {
	Mode Mode

	// Items holds the deduplicated, sorted, localized item names.
	Items []string

	// Locale is the resolved output locale ("auto" already replaced).
	Locale string
}

// Scanner scans one list screen type.
type Scanner interface {
	// Mode identifies the screen type this scanner handles.
	Mode() Mode

	// Detect reports whether the frame is showing this scanner's screen.
	Detect(frame gocv.Mat) bool

	// Scan consumes the source and returns all items found.
	Scan(src video.Source, opts Options) (*Result, error)
}

// DetectMode probes the beginning of the video and returns the first scanner
// that recognizes its screen. The source is consumed; callers must open a
// fresh one for the scan itself.
func DetectMode(src video.Source, scanners []Scanner) (Scanner, error) {
	f := gocv.NewMat()
	defer f.Close()

	for i := 0; i < detectProbeFrames; i++ {
		ok, err := src.Next(&f)
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", i, err)
		}
		if !ok {
			break
		}
		if f.Cols() != frame.ExpectedWidth || f.Rows() != frame.ExpectedHeight {
			return nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
				frame.ErrResolution, f.Cols(), f.Rows(), frame.ExpectedWidth, frame.ExpectedHeight)
		}
		for _, s := range scanners {
			if s.Detect(f) {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no scanner recognizes this video", ErrUnknownMode)
}
