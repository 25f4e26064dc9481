// Command tiledump cuts card tiles out of a capture and writes them as PNG
// files, for checking segmentation geometry and building reference images.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akamensky/argparse"
	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/internal/dedupe"
	"github.com/tmartin357/CatalogScanner/internal/frame"
	"github.com/tmartin357/CatalogScanner/internal/grid"
	"github.com/tmartin357/CatalogScanner/internal/scan"
	"github.com/tmartin357/CatalogScanner/internal/video"
)

func main() {
	parser := argparse.NewParser("tiledump", "Dump segmented card tiles from a capture to image files")
	input := parser.String("i", "input", &argparse.Options{Help: "Input video or screenshot file", Required: true})
	modeName := parser.String("m", "mode", &argparse.Options{Help: "Scan type: music or recipes", Default: "music"})
	outDir := parser.String("o", "out", &argparse.Options{Help: "Output directory", Default: "tiles"})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	mode, err := scan.ParseMode(*modeName)
	if err != nil || mode == scan.ModeAuto {
		fmt.Fprintf(os.Stderr, "tiledump needs an explicit mode, got %q\n", *modeName)
		os.Exit(1)
	}

	if err := dump(mode, *input, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "tiledump: %v\n", err)
		os.Exit(1)
	}
}

// rowSegmenter matches both grid strategies.
type rowSegmenter interface {
	Rows(region gocv.Mat) []grid.Row
}

func dump(mode scan.Mode, input, outDir string) error {
	var (
		gate *frame.Gate
		seg  rowSegmenter
		sup  *dedupe.Suppressor
		step int
		err  error
	)
	switch mode {
	case scan.ModeMusic:
		p := scan.DefaultMusicParams()
		gate, err = frame.NewGate(p.Gate)
		seg = grid.NewPhaseSegmenter(p.Grid)
		sup = dedupe.NewSuppressor(p.DedupeWindows, p.DedupeThreshold)
		step = p.FrameStep
	case scan.ModeRecipes:
		p := scan.DefaultRecipesParams()
		gate, err = frame.NewGate(p.Gate)
		seg = grid.NewBandSegmenter(p.Grid)
		sup = dedupe.NewSuppressor(p.DedupeWindows, p.DedupeThreshold)
		step = p.FrameStep
	default:
		return fmt.Errorf("unsupported mode %s", mode)
	}
	if err != nil {
		return err
	}
	defer sup.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	src, err := openSource(input)
	if err != nil {
		return err
	}
	defer src.Close()

	f := gocv.NewMat()
	defer f.Close()

	for i := 0; ; i++ {
		ok, err := src.Next(&f)
		if err != nil {
			return fmt.Errorf("read frame %d: %w", i, err)
		}
		if !ok {
			break
		}
		if err := gate.Check(f); err != nil {
			return err
		}
		if step > 1 && i%step != 0 {
			continue
		}
		if !gate.Detect(f) {
			continue
		}

		region := gate.Crop(f)
		rows := seg.Rows(region)
		region.Close()
		for _, row := range rows {
			if !sup.Offer(row) {
				row.Close()
			}
		}
	}

	for i, tile := range sup.Tiles() {
		path := filepath.Join(outDir, fmt.Sprintf("tile_%04d.png", i))
		if !gocv.IMWrite(path, tile) {
			return fmt.Errorf("write %s", path)
		}
	}
	fmt.Printf("Wrote %d tiles to %s\n", sup.Len(), outDir)
	return nil
}

func openSource(path string) (video.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return video.OpenStill(path)
	default:
		return video.OpenFile(path)
	}
}
