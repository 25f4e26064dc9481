package video

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Screenshots are captured at either the video resolution or full 1080p.
// A 1080p still is scaled down so the fixed screen geometry applies.
const (
	stillWidth  = 1280
	stillHeight = 720
	hdWidth     = 1920
	hdHeight    = 1080
)

// OpenStill loads a single screenshot as a one-frame source.
func OpenStill(path string) (*StillSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open screenshot %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == hdWidth && bounds.Dy() == hdHeight {
		scaled := image.NewRGBA(image.Rect(0, 0, stillWidth, stillHeight))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
	}

	mat := imageToBGRMat(img)
	return &StillSource{MatSource: MatSource{frames: []gocv.Mat{mat}}, frame: mat}, nil
}

// StillSource is a one-frame source that owns its decoded frame.
type StillSource struct {
	MatSource
	frame gocv.Mat
}

// Close releases the decoded frame.
func (s *StillSource) Close() error {
	return s.frame.Close()
}

// imageToBGRMat converts a Go image.Image to a BGR OpenCV Mat.
func imageToBGRMat(src image.Image) gocv.Mat {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat
}
