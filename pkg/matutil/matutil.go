// Package matutil provides shared OpenCV Mat helpers for the scanner pipeline.
package matutil

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/tmartin357/CatalogScanner/pkg/colorutil"
	"github.com/tmartin357/CatalogScanner/pkg/geometry"
)

// Mean returns the mean intensity across all pixels and channels.
func Mean(m gocv.Mat) float64 {
	s := m.Mean()
	switch m.Channels() {
	case 1:
		return s.Val1
	case 3:
		return (s.Val1 + s.Val2 + s.Val3) / 3
	default:
		return (s.Val1 + s.Val2 + s.Val3 + s.Val4) / float64(m.Channels())
	}
}

// MeanBGR returns the per-channel mean of a 3-channel BGR Mat.
func MeanBGR(m gocv.Mat) colorutil.BGR {
	s := m.Mean()
	return colorutil.BGR{B: s.Val1, G: s.Val2, R: s.Val3}
}

// RegionMeanBGR returns the per-channel mean color of a sub-region.
func RegionMeanBGR(m gocv.Mat, r geometry.Rect) colorutil.BGR {
	roi := m.Region(r.ToImageRect())
	defer roi.Close()
	return MeanBGR(roi)
}

// RegionMean returns the mean intensity of a sub-region.
func RegionMean(m gocv.Mat, r geometry.Rect) float64 {
	roi := m.Region(r.ToImageRect())
	defer roi.Close()
	return Mean(roi)
}

// MeanAbsDiff returns the mean absolute pixel difference between two Mats
// of identical size and type.
func MeanAbsDiff(a, b gocv.Mat) (float64, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Type() != b.Type() {
		return 0, fmt.Errorf("mismatched mats: %dx%d/%d vs %dx%d/%d",
			a.Cols(), a.Rows(), a.Type(), b.Cols(), b.Rows(), b.Type())
	}
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)
	return Mean(diff), nil
}

// SumAbsDiff returns the summed absolute pixel difference between two Mats
// of identical size and type, totaled over all channels.
func SumAbsDiff(a, b gocv.Mat) (float64, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Type() != b.Type() {
		return 0, fmt.Errorf("mismatched mats: %dx%d/%d vs %dx%d/%d",
			a.Cols(), a.Rows(), a.Type(), b.Cols(), b.Rows(), b.Type())
	}
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)
	s := diff.Sum()
	return s.Val1 + s.Val2 + s.Val3 + s.Val4, nil
}

// RollVertical returns a copy of src with rows rotated down by dy
// (negative dy rotates up). Rows falling off one edge wrap around to the
// other, matching a circular shift. The caller owns the returned Mat.
func RollVertical(src gocv.Mat, dy int) gocv.Mat {
	rows := src.Rows()
	if rows == 0 {
		return src.Clone()
	}
	dy = ((dy % rows) + rows) % rows
	if dy == 0 {
		return src.Clone()
	}

	top := src.RowRange(rows-dy, rows)
	defer top.Close()
	bottom := src.RowRange(0, rows-dy)
	defer bottom.Close()

	dst := gocv.NewMat()
	gocv.Vconcat(top, bottom, &dst)
	return dst
}

// BackgroundMask returns a binary mask of pixels whose BGR color lies within
// [lower, upper]. Matching pixels are 255, everything else 0.
// The caller owns the returned Mat.
func BackgroundMask(src gocv.Mat, lower, upper colorutil.BGR) gocv.Mat {
	mask := gocv.NewMat()
	lb := gocv.NewScalar(lower.B, lower.G, lower.R, 0)
	ub := gocv.NewScalar(upper.B, upper.G, upper.R, 0)
	gocv.InRangeWithScalar(src, lb, ub, &mask)
	return mask
}

// RowMeans returns the mean intensity of each pixel row of a single-channel Mat.
func RowMeans(m gocv.Mat) []float64 {
	means := make([]float64, m.Rows())
	for y := range means {
		row := m.RowRange(y, y+1)
		means[y] = Mean(row)
		row.Close()
	}
	return means
}
