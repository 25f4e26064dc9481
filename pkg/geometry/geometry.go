// Package geometry provides basic pixel-space types used throughout the scanner.
package geometry

import (
	"fmt"
	"image"
)

// Rect represents a rectangular pixel region with an explicit origin and size.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Span creates a Rect from start/end coordinates on both axes.
func Span(x1, y1, x2, y2 int) Rect {
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Bounded creates a Rect and verifies it lies fully inside a width×height
// canvas. An out-of-range region is a programming error in the fixed screen
// geometry tables, so it is reported rather than silently clipped.
func Bounded(x, y, width, height, canvasW, canvasH int) (Rect, error) {
	r := Rect{X: x, Y: y, Width: width, Height: height}
	if !r.In(canvasW, canvasH) {
		return Rect{}, fmt.Errorf("region %v outside %dx%d canvas", r, canvasW, canvasH)
	}
	return r, nil
}

// In reports whether the rectangle lies fully inside a width×height canvas.
func (r Rect) In(canvasW, canvasH int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width >= 0 && r.Height >= 0 &&
		r.X+r.Width <= canvasW && r.Y+r.Height <= canvasH
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Inset returns the rectangle shrunk by n pixels on every side.
// Negative n grows the rectangle.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// ToImageRect converts to the stdlib image.Rectangle convention.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// String returns a debug representation.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
