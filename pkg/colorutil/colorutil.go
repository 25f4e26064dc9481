// Package colorutil provides shared color utilities for the catalog scanner.
//
// All colors are kept in OpenCV's BGR channel order, matching the layout of
// decoded video frames, so sampled means can be compared without swizzling.
package colorutil

import (
	"math"
	"sort"
)

// BGR is a color in OpenCV channel order.
type BGR struct {
	B float64 `json:"b"`
	G float64 `json:"g"`
	R float64 `json:"r"`
}

// New creates a BGR color.
func New(b, g, r float64) BGR {
	return BGR{B: b, G: g, R: r}
}

// Distance returns the Euclidean distance to another color.
func (c BGR) Distance(other BGR) float64 {
	db := c.B - other.B
	dg := c.G - other.G
	dr := c.R - other.R
	return math.Sqrt(db*db + dg*dg + dr*dr)
}

// Within reports whether the color is inside tolerance of a reference color.
func (c BGR) Within(ref BGR, tolerance float64) bool {
	return c.Distance(ref) < tolerance
}

// Nearest returns the key of the palette entry closest to the color.
// Ties break to the lexicographically smallest key so repeated calls
// classify the same sample identically. Returns "" for an empty palette.
func Nearest(c BGR, palette map[string]BGR) string {
	names := make([]string, 0, len(palette))
	for name := range palette {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestDist := math.Inf(1)
	for _, name := range names {
		if d := c.Distance(palette[name]); d < bestDist {
			bestDist = d
			best = name
		}
	}
	return best
}
