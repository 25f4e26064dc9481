package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBounded(t *testing.T) {
	r, err := Bounded(40, 95, 1200, 575, 1280, 720)
	require.NoError(t, err)
	require.Equal(t, 1240, r.Right())
	require.Equal(t, 670, r.Bottom())

	_, err = Bounded(40, 95, 1250, 575, 1280, 720)
	require.Error(t, err)

	_, err = Bounded(-1, 0, 10, 10, 1280, 720)
	require.Error(t, err)
}

func TestSpan(t *testing.T) {
	r := Span(45, 110, 730, 720)
	require.Equal(t, Rect{X: 45, Y: 110, Width: 685, Height: 610}, r)
	require.True(t, r.In(1280, 720))
	require.False(t, r.In(700, 720))
}

func TestOffsetInset(t *testing.T) {
	r := NewRect(10, 20, 100, 50)
	require.Equal(t, NewRect(13, 18, 100, 50), r.Offset(3, -2))
	require.Equal(t, NewRect(19, 29, 82, 32), r.Inset(9))
	require.True(t, NewRect(0, 0, 0, 5).Empty())
	require.False(t, r.Empty())
}

func TestToImageRect(t *testing.T) {
	r := NewRect(5, 6, 7, 8)
	require.Equal(t, image.Rect(5, 6, 12, 14), r.ToImageRect())
}
