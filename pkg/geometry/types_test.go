package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint2DDistance(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(3, 4)
	assert.InDelta(t, 5.0, a.Distance(b), 1e-12)
	assert.InDelta(t, 5.0, b.Distance(a), 1e-12)
	assert.Equal(t, Point2D{X: 3, Y: 4}, a.Add(b))
	assert.Equal(t, Point2D{X: -3, Y: -4}, a.Sub(b))
}

func TestRectInt(t *testing.T) {
	r := RectInt{X: 2, Y: 3, Width: 4, Height: 5}
	assert.Equal(t, 20, r.Area())
	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 7))
	assert.False(t, r.Contains(6, 3), "right edge is exclusive")
	assert.False(t, r.Contains(2, 8), "bottom edge is exclusive")
}

func TestOrientedRectCornersAxisAligned(t *testing.T) {
	o := OrientedRect{Center: NewPoint2D(10, 10), Width: 6, Height: 4, Angle: 0}
	corners := o.Corners()
	assert.InDelta(t, 7.0, corners[0].X, 1e-12)
	assert.InDelta(t, 8.0, corners[0].Y, 1e-12)
	assert.InDelta(t, 13.0, corners[2].X, 1e-12)
	assert.InDelta(t, 12.0, corners[2].Y, 1e-12)
}

func TestOrientedRectCornersRotated(t *testing.T) {
	o := OrientedRect{Center: NewPoint2D(0, 0), Width: 4, Height: 2, Angle: math.Pi / 2}
	corners := o.Corners()

	// Side lengths survive the rotation
	assert.InDelta(t, 4.0, corners[0].Distance(corners[1]), 1e-12)
	assert.InDelta(t, 2.0, corners[1].Distance(corners[2]), 1e-12)
	// A quarter turn maps the local (-2,-1) corner to (1,-2)
	assert.InDelta(t, 1.0, corners[0].X, 1e-12)
	assert.InDelta(t, -2.0, corners[0].Y, 1e-12)

	assert.Equal(t, 4.0, o.LongSide())
	assert.Equal(t, 2.0, o.ShortSide())
}
