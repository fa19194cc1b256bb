// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// RectInt represents an axis-aligned rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the rectangle area in pixels.
func (r RectInt) Area() int {
	return r.Width * r.Height
}

// Contains returns true if the pixel coordinate is inside the rectangle.
func (r RectInt) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// OrientedRect represents a rotated rectangle: a center, a size, and a
// rotation angle in radians. Width runs along the rotated primary axis.
type OrientedRect struct {
	Center Point2D `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"` // radians
}

// Corners returns the four corner points in drawing order; connecting
// consecutive corners (wrapping around) outlines the rectangle.
func (o OrientedRect) Corners() [4]Point2D {
	cosA := math.Cos(o.Angle)
	sinA := math.Sin(o.Angle)
	hw := o.Width / 2
	hh := o.Height / 2

	// Corner offsets in the rectangle's local frame
	local := [4][2]float64{
		{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh},
	}

	var out [4]Point2D
	for i, l := range local {
		out[i] = Point2D{
			X: o.Center.X + l[0]*cosA - l[1]*sinA,
			Y: o.Center.Y + l[0]*sinA + l[1]*cosA,
		}
	}
	return out
}

// LongSide returns the longer of the two sides.
func (o OrientedRect) LongSide() float64 {
	return math.Max(o.Width, o.Height)
}

// ShortSide returns the shorter of the two sides.
func (o OrientedRect) ShortSide() float64 {
	return math.Min(o.Width, o.Height)
}
