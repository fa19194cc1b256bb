// Package colorutil provides shared color utilities for the object
// recognition application.
package colorutil

import (
	"image/color"
	"math"
)

// Palette is a fixed set of 16 visually distinct colors used to paint
// detected regions. Regions are colored by area rank, so the largest
// region always gets Palette[0] even as label ids churn between frames.
var Palette = [16]color.RGBA{
	{R: 189, G: 114, B: 0, A: 255},
	{R: 25, G: 83, B: 217, A: 255},
	{R: 32, G: 177, B: 237, A: 255},
	{R: 142, G: 47, B: 126, A: 255},
	{R: 238, G: 190, B: 77, A: 255},
	{R: 47, G: 20, B: 162, A: 255},
	{R: 47, G: 171, B: 118, A: 255},
	{R: 76, G: 76, B: 76, A: 255},
	{R: 255, G: 153, B: 153, A: 255},
	{R: 0, G: 128, B: 255, A: 255},
	{R: 153, G: 204, B: 0, A: 255},
	{R: 102, G: 0, B: 204, A: 255},
	{R: 0, G: 204, B: 102, A: 255},
	{R: 204, G: 102, B: 0, A: 255},
	{R: 153, G: 51, B: 255, A: 255},
	{R: 153, G: 255, B: 51, A: 255},
}

// PaletteColor returns the palette entry for an area rank, wrapping
// around when more regions are kept than the palette has entries.
func PaletteColor(rank int) color.RGBA {
	if rank < 0 {
		rank = 0
	}
	return Palette[rank%len(Palette)]
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}
