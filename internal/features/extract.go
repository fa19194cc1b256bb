// Package features derives rotation-, scale-, and translation-invariant
// shape descriptors for labeled regions from raw and central image
// moments, computed from scratch on the region's binary mask.
package features

import (
	"math"

	"gocv.io/x/gocv"

	"objrec/internal/region"
	"objrec/pkg/geometry"
)

// Compute populates a region's shape descriptors from the label map:
// centroid, primary axis angle, oriented bounding box, normalized area,
// fill ratio, aspect ratio, and the seven log-scaled Hu invariants.
// A degenerate region (under one pixel of mass) is left unpopulated.
func Compute(labelMap gocv.Mat, reg *region.Region) {
	if labelMap.Empty() {
		return
	}

	rows, cols := labelMap.Rows(), labelMap.Cols()

	// Single-region binary mask for this label
	px := make([]uint8, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if int(labelMap.GetIntAt(r, c)) == reg.ID {
				px[r*cols+c] = 255
			}
		}
	}

	m := ComputeMoments(px, rows, cols)
	if m.M00 < 1 {
		return // empty region guard
	}

	cx, cy := m.Centroid()
	reg.Centroid = geometry.Point2D{X: cx, Y: cy}
	reg.Angle = m.PrimaryAxisAngle()

	// Oriented extents: project every foreground pixel onto the primary
	// axis and its perpendicular, relative to the centroid.
	cosA := math.Cos(reg.Angle)
	sinA := math.Sin(reg.Angle)
	minP1, maxP1 := math.Inf(1), math.Inf(-1)
	minP2, maxP2 := math.Inf(1), math.Inf(-1)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if px[r*cols+c] == 0 {
				continue
			}
			dx := float64(c) - cx
			dy := float64(r) - cy
			p1 := dx*cosA + dy*sinA
			p2 := -dx*sinA + dy*cosA
			minP1 = math.Min(minP1, p1)
			maxP1 = math.Max(maxP1, p1)
			minP2 = math.Min(minP2, p2)
			maxP2 = math.Max(maxP2, p2)
		}
	}

	w := maxP1 - minP1
	h := maxP2 - minP2
	reg.OrientedBox = geometry.OrientedRect{
		Center: reg.Centroid,
		Width:  w,
		Height: h,
		Angle:  reg.Angle,
	}

	reg.Area = m.M00 / float64(rows*cols)

	if boxArea := w * h; boxArea > 0 {
		reg.FillRatio = math.Min(m.M00/boxArea, 1.0)
	} else {
		reg.FillRatio = 0
	}

	if short := math.Min(w, h); short > 0 {
		reg.BBoxRatio = math.Max(w, h) / short
	} else {
		reg.BBoxRatio = 1
	}

	hu := HuInvariants(m)
	reg.HuMoments = make([]float64, len(hu))
	for i, v := range hu {
		reg.HuMoments[i] = LogScale(v)
	}
}

// ComputeAll populates descriptors for every region in place.
func ComputeAll(labelMap gocv.Mat, regions []region.Region) {
	for i := range regions {
		Compute(labelMap, &regions[i])
	}
}
