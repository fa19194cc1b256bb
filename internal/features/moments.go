package features

import (
	"math"
)

// Moments holds the raw, central, and normalized central moments of a
// binary mask, following OpenCV's naming (m00, mu20, nu20, ...). Every
// nonzero pixel contributes weight 1.
type Moments struct {
	M00, M10, M01 float64

	Mu20, Mu11, Mu02       float64
	Mu30, Mu21, Mu12, Mu03 float64

	Nu20, Nu11, Nu02       float64
	Nu30, Nu21, Nu12, Nu03 float64
}

// Centroid returns the mass center (m10/m00, m01/m00).
func (m Moments) Centroid() (x, y float64) {
	if m.M00 < 1 {
		return 0, 0
	}
	return m.M10 / m.M00, m.M01 / m.M00
}

// PrimaryAxisAngle returns the axis of minimum second central moment in
// radians: 0.5 * atan2(2*mu11, mu20-mu02).
func (m Moments) PrimaryAxisAngle() float64 {
	return 0.5 * math.Atan2(2*m.Mu11, m.Mu20-m.Mu02)
}

// ComputeMoments accumulates moments up to order 3 over a flat row-major
// binary buffer. Central moments are taken about the centroid, making
// them translation invariant; normalized central moments divide out
// m00^(1+(p+q)/2), adding scale invariance.
func ComputeMoments(px []uint8, rows, cols int) Moments {
	var m Moments

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if px[r*cols+c] == 0 {
				continue
			}
			x, y := float64(c), float64(r)
			m.M00++
			m.M10 += x
			m.M01 += y
		}
	}
	if m.M00 < 1 {
		return m
	}

	cx := m.M10 / m.M00
	cy := m.M01 / m.M00

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if px[r*cols+c] == 0 {
				continue
			}
			dx := float64(c) - cx
			dy := float64(r) - cy
			m.Mu20 += dx * dx
			m.Mu11 += dx * dy
			m.Mu02 += dy * dy
			m.Mu30 += dx * dx * dx
			m.Mu21 += dx * dx * dy
			m.Mu12 += dx * dy * dy
			m.Mu03 += dy * dy * dy
		}
	}

	// nu_pq = mu_pq / m00^(1 + (p+q)/2)
	norm2 := m.M00 * m.M00
	norm3 := math.Pow(m.M00, 2.5)
	m.Nu20 = m.Mu20 / norm2
	m.Nu11 = m.Mu11 / norm2
	m.Nu02 = m.Mu02 / norm2
	m.Nu30 = m.Mu30 / norm3
	m.Nu21 = m.Mu21 / norm3
	m.Nu12 = m.Mu12 / norm3
	m.Nu03 = m.Mu03 / norm3

	return m
}
