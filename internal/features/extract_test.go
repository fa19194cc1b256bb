package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"objrec/internal/region"
)

// labelMapWithRect builds a CV_32SC1 label map with an axis-aligned
// rectangle of label 1.
func labelMapWithRect(rows, cols, x0, y0, w, h int) gocv.Mat {
	m := gocv.Zeros(rows, cols, gocv.MatTypeCV32S)
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			m.SetIntAt(y, x, 1)
		}
	}
	return m
}

// labelMapWithRotatedRect rasterizes a rectangle rotated about its
// center, labeled 1.
func labelMapWithRotatedRect(rows, cols int, cx, cy, w, h, angle float64) gocv.Mat {
	m := gocv.Zeros(rows, cols, gocv.MatTypeCV32S)
	cosA := math.Cos(angle)
	sinA := math.Sin(angle)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			p1 := dx*cosA + dy*sinA
			p2 := -dx*sinA + dy*cosA
			if math.Abs(p1) <= w/2 && math.Abs(p2) <= h/2 {
				m.SetIntAt(y, x, 1)
			}
		}
	}
	return m
}

func extract(t *testing.T, labelMap gocv.Mat) region.Region {
	t.Helper()
	reg := region.Region{ID: 1}
	Compute(labelMap, &reg)
	require.Len(t, reg.HuMoments, 7, "region should be populated")
	return reg
}

func TestSquareFeatures(t *testing.T) {
	labelMap := labelMapWithRect(100, 100, 20, 30, 30, 30)
	defer labelMap.Close()

	reg := extract(t, labelMap)
	assert.InDelta(t, 1.0, reg.FillRatio, 0.05)
	assert.InDelta(t, 1.0, reg.BBoxRatio, 0.05)
	assert.InDelta(t, 900.0/10000.0, reg.Area, 1e-9)
	assert.InDelta(t, 34.5, reg.Centroid.X, 1e-9)
	assert.InDelta(t, 44.5, reg.Centroid.Y, 1e-9)
}

func TestElongatedRectAngle(t *testing.T) {
	horizontal := labelMapWithRect(100, 100, 10, 40, 60, 12)
	defer horizontal.Close()
	hreg := extract(t, horizontal)
	assert.InDelta(t, 0.0, hreg.Angle, 0.02, "long axis of a horizontal rect is horizontal")
	// Extents span pixel centers: 59 along the axis, 11 across it
	assert.InDelta(t, 59.0/11.0, hreg.BBoxRatio, 1e-6)

	vertical := labelMapWithRect(100, 100, 40, 10, 12, 60)
	defer vertical.Close()
	vreg := extract(t, vertical)
	assert.InDelta(t, math.Pi/2, math.Abs(vreg.Angle), 0.02)
}

func TestTranslationInvariance(t *testing.T) {
	base := labelMapWithRect(200, 200, 20, 20, 40, 20)
	defer base.Close()
	moved := labelMapWithRect(200, 200, 120, 150, 40, 20)
	defer moved.Close()

	a := extract(t, base)
	b := extract(t, moved)

	assert.InDelta(t, a.FillRatio, b.FillRatio, 1e-9)
	assert.InDelta(t, a.BBoxRatio, b.BBoxRatio, 1e-9)
	for i := 0; i < 7; i++ {
		assert.InDelta(t, a.HuMoments[i], b.HuMoments[i], 1e-9, "hu[%d]", i)
	}
}

func TestScaleInvariance(t *testing.T) {
	small := labelMapWithRect(200, 200, 20, 20, 40, 20)
	defer small.Close()
	large := labelMapWithRect(200, 200, 20, 20, 120, 60)
	defer large.Close()

	a := extract(t, small)
	b := extract(t, large)

	assert.InDelta(t, a.FillRatio, b.FillRatio, 0.02)
	assert.InDelta(t, a.BBoxRatio, b.BBoxRatio, 0.06)
	// Low-order invariants are stable under rasterization; the
	// higher-order ones sit near zero for symmetric shapes, where the
	// log scale amplifies discretization noise.
	assert.InDelta(t, a.HuMoments[0], b.HuMoments[0], 0.05, "hu[0]")
	assert.InDelta(t, a.HuMoments[1], b.HuMoments[1], 0.1, "hu[1]")
}

func TestRotation90Invariance(t *testing.T) {
	horizontal := labelMapWithRect(200, 200, 30, 30, 40, 20)
	defer horizontal.Close()
	vertical := labelMapWithRect(200, 200, 30, 30, 20, 40)
	defer vertical.Close()

	a := extract(t, horizontal)
	b := extract(t, vertical)

	// A 90-degree rotation permutes the exact same pixel offsets, so
	// every invariant matches to float precision.
	assert.InDelta(t, a.FillRatio, b.FillRatio, 1e-9)
	assert.InDelta(t, a.BBoxRatio, b.BBoxRatio, 1e-9)
	for i := 0; i < 7; i++ {
		assert.InDelta(t, a.HuMoments[i], b.HuMoments[i], 1e-6, "hu[%d]", i)
	}
}

func TestRotationInvariance(t *testing.T) {
	straight := labelMapWithRotatedRect(200, 200, 100, 100, 80, 40, 0)
	defer straight.Close()
	tilted := labelMapWithRotatedRect(200, 200, 100, 100, 80, 40, 30*math.Pi/180)
	defer tilted.Close()

	a := extract(t, straight)
	b := extract(t, tilted)

	assert.InDelta(t, 30*math.Pi/180, math.Abs(b.Angle), 0.05)
	assert.InDelta(t, a.FillRatio, b.FillRatio, 0.1)
	assert.InDelta(t, a.BBoxRatio, b.BBoxRatio, 0.25)
	assert.InDelta(t, a.HuMoments[0], b.HuMoments[0], 0.05, "hu[0]")
	assert.InDelta(t, a.HuMoments[1], b.HuMoments[1], 0.15, "hu[1]")
}

func TestDegenerateRegionLeftUnpopulated(t *testing.T) {
	labelMap := gocv.Zeros(50, 50, gocv.MatTypeCV32S)
	defer labelMap.Close()

	reg := region.Region{ID: 7} // label 7 never appears
	Compute(labelMap, &reg)
	assert.Empty(t, reg.HuMoments)
	assert.Zero(t, reg.FillRatio)
}

func TestLogScale(t *testing.T) {
	assert.Equal(t, 0.0, LogScale(0))
	assert.InDelta(t, -3.0, LogScale(0.001), 1e-12)
	assert.InDelta(t, -2.0, LogScale(-0.01), 1e-12, "sign is discarded before the log")
}

func TestComputeAllPopulatesEveryRegion(t *testing.T) {
	m := gocv.Zeros(60, 60, gocv.MatTypeCV32S)
	defer m.Close()
	for y := 5; y < 25; y++ {
		for x := 5; x < 25; x++ {
			m.SetIntAt(y, x, 1)
		}
	}
	for y := 35; y < 55; y++ {
		for x := 35; x < 50; x++ {
			m.SetIntAt(y, x, 2)
		}
	}

	regions := []region.Region{{ID: 1}, {ID: 2}}
	ComputeAll(m, regions)
	for i := range regions {
		assert.Len(t, regions[i].HuMoments, 7, "region %d", i)
		assert.Greater(t, regions[i].FillRatio, 0.9)
	}
}
