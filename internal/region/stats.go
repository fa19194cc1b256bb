package region

import (
	"math"
	"sort"

	"gocv.io/x/gocv"

	"objrec/pkg/colorutil"
	"objrec/pkg/geometry"
)

// Stats holds the pixel statistics accumulated for one label.
type Stats struct {
	Area        int
	Centroid    geometry.Point2D
	BoundingBox geometry.RectInt
}

// FindOptions configures region filtering after labeling.
type FindOptions struct {
	MinArea    int // discard regions smaller than this many pixels
	MaxRegions int // keep only the N largest regions
}

// DefaultFindOptions returns filtering defaults that ignore speckle and
// track a handful of objects.
func DefaultFindOptions() FindOptions {
	return FindOptions{
		MinArea:    500,
		MaxRegions: 5,
	}
}

// ComputeStats accumulates area, centroid, and axis-aligned bounding box
// for every label in a single pass over the label map. Index 0 of the
// returned slice is the background and is left zeroed.
func ComputeStats(labelMap gocv.Mat, numLabels int) []Stats {
	stats := make([]Stats, numLabels+1)
	if labelMap.Empty() || numLabels == 0 {
		return stats
	}

	rows, cols := labelMap.Rows(), labelMap.Cols()
	minR := make([]int, numLabels+1)
	maxR := make([]int, numLabels+1)
	minC := make([]int, numLabels+1)
	maxC := make([]int, numLabels+1)
	sumR := make([]float64, numLabels+1)
	sumC := make([]float64, numLabels+1)
	for i := 1; i <= numLabels; i++ {
		minR[i], minC[i] = math.MaxInt32, math.MaxInt32
		maxR[i], maxC[i] = math.MinInt32, math.MinInt32
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lbl := int(labelMap.GetIntAt(r, c))
			if lbl <= 0 || lbl > numLabels {
				continue
			}
			stats[lbl].Area++
			sumR[lbl] += float64(r)
			sumC[lbl] += float64(c)
			if r < minR[lbl] {
				minR[lbl] = r
			}
			if r > maxR[lbl] {
				maxR[lbl] = r
			}
			if c < minC[lbl] {
				minC[lbl] = c
			}
			if c > maxC[lbl] {
				maxC[lbl] = c
			}
		}
	}

	for lbl := 1; lbl <= numLabels; lbl++ {
		if stats[lbl].Area == 0 {
			continue
		}
		n := float64(stats[lbl].Area)
		stats[lbl].Centroid = geometry.Point2D{X: sumC[lbl] / n, Y: sumR[lbl] / n}
		stats[lbl].BoundingBox = geometry.RectInt{
			X:      minC[lbl],
			Y:      minR[lbl],
			Width:  maxC[lbl] - minC[lbl] + 1,
			Height: maxR[lbl] - minR[lbl] + 1,
		}
	}
	return stats
}

// Find labels a cleaned binary mask and returns the surviving regions,
// largest first, together with the label map. Regions below the minimum
// area are dropped and at most MaxRegions are kept. Display colors are
// assigned by area rank so the same rank keeps the same color across
// frames even as label ids churn. Zero regions is a valid outcome for an
// empty frame.
func Find(cleaned gocv.Mat, opts FindOptions) ([]Region, gocv.Mat) {
	labelMap, numLabels := TwoPassLabel(cleaned)
	if numLabels == 0 {
		return nil, labelMap
	}

	stats := ComputeStats(labelMap, numLabels)

	valid := make([]int, 0, numLabels)
	for lbl := 1; lbl <= numLabels; lbl++ {
		if stats[lbl].Area >= opts.MinArea {
			valid = append(valid, lbl)
		}
	}
	sort.Slice(valid, func(i, j int) bool {
		return stats[valid[i]].Area > stats[valid[j]].Area
	})

	keep := opts.MaxRegions
	if keep < 1 {
		keep = 1
	}
	if keep > len(valid) {
		keep = len(valid)
	}

	imageArea := float64(cleaned.Rows() * cleaned.Cols())
	regions := make([]Region, 0, keep)
	for rank := 0; rank < keep; rank++ {
		lbl := valid[rank]
		regions = append(regions, Region{
			ID:           lbl,
			Centroid:     stats[lbl].Centroid,
			BoundingBox:  stats[lbl].BoundingBox,
			Area:         float64(stats[lbl].Area) / imageArea,
			Label:        "unknown",
			DisplayColor: colorutil.PaletteColor(rank),
		})
	}
	return regions, labelMap
}
