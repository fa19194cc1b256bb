// Package region isolates connected foreground components from a binary
// mask. Labeling is a from-scratch two-pass algorithm with union-find
// equivalence resolution.
package region

import (
	"image/color"

	"objrec/pkg/geometry"
)

// Region describes one connected foreground component that survived
// area filtering. The labeler fills in the geometry, the feature
// extractor populates the shape descriptors, and the classifier writes
// Label and Confidence.
type Region struct {
	ID          int                   `json:"id"`
	Centroid    geometry.Point2D      `json:"centroid"`
	BoundingBox geometry.RectInt      `json:"boundingBox"`
	OrientedBox geometry.OrientedRect `json:"orientedBox"`

	// Angle is the primary axis of minimum second central moment, in
	// radians.
	Angle float64 `json:"angle"`

	// Area is the region's pixel count as a fraction of the image area,
	// so it does not change with capture resolution.
	Area float64 `json:"area"`

	FillRatio float64   `json:"fillRatio"`
	BBoxRatio float64   `json:"bboxRatio"`
	HuMoments []float64 `json:"huMoments"` // 7 log-scaled invariants

	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`

	DisplayColor color.RGBA `json:"-"`
}
