package pipeline

import (
	"objrec/internal/classify"
	"objrec/internal/morph"
	"objrec/internal/region"
	"objrec/internal/segment"
)

// Params gathers every tunable value the per-frame pipeline consumes.
// Out-of-range values are clamped by the stage that uses them, not
// rejected here.
type Params struct {
	Segment  segment.Options
	Morph    morph.Options
	Find     region.FindOptions
	Classify classify.Options

	// Annotation toggles
	ShowAxes        bool
	ShowOrientedBox bool
	ShowFeatureText bool
}

// DefaultParams returns the stage defaults with all annotations enabled.
func DefaultParams() Params {
	return Params{
		Segment:         segment.DefaultOptions(),
		Morph:           morph.DefaultOptions(),
		Find:            region.DefaultFindOptions(),
		Classify:        classify.DefaultOptions(),
		ShowAxes:        true,
		ShowOrientedBox: true,
		ShowFeatureText: true,
	}
}

// WithSegmentMode returns a copy with a different segmentation mode.
func (p Params) WithSegmentMode(m segment.Mode) Params {
	p.Segment.Mode = m
	return p
}

// WithMorphOp returns a copy with a different morphology operation.
func (p Params) WithMorphOp(op morph.Op) Params {
	p.Morph.Op = op
	return p
}

// WithMetric returns a copy with a different distance metric.
func (p Params) WithMetric(m classify.Metric) Params {
	p.Classify.Metric = m
	return p
}
