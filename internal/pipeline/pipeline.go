// Package pipeline runs the full per-frame recognition sequence:
// segment, clean, label, extract features, classify. Processing is
// strictly synchronous; one frame completes before the next begins.
package pipeline

import (
	"gocv.io/x/gocv"

	"objrec/internal/classify"
	"objrec/internal/features"
	"objrec/internal/morph"
	"objrec/internal/region"
	"objrec/internal/segment"
)

// Result holds every product of one processed frame. The caller owns the
// Mats and must Close them (or call Result.Close).
type Result struct {
	Mask     gocv.Mat // raw segmentation output
	Cleaned  gocv.Mat // after morphological cleanup
	LabelMap gocv.Mat // CV_32SC1, 0 = background
	Regions  []region.Region
}

// Close releases the intermediate images.
func (r *Result) Close() {
	r.Mask.Close()
	r.Cleaned.Close()
	r.LabelMap.Close()
}

// Pipeline binds a parameter set to an optional classifier. A nil
// classifier leaves regions labeled "unknown".
type Pipeline struct {
	params     Params
	classifier *classify.Classifier
}

// New creates a pipeline.
func New(params Params, classifier *classify.Classifier) *Pipeline {
	return &Pipeline{params: params, classifier: classifier}
}

// Params returns the current parameter set.
func (p *Pipeline) Params() Params { return p.params }

// SetParams replaces the parameter set for subsequent frames.
func (p *Pipeline) SetParams(params Params) { p.params = params }

// Process runs one BGR frame through all stages. A degenerate frame
// (empty mask, zero regions) is a valid result, not an error.
func (p *Pipeline) Process(frame gocv.Mat) *Result {
	mask := segment.Apply(frame, p.params.Segment)
	cleaned := morph.Apply(mask, p.params.Morph)
	regions, labelMap := region.Find(cleaned, p.params.Find)
	features.ComputeAll(labelMap, regions)
	if p.classifier != nil {
		p.classifier.ClassifyAll(regions, p.params.Classify)
	}

	return &Result{
		Mask:     mask,
		Cleaned:  cleaned,
		LabelMap: labelMap,
		Regions:  regions,
	}
}
