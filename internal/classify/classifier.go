// Package classify implements a K-nearest-neighbor classifier over the
// object database, with a per-dimension standard-deviation-scaled
// Euclidean metric, a cosine metric, majority voting, and
// threshold-based unknown rejection.
package classify

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"objrec/internal/objdb"
	"objrec/internal/region"
)

// Metric selects the distance function.
type Metric int

const (
	// MetricScaledEuclidean divides each dimension's difference by that
	// dimension's standard deviation across the database, so no single
	// feature dominates purely by numeric scale.
	MetricScaledEuclidean Metric = iota
	// MetricCosine uses 1 - cosine similarity.
	MetricCosine
)

// String returns a short metric name for overlays and logs.
func (m Metric) String() string {
	if m == MetricCosine {
		return "cosine"
	}
	return "scaled-euclidean"
}

// MaxK caps the neighbor count.
const MaxK = 9

// Options configures a classification call.
type Options struct {
	K                int     // neighbors to vote (1..9)
	ConfidenceThresh float64 // closest distance above this → "unknown"
	Metric           Metric
}

// DefaultOptions returns nearest-neighbor defaults.
func DefaultOptions() Options {
	return Options{
		K:                1,
		ConfidenceThresh: 0.60,
		Metric:           MetricScaledEuclidean,
	}
}

// Result is the outcome of one classification call.
type Result struct {
	Label      string
	Distance   float64 // to the closest comparable entry
	Confidence float64 // 1 / (1 + Distance)
	IsUnknown  bool
}

// Classifier caches per-dimension statistics of the database for
// distance scaling. Refit must be called whenever the database changes.
type Classifier struct {
	db     *objdb.DB
	means  []float64
	stdevs []float64
}

// New creates a classifier fitted to the current database contents.
func New(db *objdb.DB) *Classifier {
	c := &Classifier{db: db}
	c.Refit()
	return c
}

// Refit recomputes each feature dimension's mean and standard deviation
// across all database entries. A near-constant dimension gets a standard
// deviation of 1 so it neither divides by zero nor collapses distances.
func (c *Classifier) Refit() {
	c.means = make([]float64, objdb.FeatureDim)
	c.stdevs = make([]float64, objdb.FeatureDim)

	entries := c.db.Entries()
	if len(entries) == 0 {
		for d := range c.stdevs {
			c.stdevs[d] = 1
		}
		return
	}

	vectors := make([][]float64, len(entries))
	for i, e := range entries {
		vectors[i] = e.FeatureVector()
	}

	column := make([]float64, len(entries))
	for d := 0; d < objdb.FeatureDim; d++ {
		for i := range vectors {
			column[i] = vectors[i][d]
		}
		mean, variance := stat.PopMeanVariance(column, nil)
		c.means[d] = mean
		if variance > 1e-10 {
			c.stdevs[d] = math.Sqrt(variance)
		} else {
			c.stdevs[d] = 1
		}
	}
}

// ScaledEuclidean returns the per-dimension stdev-scaled Euclidean
// distance between two feature vectors, or -1 when the vectors are not
// comparable (dimension mismatch). Callers must exclude negative
// distances from ranking.
func (c *Classifier) ScaledEuclidean(a, b []float64) float64 {
	if len(a) != len(b) || len(a) != len(c.stdevs) {
		return -1
	}
	sum := 0.0
	for d := range a {
		diff := (a[d] - b[d]) / c.stdevs[d]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// CosineDistance returns 1 - cosine similarity, or -1 when the vectors
// are not comparable. A near-zero-norm vector yields the maximal
// distance 1.
func CosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}
	dot := floats.Dot(a, b)
	normA := floats.Dot(a, a)
	normB := floats.Dot(b, b)
	if normA < 1e-10 || normB < 1e-10 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

type match struct {
	label string
	dist  float64
}

// Classify ranks every database entry by distance to the query vector,
// lets the K nearest vote, and rejects the result as "unknown" when the
// closest distance exceeds the confidence threshold. An empty database
// yields the sentinel label "no DB" instead of an error.
func (c *Classifier) Classify(fv []float64, opts Options) Result {
	entries := c.db.Entries()
	if len(entries) == 0 {
		return Result{Label: "no DB", IsUnknown: true}
	}

	matches := make([]match, 0, len(entries))
	for _, e := range entries {
		var dist float64
		if opts.Metric == MetricCosine {
			dist = CosineDistance(fv, e.FeatureVector())
		} else {
			dist = c.ScaledEuclidean(fv, e.FeatureVector())
		}
		if dist < 0 {
			continue // incomparable entry, excluded from ranking
		}
		matches = append(matches, match{label: e.Label, dist: dist})
	}
	if len(matches) == 0 {
		return Result{Label: "no DB", IsUnknown: true}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].dist < matches[j].dist
	})

	k := opts.K
	if k < 1 {
		k = 1
	}
	if k > MaxK {
		k = MaxK
	}
	if k > len(matches) {
		k = len(matches)
	}

	votes := make(map[string]int, k)
	for i := 0; i < k; i++ {
		votes[matches[i].label]++
	}
	maxVotes := 0
	for _, n := range votes {
		if n > maxVotes {
			maxVotes = n
		}
	}
	// Tie-break: the first of the K to reach the max vote count is the
	// one with the closest sample.
	bestLabel := matches[0].label
	for i := 0; i < k; i++ {
		if votes[matches[i].label] == maxVotes {
			bestLabel = matches[i].label
			break
		}
	}

	bestDist := matches[0].dist
	isUnknown := bestDist > opts.ConfidenceThresh
	label := bestLabel
	if isUnknown {
		label = "unknown"
	}

	return Result{
		Label:      label,
		Distance:   bestDist,
		Confidence: 1 / (1 + bestDist),
		IsUnknown:  isUnknown,
	}
}

// ClassifyAll annotates every region that has features with a predicted
// label and confidence.
func (c *Classifier) ClassifyAll(regions []region.Region, opts Options) {
	for i := range regions {
		if len(regions[i].HuMoments) == 0 {
			continue
		}
		fv := objdb.EntryFromRegion(regions[i], "").FeatureVector()
		res := c.Classify(fv, opts)
		regions[i].Label = res.Label
		regions[i].Confidence = res.Confidence
	}
}
