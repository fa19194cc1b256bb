// Package eval accumulates classification outcomes against operator
// ground truth and derives a confusion matrix and accuracy figures.
package eval

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Record is one ground-truth comparison.
type Record struct {
	TrueLabel      string
	PredictedLabel string
	Confidence     float64
}

// Evaluator keeps an append-only log of records. The confusion matrix is
// always rebuilt from the full log rather than maintained incrementally,
// which keeps it correct when new labels appear mid-session.
type Evaluator struct {
	records []Record
}

// New creates an empty evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Record appends one evaluation sample. Duplicates are kept; every
// sample counts.
func (e *Evaluator) Record(trueLabel, predictedLabel string, confidence float64) {
	e.records = append(e.records, Record{
		TrueLabel:      trueLabel,
		PredictedLabel: predictedLabel,
		Confidence:     confidence,
	})
}

// Len returns the number of recorded samples.
func (e *Evaluator) Len() int { return len(e.records) }

// Labels returns the sorted union of all true and predicted labels seen.
func (e *Evaluator) Labels() []string {
	seen := make(map[string]bool)
	for _, r := range e.records {
		seen[r.TrueLabel] = true
		seen[r.PredictedLabel] = true
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// BuildMatrix rebuilds the confusion matrix from the full record log.
// matrix[i][j] counts records with trueLabel=labels[i] and
// predictedLabel=labels[j].
func (e *Evaluator) BuildMatrix() ([]string, [][]int) {
	labels := e.Labels()
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}

	matrix := make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}
	for _, r := range e.records {
		matrix[idx[r.TrueLabel]][idx[r.PredictedLabel]]++
	}
	return labels, matrix
}

// Accuracy returns the fraction of records whose predicted label matches
// the true label, or 0 when nothing has been recorded.
func (e *Evaluator) Accuracy() float64 {
	if len(e.records) == 0 {
		return 0
	}
	correct := 0
	for _, r := range e.records {
		if r.TrueLabel == r.PredictedLabel {
			correct++
		}
	}
	return float64(correct) / float64(len(e.records))
}

// classAccuracy is the diagonal fraction of one matrix row, 0 when the
// row is empty.
func classAccuracy(row []int, i int) float64 {
	total := 0
	for _, n := range row {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(row[i]) / float64(total)
}

// SaveMatrix writes the confusion matrix as CSV: a header row, one row
// of counts per true label with a trailing per-class accuracy, and a
// final overall accuracy row.
func (e *Evaluator) SaveMatrix(path string) error {
	labels, matrix := e.BuildMatrix()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("eval: create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("eval: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"true/predicted"}, labels...)
	header = append(header, "accuracy")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("eval: write header: %w", err)
	}

	for i, label := range labels {
		row := make([]string, 0, len(labels)+2)
		row = append(row, label)
		for j := range labels {
			row = append(row, fmt.Sprintf("%d", matrix[i][j]))
		}
		row = append(row, fmt.Sprintf("%.2f", classAccuracy(matrix[i], i)))
		if err := w.Write(row); err != nil {
			return fmt.Errorf("eval: write row: %w", err)
		}
	}

	overall := make([]string, 0, len(labels)+2)
	overall = append(overall, "overall")
	for range labels {
		overall = append(overall, "")
	}
	overall = append(overall, fmt.Sprintf("%.2f", e.Accuracy()))
	if err := w.Write(overall); err != nil {
		return fmt.Errorf("eval: write overall row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("eval: flush %s: %w", path, err)
	}
	return nil
}

// String renders the confusion matrix as a text table with per-class and
// overall accuracy, suitable for terminal output.
func (e *Evaluator) String() string {
	labels, matrix := e.BuildMatrix()
	if len(labels) == 0 {
		return "no evaluation records\n"
	}

	const width = 12
	var b strings.Builder

	b.WriteString("=== Confusion Matrix ===\n")
	b.WriteString("rows = true label, cols = predicted label\n\n")

	fmt.Fprintf(&b, "%*s", width, "")
	for _, l := range labels {
		fmt.Fprintf(&b, "%*s", width, truncate(l, width-1))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", width*(len(labels)+1)))
	b.WriteString("\n")

	for i, l := range labels {
		fmt.Fprintf(&b, "%*s", width, truncate(l, width-1))
		for j := range labels {
			if i == j {
				fmt.Fprintf(&b, "%*s", width, fmt.Sprintf("[%d]", matrix[i][j]))
			} else {
				fmt.Fprintf(&b, "%*d", width, matrix[i][j])
			}
		}
		fmt.Fprintf(&b, "  %.0f%%\n", classAccuracy(matrix[i], i)*100)
	}

	fmt.Fprintf(&b, "\noverall accuracy: %.1f%% (%d samples)\n",
		e.Accuracy()*100, len(e.records))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
