package eval

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededEvaluator() *Evaluator {
	e := New()
	e.Record("bolt", "bolt", 0.9)
	e.Record("bolt", "bolt", 0.8)
	e.Record("bolt", "nut", 0.4)
	e.Record("nut", "nut", 0.7)
	e.Record("nut", "unknown", 0.1)
	return e
}

func TestBuildMatrixCountsAndRowSums(t *testing.T) {
	e := seededEvaluator()
	labels, matrix := e.BuildMatrix()
	require.Equal(t, []string{"bolt", "nut", "unknown"}, labels)

	// Each row sums to the number of records with that true label
	rowSums := map[string]int{"bolt": 3, "nut": 2, "unknown": 0}
	for i, l := range labels {
		sum := 0
		for _, n := range matrix[i] {
			sum += n
		}
		assert.Equal(t, rowSums[l], sum, "row %s", l)
	}

	assert.Equal(t, 2, matrix[0][0], "bolt classified as bolt")
	assert.Equal(t, 1, matrix[0][1], "bolt misclassified as nut")
	assert.Equal(t, 1, matrix[1][2], "nut rejected as unknown")
}

func TestAccuracy(t *testing.T) {
	e := seededEvaluator()
	assert.InDelta(t, 3.0/5.0, e.Accuracy(), 1e-12)
	assert.Equal(t, 5, e.Len())

	empty := New()
	assert.Equal(t, 0.0, empty.Accuracy())
}

func TestNewLabelMidSessionGrowsMatrix(t *testing.T) {
	e := New()
	e.Record("bolt", "bolt", 0.9)
	labels, _ := e.BuildMatrix()
	require.Len(t, labels, 1)

	e.Record("washer", "bolt", 0.3)
	labels, matrix := e.BuildMatrix()
	require.Equal(t, []string{"bolt", "washer"}, labels)
	assert.Equal(t, 1, matrix[1][0], "washer misclassified as bolt")
	assert.Equal(t, 0, matrix[1][1])
}

func TestSaveMatrixCSV(t *testing.T) {
	e := seededEvaluator()
	path := filepath.Join(t.TempDir(), "out", "confusion.csv")
	require.NoError(t, e.SaveMatrix(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "header, three label rows, overall row")

	assert.Equal(t,
		[]string{"true/predicted", "bolt", "nut", "unknown", "accuracy"}, rows[0])
	assert.Equal(t, []string{"bolt", "2", "1", "0", "0.67"}, rows[1])
	assert.Equal(t, []string{"nut", "0", "1", "1", "0.50"}, rows[2])
	assert.Equal(t, []string{"unknown", "0", "0", "0", "0.00"}, rows[3])
	assert.Equal(t, []string{"overall", "", "", "", "0.60"}, rows[4])
}

func TestStringRendering(t *testing.T) {
	e := seededEvaluator()
	out := e.String()
	assert.Contains(t, out, "Confusion Matrix")
	assert.Contains(t, out, "[2]", "diagonal counts are bracketed")
	assert.Contains(t, out, "overall accuracy: 60.0% (5 samples)")

	assert.Equal(t, "no evaluation records\n", New().String())
}
