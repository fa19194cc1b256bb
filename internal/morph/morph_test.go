package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// maskFromStrings builds a CV_8UC1 mask from string art: '#' marks
// foreground.
func maskFromStrings(rows []string) gocv.Mat {
	mask := gocv.Zeros(len(rows), len(rows[0]), gocv.MatTypeCV8U)
	for r, row := range rows {
		for c := 0; c < len(row); c++ {
			if row[c] == '#' {
				mask.SetUCharAt(r, c, 255)
			}
		}
	}
	return mask
}

func maskEqual(t *testing.T, a, b gocv.Mat) {
	t.Helper()
	require.Equal(t, a.Rows(), b.Rows())
	require.Equal(t, a.Cols(), b.Cols())
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			require.Equal(t, a.GetUCharAt(r, c), b.GetUCharAt(r, c),
				"pixel (%d,%d)", r, c)
		}
	}
}

func foregroundCount(mask gocv.Mat) int {
	n := 0
	for r := 0; r < mask.Rows(); r++ {
		for c := 0; c < mask.Cols(); c++ {
			if mask.GetUCharAt(r, c) == 255 {
				n++
			}
		}
	}
	return n
}

func TestErodeRemovesIsolatedPixel(t *testing.T) {
	mask := maskFromStrings([]string{
		".....",
		".....",
		"..#..",
		".....",
		".....",
	})
	defer mask.Close()

	eroded := Erode(mask, 3, 1)
	defer eroded.Close()
	assert.Equal(t, 0, foregroundCount(eroded))
}

func TestErodeShrinksSolidBlock(t *testing.T) {
	mask := maskFromStrings([]string{
		".......",
		".#####.",
		".#####.",
		".#####.",
		".#####.",
		".#####.",
		".......",
	})
	defer mask.Close()

	eroded := Erode(mask, 3, 1)
	defer eroded.Close()

	// 5x5 block shrinks to 3x3 centered on the same spot
	assert.Equal(t, 9, foregroundCount(eroded))
	assert.EqualValues(t, 255, eroded.GetUCharAt(3, 3))
	assert.EqualValues(t, 0, eroded.GetUCharAt(1, 1))
}

func TestErodeBorderCountsAsForeground(t *testing.T) {
	// A fully foreground mask must survive erosion untouched; the
	// implicit border padding must not eat into the edges.
	mask := maskFromStrings([]string{
		"#####",
		"#####",
		"#####",
	})
	defer mask.Close()

	eroded := Erode(mask, 3, 1)
	defer eroded.Close()
	assert.Equal(t, 15, foregroundCount(eroded))
}

func TestDilateGrowsSinglePixel(t *testing.T) {
	mask := maskFromStrings([]string{
		".....",
		".....",
		"..#..",
		".....",
		".....",
	})
	defer mask.Close()

	dilated := Dilate(mask, 3, 1)
	defer dilated.Close()
	assert.Equal(t, 9, foregroundCount(dilated))
}

func TestDilateBorderCountsAsBackground(t *testing.T) {
	// An empty mask must stay empty; the implicit border padding must
	// not leak foreground in from the edges.
	mask := maskFromStrings([]string{
		".....",
		".....",
		".....",
	})
	defer mask.Close()

	dilated := Dilate(mask, 3, 1)
	defer dilated.Close()
	assert.Equal(t, 0, foregroundCount(dilated))
}

func TestOpenRemovesSpeckleKeepsBlock(t *testing.T) {
	mask := maskFromStrings([]string{
		"#.........",
		"..........",
		"...#####..",
		"...#####..",
		"...#####..",
		"...#####..",
		"...#####..",
		"..........",
	})
	defer mask.Close()

	opened := Apply(mask, Options{Kernel: 3, Iterations: 1, Op: OpOpen})
	defer opened.Close()

	// Speckle gone, block intact (a square is closed under opening
	// with a smaller square element)
	assert.EqualValues(t, 0, opened.GetUCharAt(0, 0))
	assert.Equal(t, 25, foregroundCount(opened))
}

func TestCloseFillsSmallHole(t *testing.T) {
	mask := maskFromStrings([]string{
		".........",
		".#######.",
		".#######.",
		".###.###.",
		".#######.",
		".#######.",
		".........",
	})
	defer mask.Close()

	closed := Apply(mask, Options{Kernel: 3, Iterations: 1, Op: OpClose})
	defer closed.Close()
	assert.EqualValues(t, 255, closed.GetUCharAt(3, 4), "hole should be filled")
}

func TestCloseIsStableWhenRepeated(t *testing.T) {
	mask := maskFromStrings([]string{
		"..........",
		".###..##..",
		".###..##..",
		".###......",
		"....##....",
		"....##....",
		"..........",
	})
	defer mask.Close()

	once := Apply(mask, Options{Kernel: 3, Iterations: 1, Op: OpClose})
	defer once.Close()
	twice := Apply(once, Options{Kernel: 3, Iterations: 1, Op: OpClose})
	defer twice.Close()

	// Closing is idempotent: a second application changes nothing and
	// in particular never removes foreground produced by the first.
	maskEqual(t, once, twice)
}

func TestApplyPreservesDimensions(t *testing.T) {
	mask := gocv.Zeros(17, 31, gocv.MatTypeCV8U)
	defer mask.Close()

	for _, op := range []Op{OpOpen, OpClose, OpErode, OpDilate} {
		out := Apply(mask, Options{Kernel: 5, Iterations: 2, Op: op})
		assert.Equal(t, 17, out.Rows(), op.String())
		assert.Equal(t, 31, out.Cols(), op.String())
		out.Close()
	}
}

func TestKernelAndIterationClamping(t *testing.T) {
	assert.Equal(t, 1, oddKernel(0))
	assert.Equal(t, 3, oddKernel(2))
	assert.Equal(t, MaxKernel, oddKernel(99))
	assert.Equal(t, 1, clampIters(-5))
	assert.Equal(t, MaxIterations, clampIters(50))
}
