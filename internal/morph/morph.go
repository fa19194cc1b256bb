// Package morph implements binary morphological filtering. Erosion and
// dilation are written out pixel-by-pixel rather than delegating to
// OpenCV's morphology primitives, so the border and kernel behavior is
// fully under our control.
package morph

import (
	"gocv.io/x/gocv"
)

// Op selects how erosion and dilation are composed.
type Op int

const (
	// OpOpen erodes then dilates, removing small noise blobs while
	// preserving larger shapes.
	OpOpen Op = iota
	// OpClose dilates then erodes, filling small holes.
	OpClose
	// OpErode applies erosion only.
	OpErode
	// OpDilate applies dilation only.
	OpDilate
)

// String returns a short operation name for overlays and logs.
func (o Op) String() string {
	switch o {
	case OpClose:
		return "close"
	case OpErode:
		return "erode"
	case OpDilate:
		return "dilate"
	default:
		return "open"
	}
}

// MaxKernel is the largest accepted structuring element size.
const MaxKernel = 21

// MaxIterations caps how many times an operation is applied in sequence.
const MaxIterations = 10

// Options configures mask cleanup.
type Options struct {
	Kernel     int // structuring element size (forced odd, 1..21)
	Iterations int // times each operation is applied (1..10)
	Op         Op
}

// DefaultOptions returns cleanup defaults that remove speckle noise from
// a typical thresholded frame.
func DefaultOptions() Options {
	return Options{
		Kernel:     5,
		Iterations: 3,
		Op:         OpOpen,
	}
}

// Apply cleans a binary mask. The output has identical dimensions to the
// input; the input is left untouched.
func Apply(mask gocv.Mat, opts Options) gocv.Mat {
	if mask.Empty() {
		return gocv.NewMat()
	}

	k := oddKernel(opts.Kernel)
	iters := clampIters(opts.Iterations)
	rows, cols := mask.Rows(), mask.Cols()

	px := maskToBytes(mask)
	switch opts.Op {
	case OpClose:
		px = dilatePasses(px, rows, cols, k, iters)
		px = erodePasses(px, rows, cols, k, iters)
	case OpErode:
		px = erodePasses(px, rows, cols, k, iters)
	case OpDilate:
		px = dilatePasses(px, rows, cols, k, iters)
	default:
		px = erodePasses(px, rows, cols, k, iters)
		px = dilatePasses(px, rows, cols, k, iters)
	}
	return bytesToMask(px, rows, cols)
}

// Erode applies iterative erosion with a k x k structuring element.
func Erode(mask gocv.Mat, kernel, iterations int) gocv.Mat {
	if mask.Empty() {
		return gocv.NewMat()
	}
	rows, cols := mask.Rows(), mask.Cols()
	px := erodePasses(maskToBytes(mask), rows, cols, oddKernel(kernel), clampIters(iterations))
	return bytesToMask(px, rows, cols)
}

// Dilate applies iterative dilation with a k x k structuring element.
func Dilate(mask gocv.Mat, kernel, iterations int) gocv.Mat {
	if mask.Empty() {
		return gocv.NewMat()
	}
	rows, cols := mask.Rows(), mask.Cols()
	px := dilatePasses(maskToBytes(mask), rows, cols, oddKernel(kernel), clampIters(iterations))
	return bytesToMask(px, rows, cols)
}

func erodePasses(px []uint8, rows, cols, k, iters int) []uint8 {
	for i := 0; i < iters; i++ {
		px = erodeOnce(px, rows, cols, k)
	}
	return px
}

func dilatePasses(px []uint8, rows, cols, k, iters int) []uint8 {
	for i := 0; i < iters; i++ {
		px = dilateOnce(px, rows, cols, k)
	}
	return px
}

// erodeOnce keeps a pixel only if every pixel under the k x k window is
// foreground. Samples outside the image count as foreground so the
// border is not spuriously eroded.
func erodeOnce(src []uint8, rows, cols, k int) []uint8 {
	half := k / 2
	dst := make([]uint8, len(src))

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			allFg := true
			for dr := -half; dr <= half && allFg; dr++ {
				rr := r + dr
				for dc := -half; dc <= half; dc++ {
					cc := c + dc
					if rr < 0 || rr >= rows || cc < 0 || cc >= cols {
						continue // out of bounds counts as 255
					}
					if src[rr*cols+cc] == 0 {
						allFg = false
						break
					}
				}
			}
			if allFg {
				dst[r*cols+c] = 255
			}
		}
	}
	return dst
}

// dilateOnce sets a pixel if any pixel under the k x k window is
// foreground. Samples outside the image count as background so the
// border is not spuriously dilated.
func dilateOnce(src []uint8, rows, cols, k int) []uint8 {
	half := k / 2
	dst := make([]uint8, len(src))

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			anyFg := false
			for dr := -half; dr <= half && !anyFg; dr++ {
				rr := r + dr
				if rr < 0 || rr >= rows {
					continue // out of bounds counts as 0
				}
				for dc := -half; dc <= half; dc++ {
					cc := c + dc
					if cc < 0 || cc >= cols {
						continue
					}
					if src[rr*cols+cc] == 255 {
						anyFg = true
						break
					}
				}
			}
			if anyFg {
				dst[r*cols+c] = 255
			}
		}
	}
	return dst
}

// maskToBytes copies a CV_8UC1 mask into a flat row-major buffer.
func maskToBytes(mask gocv.Mat) []uint8 {
	rows, cols := mask.Rows(), mask.Cols()
	px := make([]uint8, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px[r*cols+c] = mask.GetUCharAt(r, c)
		}
	}
	return px
}

// bytesToMask writes a flat row-major buffer back into a fresh CV_8UC1 Mat.
func bytesToMask(px []uint8, rows, cols int) gocv.Mat {
	mask := gocv.Zeros(rows, cols, gocv.MatTypeCV8U)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if px[r*cols+c] != 0 {
				mask.SetUCharAt(r, c, 255)
			}
		}
	}
	return mask
}

func oddKernel(k int) int {
	if k < 1 {
		k = 1
	}
	if k%2 == 0 {
		k++
	}
	if k > MaxKernel {
		k = MaxKernel
	}
	return k
}

func clampIters(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxIterations {
		return MaxIterations
	}
	return n
}
