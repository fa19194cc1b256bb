package region

import (
	"gocv.io/x/gocv"
)

// TwoPassLabel assigns an integer label to every 4-connected foreground
// component of a binary mask. It returns a CV_32SC1 label map of the
// same size (0 = background, 1..n = components) and the component count.
// Label ids are compacted to a contiguous 1..n range.
func TwoPassLabel(mask gocv.Mat) (gocv.Mat, int) {
	if mask.Empty() {
		return gocv.NewMat(), 0
	}

	rows, cols := mask.Rows(), mask.Cols()
	px := make([]uint8, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px[r*cols+c] = mask.GetUCharAt(r, c)
		}
	}

	labels := make([]int32, rows*cols)

	// Worst case is a checkerboard: half the pixels get their own label
	uf := newUnionFind(rows*cols/2 + 2)
	nextLabel := 1 // 0 is background

	// Pass 1 — provisional labels from the already-visited left and top
	// neighbors; touching labels are recorded as equivalent.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			if px[idx] == 0 {
				continue
			}

			var left, top int32
			if c > 0 {
				left = labels[idx-1]
			}
			if r > 0 {
				top = labels[idx-cols]
			}

			switch {
			case left == 0 && top == 0:
				uf.ensure(nextLabel)
				labels[idx] = int32(nextLabel)
				nextLabel++
			case left != 0 && top == 0:
				labels[idx] = left
			case left == 0 && top != 0:
				labels[idx] = top
			default:
				// Both labeled: take the smaller canonical root and
				// record the equivalence. Pass 2 resolves either choice
				// to the same root.
				rootL := uf.find(int(left))
				rootT := uf.find(int(top))
				if rootL < rootT {
					labels[idx] = int32(rootL)
				} else {
					labels[idx] = int32(rootT)
				}
				if rootL != rootT {
					uf.unite(rootL, rootT)
				}
			}
		}
	}

	// Pass 2 — compact renumbering: sequential ids for root labels only,
	// then propagate through non-roots, then rewrite the whole map.
	remap := make([]int32, nextLabel)
	compact := 0
	for lbl := 1; lbl < nextLabel; lbl++ {
		if uf.find(lbl) == lbl {
			compact++
			remap[lbl] = int32(compact)
		}
	}
	for lbl := 1; lbl < nextLabel; lbl++ {
		remap[lbl] = remap[uf.find(lbl)]
	}

	labelMap := gocv.Zeros(rows, cols, gocv.MatTypeCV32S)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if lbl := labels[r*cols+c]; lbl > 0 {
				labelMap.SetIntAt(r, c, remap[lbl])
			}
		}
	}

	return labelMap, compact
}
