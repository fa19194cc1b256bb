package region

import (
	"image/color"

	"gocv.io/x/gocv"
)

// BuildDisplay paints every kept region's pixels with its display color,
// producing a BGR image the same size as the label map. Background and
// filtered-out labels stay black.
func BuildDisplay(labelMap gocv.Mat, regions []Region) gocv.Mat {
	if labelMap.Empty() {
		return gocv.NewMat()
	}

	rows, cols := labelMap.Rows(), labelMap.Cols()
	dst := gocv.Zeros(rows, cols, gocv.MatTypeCV8UC3)

	maxLbl := 0
	for _, reg := range regions {
		if reg.ID > maxLbl {
			maxLbl = reg.ID
		}
	}
	colorMap := make([]color.RGBA, maxLbl+1)
	painted := make([]bool, maxLbl+1)
	for _, reg := range regions {
		colorMap[reg.ID] = reg.DisplayColor
		painted[reg.ID] = true
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lbl := int(labelMap.GetIntAt(r, c))
			if lbl <= 0 || lbl > maxLbl || !painted[lbl] {
				continue
			}
			col := colorMap[lbl]
			dst.SetUCharAt(r, c*3+0, col.B)
			dst.SetUCharAt(r, c*3+1, col.G)
			dst.SetUCharAt(r, c*3+2, col.R)
		}
	}
	return dst
}
