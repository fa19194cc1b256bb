package pipeline

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"objrec/internal/region"
)

// Annotate draws each region's recognition overlay onto a BGR frame in
// place: the primary axis through the centroid, the oriented bounding
// box, and a feature/label text block. Toggles in Params select which
// overlays are drawn.
func (p *Pipeline) Annotate(frame *gocv.Mat, regions []region.Region) {
	for _, reg := range regions {
		col := reg.DisplayColor
		cx := int(reg.Centroid.X)
		cy := int(reg.Centroid.Y)

		if p.params.ShowAxes {
			// Axis length: half the longer oriented-box side
			length := reg.OrientedBox.LongSide() / 2
			cosA := math.Cos(reg.Angle)
			sinA := math.Sin(reg.Angle)
			p1 := image.Pt(int(reg.Centroid.X-length*cosA), int(reg.Centroid.Y-length*sinA))
			p2 := image.Pt(int(reg.Centroid.X+length*cosA), int(reg.Centroid.Y+length*sinA))
			gocv.Line(frame, p1, p2, col, 2)
			gocv.Circle(frame, image.Pt(cx, cy), 5, col, -1)
		}

		if p.params.ShowOrientedBox {
			corners := reg.OrientedBox.Corners()
			for i := range corners {
				a := corners[i]
				b := corners[(i+1)%len(corners)]
				gocv.Line(frame,
					image.Pt(int(a.X), int(a.Y)),
					image.Pt(int(b.X), int(b.Y)),
					col, 2)
			}
		}

		if p.params.ShowFeatureText && len(reg.HuMoments) > 0 {
			tx := reg.BoundingBox.X
			ty := reg.BoundingBox.Y - 10
			if ty < 15 {
				ty = reg.BoundingBox.Y + reg.BoundingBox.Height + 20
			}
			put := func(txt string, line int) {
				gocv.PutText(frame, txt, image.Pt(tx, ty+line*18),
					gocv.FontHersheySimplex, 0.45, col, 1)
			}

			put(fmt.Sprintf("Fill:%.3f", reg.FillRatio), 0)
			put(fmt.Sprintf("BBox:%.3f", reg.BBoxRatio), 1)
			put(fmt.Sprintf("Hu0:%.4f", reg.HuMoments[0]), 2)

			labelTxt := reg.Label
			if reg.Label != "" && reg.Label != "unknown" && reg.Label != "no DB" {
				labelTxt = fmt.Sprintf("%s (%.2f)", reg.Label, reg.Confidence)
			}
			put(labelTxt, 3)
		}
	}
}
