// Package render draws detection overlays onto live frames.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/handvision/go-palm/postprocess"
)

// Overlay colors match the reference visualization: yellow boxes,
// magenta landmark rings.
var (
	boxColor      = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	landmarkColor = color.RGBA{R: 255, G: 0, B: 255, A: 0}
	labelColor    = color.RGBA{R: 255, G: 255, B: 0, A: 0}
)

const landmarkRadius = 13

// DrawDetections paints boxes, landmark circles, and score labels for
// each detection onto img. Detections must already be in image space;
// the renderer does no coordinate work of its own.
//
// Arguments:
//   - img: The frame to draw on, modified in place.
//   - detections: Final detections in image pixel coordinates.
func DrawDetections(img *gocv.Mat, detections []postprocess.Detection) {
	for _, d := range detections {
		x1, y1, x2, y2 := d.Box.Corners()
		rect := image.Rect(int(x1), int(y1), int(x2), int(y2))
		gocv.Rectangle(img, rect, boxColor, 2)

		for _, lm := range d.Landmarks {
			gocv.Circle(img, image.Pt(int(lm.X), int(lm.Y)), landmarkRadius, landmarkColor, 2)
		}

		label := fmt.Sprintf("palm %.2f", d.Score)
		gocv.PutText(img, label, image.Pt(rect.Min.X, rect.Min.Y-6),
			gocv.FontHersheyPlain, 1.2, labelColor, 2)
	}
}
