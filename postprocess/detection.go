// Package postprocess - Detection results and Non-Maximum Suppression.
package postprocess

import "github.com/handvision/go-palm/images"

// NumLandmarks is the number of keypoints the palm detector regresses
// per detection (wrist, four finger bases, and two palm points).
const NumLandmarks = 7

// Detection is a single decoded palm candidate: a bounding box, its
// landmark points, and a confidence score. Box and landmarks always
// share one coordinate space, either model space or image space.
//
// Detection is an immutable value type; Shift and Scale return new
// instances instead of mutating in place.
type Detection struct {
	// The bounding box of the detection.
	Box images.Box
	// The landmark points of the detection, in fixed model order.
	Landmarks [NumLandmarks]images.Point
	// The confidence score of the detection, used as an ordering key.
	Score float32
}

// Shift returns a copy of the detection translated by (dx, dy). The box
// size is unchanged; every landmark moves with the box.
func (d Detection) Shift(dx, dy float32) Detection {
	out := d
	out.Box.X += dx
	out.Box.Y += dy
	for i := range out.Landmarks {
		out.Landmarks[i].X += dx
		out.Landmarks[i].Y += dy
	}
	return out
}

// Scale returns a copy of the detection with every coordinate scaled by
// the per-axis factors. Box width and height scale by the same factors;
// landmarks scale as points.
func (d Detection) Scale(sx, sy float32) Detection {
	out := d
	out.Box.X *= sx
	out.Box.Y *= sy
	out.Box.W *= sx
	out.Box.H *= sy
	for i := range out.Landmarks {
		out.Landmarks[i].X *= sx
		out.Landmarks[i].Y *= sy
	}
	return out
}
