// Package images - Geometry and image processing utilities.
package images

import "github.com/chewxy/math32"

// Point is a 2D coordinate in either model space or image space.
type Point struct {
	X, Y float32
}

// Box is a lightweight bounding box stored as top-left corner plus size.
// Width and height are never negative; a zero-area box is legal and
// contributes nothing to an intersection.
type Box struct {
	X, Y, W, H float32
}

// Corners returns the (x1, y1, x2, y2) corner form of the box.
func (b Box) Corners() (float32, float32, float32, float32) {
	return b.X, b.Y, b.X + b.W, b.Y + b.H
}

// Area returns the area of the box.
func (b Box) Area() float32 {
	return b.W * b.H
}

// CalculateIoU computes the Intersection over Union of two boxes.
//
// IoU = Area of Intersection / Area of Union, a value in [0, 1] used to
// decide whether two detections describe the same object:
//
//   - 1.0: the boxes are identical.
//   - 0.0: the boxes do not overlap at all.
//
// The intersection corners come from the max of the top-left corners and
// the min of the bottom-right corners; a non-positive width or height
// means the boxes are disjoint. The union uses inclusion-exclusion:
// Area(A) + Area(B) - Area(Intersection).
//
// A zero union (both boxes degenerate) is defined as IoU = 0 rather than
// dividing to NaN.
//
// Arguments:
//   - b: The first box.
//   - o: The second box.
//
// Returns:
//   - float32: The IoU score in [0, 1].
func CalculateIoU(b, o Box) float32 {
	bx1, by1, bx2, by2 := b.Corners()
	ox1, oy1, ox2, oy2 := o.Corners()

	ix1 := math32.Max(bx1, ox1)
	iy1 := math32.Max(by1, oy1)
	ix2 := math32.Min(bx2, ox2)
	iy2 := math32.Min(by2, oy2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	unionArea := b.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}
