package palm

import (
	"fmt"

	"github.com/handvision/go-palm/images"
	"github.com/handvision/go-palm/postprocess"
	"gorgonia.org/tensor"
)

// ShapeError reports a model output tensor that violates the fixed
// layout contract. It is fatal for the frame: a shape break means the
// model or its integration changed, not transient noise, so it must
// surface to the caller instead of decaying into an empty result.
type ShapeError struct {
	// Tensor names the offending output ("regressors" or "scores").
	Tensor string
	// Got is the shape the runtime produced.
	Got tensor.Shape
	// Want is the shape the layout demands.
	Want tensor.Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s tensor has shape %v, model contract requires %v", e.Tensor, e.Got, e.Want)
}

// checkShape compares a tensor against the contract shape, including
// the element type, which must be float32.
func checkShape(name string, t *tensor.Dense, want tensor.Shape) ([]float32, error) {
	if !t.Shape().Eq(want) {
		return nil, &ShapeError{Tensor: name, Got: t.Shape(), Want: want}
	}
	data, ok := t.Data().([]float32)
	if !ok {
		return nil, &ShapeError{Tensor: name, Got: t.Shape(), Want: want}
	}
	return data, nil
}

// Decode translates the detector's raw output tensors into one candidate
// detection per anchor, in model space.
//
// For output row i:
//   - box center = anchor i + regressors[i][0:2]
//   - box size = regressors[i][2:4] (absolute, not anchor-relative)
//   - box = {cx - w/2, cy - h/2, w, h}
//   - landmark j = center + regressors[i][4+2j : 4+2j+2]
//   - score = scores[i][0], treated purely as an ordering key
//
// Output order matches input row order; no thresholding or sorting
// happens here.
//
// Arguments:
//   - reg: The (1, NumAnchors, RegressorCols) regression tensor.
//   - scores: The (1, NumAnchors, ScoreCols) score tensor.
//   - grid: The anchor grid built from the same layout.
//   - layout: The model layout the tensors are validated against.
//
// Returns:
//   - []postprocess.Detection: One candidate per anchor, index-aligned
//     with the grid.
//   - error: A *ShapeError if either tensor deviates from the contract.
func Decode(reg, scores *tensor.Dense, grid []Anchor, layout Layout) ([]postprocess.Detection, error) {
	regData, err := checkShape("regressors", reg, tensor.Shape{1, layout.NumAnchors, layout.RegressorCols})
	if err != nil {
		return nil, err
	}
	scoreData, err := checkShape("scores", scores, tensor.Shape{1, layout.NumAnchors, layout.ScoreCols})
	if err != nil {
		return nil, err
	}
	if len(grid) != layout.NumAnchors {
		return nil, errMismatchedGrid(len(grid), layout.NumAnchors)
	}

	cols := layout.RegressorCols
	out := make([]postprocess.Detection, layout.NumAnchors)
	for i := 0; i < layout.NumAnchors; i++ {
		row := regData[i*cols : (i+1)*cols]

		cx := grid[i].DX + row[0]
		cy := grid[i].DY + row[1]
		w := row[2]
		h := row[3]

		d := postprocess.Detection{
			Box: images.Box{
				X: cx - w/2,
				Y: cy - h/2,
				W: w,
				H: h,
			},
			Score: scoreData[i*layout.ScoreCols],
		}
		for j := 0; j < postprocess.NumLandmarks; j++ {
			d.Landmarks[j] = images.Point{
				X: cx + row[4+2*j],
				Y: cy + row[4+2*j+1],
			}
		}
		out[i] = d
	}
	return out, nil
}
