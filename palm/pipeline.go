package palm

import (
	"github.com/handvision/go-palm/postprocess"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Pipeline turns one frame's raw inference output into the final
// detection list: decode every anchor in model space, suppress
// duplicates, then map survivors to image pixel coordinates.
//
// The anchor grid is precomputed once and shared read-only across
// frames; everything else is per-call, so a Pipeline value is safe to
// reuse for every frame and each Run is independently reproducible.
type Pipeline struct {
	layout Layout
	grid   []Anchor
	nms    *postprocess.NMSConfig
}

// NewPipeline validates the layout and suppression config and
// precomputes the anchor grid.
//
// Arguments:
//   - layout: The model output contract.
//   - nms: Score threshold, IoU threshold, and result cap.
//
// Returns:
//   - *Pipeline: A reusable per-frame pipeline.
//   - error: A validation error if either config is malformed.
func NewPipeline(layout Layout, nms *postprocess.NMSConfig) (*Pipeline, error) {
	if err := layout.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model layout")
	}
	if err := validate.Struct(nms); err != nil {
		return nil, errors.Wrap(err, "invalid suppression config")
	}
	return &Pipeline{
		layout: layout,
		grid:   BuildAnchorGrid(layout),
		nms:    nms,
	}, nil
}

// Layout returns the model contract the pipeline was built with.
func (p *Pipeline) Layout() Layout {
	return p.layout
}

// ToImageSpace remaps a model-space detection into original-frame pixel
// coordinates: shift every coordinate by half the model input size to
// move from center-relative to top-left-relative model space, then scale
// per axis by imageDim/inputSize. The order matters; the shift happens
// in model pixels.
func (p *Pipeline) ToImageSpace(d postprocess.Detection, imgW, imgH int) postprocess.Detection {
	half := float32(p.layout.InputSize) / 2
	sx := float32(imgW) / float32(p.layout.InputSize)
	sy := float32(imgH) / float32(p.layout.InputSize)
	return d.Shift(half, half).Scale(sx, sy)
}

// Run executes the full decode pipeline for one frame.
//
// Arguments:
//   - reg: The raw (1, NumAnchors, RegressorCols) regression tensor.
//   - scores: The raw (1, NumAnchors, ScoreCols) score tensor.
//   - imgW: The original frame width in pixels.
//   - imgH: The original frame height in pixels.
//
// Returns:
//   - []postprocess.Detection: Survivors in image space, sorted
//     descending by score. Empty when nothing clears the score
//     threshold; that is a normal frame, not an error.
//   - error: A *ShapeError when the inference output violates the model
//     contract.
func (p *Pipeline) Run(reg, scores *tensor.Dense, imgW, imgH int) ([]postprocess.Detection, error) {
	candidates, err := Decode(reg, scores, p.grid, p.layout)
	if err != nil {
		return nil, err
	}

	kept := postprocess.ApplyGreedyNMS(candidates, p.nms)

	for i := range kept {
		kept[i] = p.ToImageSpace(kept[i], imgW, imgH)
	}
	return kept, nil
}
