// Package palm - decoding pipeline for the MediaPipe palm detection model.
package palm

import "github.com/go-playground/validator/v10"

// GridSpec describes one of the detector's output sub-grids.
type GridSpec struct {
	// Rows is the edge length of the square cell grid.
	Rows int `validate:"gt=0"`
	// Repeats is the number of anchors emitted per cell.
	Repeats int `validate:"gt=0"`
	// CellWidth is the grid spacing in model pixels.
	CellWidth int `validate:"gt=0"`
}

// Anchors returns the number of anchors the sub-grid contributes.
func (g GridSpec) Anchors() int {
	return g.Repeats * g.Rows * g.Rows
}

// Layout collects every fixed constant of the palm_detection_lite output
// contract in one auditable place. Row i of the regression and score
// tensors corresponds to anchor i of the grid built from Grids in order,
// so none of these values may drift independently of the model file.
type Layout struct {
	// InputSize is the square model input edge (192).
	InputSize int `validate:"gt=0"`
	// NumAnchors is the total output row count (2016).
	NumAnchors int `validate:"gt=0"`
	// RegressorCols is the width of a regression row: 4 box values
	// followed by 2 values per landmark (18).
	RegressorCols int `validate:"gt=0"`
	// ScoreCols is the width of a score row (1).
	ScoreCols int `validate:"gt=0"`
	// Grids are the sub-grids whose concatenation, in order, defines the
	// anchor sequence.
	Grids []GridSpec `validate:"min=1,dive"`
}

// DefaultLayout returns the layout of palm_detection_lite.onnx: a 192px
// input, a 24x24 grid with 2 anchors per cell and a 12x12 grid with 6,
// giving 1152 + 864 = 2016 rows of 18 regressors and 1 score each.
func DefaultLayout() Layout {
	return Layout{
		InputSize:     192,
		NumAnchors:    2016,
		RegressorCols: 18,
		ScoreCols:     1,
		Grids: []GridSpec{
			{Rows: 24, Repeats: 2, CellWidth: 8},
			{Rows: 12, Repeats: 6, CellWidth: 16},
		},
	}
}

var validate = validator.New()

// Validate checks the layout's struct constraints and that the sub-grids
// actually add up to NumAnchors.
//
// Returns:
//   - error: A validation error describing the first violated constraint.
func (l Layout) Validate() error {
	if err := validate.Struct(l); err != nil {
		return err
	}
	total := 0
	for _, g := range l.Grids {
		total += g.Anchors()
	}
	if total != l.NumAnchors {
		return errMismatchedGrid(total, l.NumAnchors)
	}
	return nil
}
