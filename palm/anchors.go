package palm

import "github.com/pkg/errors"

// Anchor is a fixed center offset on the detector's output grid, in
// model pixels relative to the input center. The model regresses box
// sizes absolutely, so anchors carry no extent of their own.
type Anchor struct {
	DX, DY float32
}

func errMismatchedGrid(got, want int) error {
	return errors.Errorf("grid specs produce %d anchors, layout expects %d", got, want)
}

// BuildAnchorGrid generates the anchor sequence for the given layout.
//
// Each sub-grid is walked with a flat index j in row-major order, with
// Repeats identical anchors per cell before the column advances:
// col = (j/repeats) % rows, row = (j/repeats) / rows. The offset for a
// cell coordinate c is cellWidth * (c - (rows-1)/2), centering the grid
// on the model input. Sub-grids are concatenated in layout order.
//
// The resulting order is a bit-exact contract with the model: output row
// i of the regression and score tensors pairs with anchor i.
//
// Arguments:
//   - layout: The model layout; must already be validated.
//
// Returns:
//   - []Anchor: Exactly layout.NumAnchors entries.
func BuildAnchorGrid(layout Layout) []Anchor {
	grid := make([]Anchor, 0, layout.NumAnchors)
	for _, spec := range layout.Grids {
		rows := spec.Rows
		cell := float32(spec.CellWidth)
		half := float32(rows-1) * 0.5
		for j := 0; j < spec.Anchors(); j++ {
			col := (j / spec.Repeats) % rows
			row := (j / spec.Repeats) / rows
			grid = append(grid, Anchor{
				DX: cell * (float32(col) - half),
				DY: cell * (float32(row) - half),
			})
		}
	}
	return grid
}
