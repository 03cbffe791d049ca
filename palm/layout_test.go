package palm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayoutValid(t *testing.T) {
	require.NoError(t, DefaultLayout().Validate())
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Layout)
	}{
		{
			name:   "zero input size",
			mutate: func(l *Layout) { l.InputSize = 0 },
		},
		{
			name:   "no grids",
			mutate: func(l *Layout) { l.Grids = nil },
		},
		{
			name:   "negative cell width",
			mutate: func(l *Layout) { l.Grids[0].CellWidth = -8 },
		},
		{
			name:   "grid total disagrees with anchor count",
			mutate: func(l *Layout) { l.NumAnchors = 2000 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := DefaultLayout()
			tt.mutate(&layout)
			assert.Error(t, layout.Validate())
		})
	}
}
