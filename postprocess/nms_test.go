package postprocess

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handvision/go-palm/images"
)

func det(x, y, w, h, score float32) Detection {
	return Detection{Box: images.Box{X: x, Y: y, W: w, H: h}, Score: score}
}

// TestApplyGreedyNMSOrdering verifies output is sorted descending by
// score regardless of input order.
func TestApplyGreedyNMSOrdering(t *testing.T) {
	input := []Detection{
		det(0, 0, 10, 10, 0.5),
		det(100, 100, 10, 10, 0.9),
		det(200, 200, 10, 10, 0.7),
	}

	out := ApplyGreedyNMS(input, &NMSConfig{ScoreThreshold: 0.1, IoUThreshold: 0.5})
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}

	// The input slice keeps its decode order.
	assert.Equal(t, float32(0.5), input[0].Score)
}

// TestApplyGreedyNMSSuppression verifies no two survivors overlap at or
// beyond the IoU threshold.
func TestApplyGreedyNMSSuppression(t *testing.T) {
	input := []Detection{
		det(0, 0, 100, 100, 0.9),
		det(10, 10, 100, 100, 0.85), // heavy overlap with the first
		det(300, 300, 50, 50, 0.8),
	}
	cfg := &NMSConfig{ScoreThreshold: 0.5, IoUThreshold: 0.25}

	out := ApplyGreedyNMS(input, cfg)
	require.Len(t, out, 2)
	assert.Equal(t, float32(0.9), out[0].Score)
	assert.Equal(t, float32(0.8), out[1].Score)

	for i := range out {
		for j := i + 1; j < len(out); j++ {
			assert.Less(t, images.CalculateIoU(out[i].Box, out[j].Box), cfg.IoUThreshold)
		}
	}
}

// TestApplyGreedyNMSScoreThreshold checks the early stop: once the
// highest remaining score is below the threshold everything left is
// discarded, and an infinite threshold yields an empty result.
func TestApplyGreedyNMSScoreThreshold(t *testing.T) {
	input := []Detection{
		det(0, 0, 10, 10, 0.9),
		det(100, 0, 10, 10, 0.4),
		det(200, 0, 10, 10, 0.3),
	}

	out := ApplyGreedyNMS(input, &NMSConfig{ScoreThreshold: 0.5, IoUThreshold: 0.5})
	require.Len(t, out, 1)
	assert.Equal(t, float32(0.9), out[0].Score)

	out = ApplyGreedyNMS(input, &NMSConfig{ScoreThreshold: math32.Inf(1), IoUThreshold: 0.5})
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

// TestApplyGreedyNMSZeroIoUThreshold: with threshold 0 every remaining
// candidate is suppressed after the first acceptance, so a fully
// overlapping cluster collapses to exactly one detection.
func TestApplyGreedyNMSZeroIoUThreshold(t *testing.T) {
	input := []Detection{
		det(0, 0, 10, 10, 0.9),
		det(0, 0, 10, 10, 0.8),
		det(1, 1, 10, 10, 0.7),
	}

	out := ApplyGreedyNMS(input, &NMSConfig{ScoreThreshold: 0.1, IoUThreshold: 0})
	require.Len(t, out, 1)
	assert.Equal(t, float32(0.9), out[0].Score)
}

// TestApplyGreedyNMSStableTies: equal scores keep their original index
// order, so the result is deterministic.
func TestApplyGreedyNMSStableTies(t *testing.T) {
	input := []Detection{
		det(0, 0, 10, 10, 0.8),
		det(100, 0, 10, 10, 0.8),
		det(200, 0, 10, 10, 0.8),
	}

	out := ApplyGreedyNMS(input, &NMSConfig{ScoreThreshold: 0.1, IoUThreshold: 0.9})
	require.Len(t, out, 3)
	assert.Equal(t, float32(0), out[0].Box.X)
	assert.Equal(t, float32(100), out[1].Box.X)
	assert.Equal(t, float32(200), out[2].Box.X)
}

func TestApplyGreedyNMSMaxResults(t *testing.T) {
	var input []Detection
	for i := 0; i < 10; i++ {
		input = append(input, det(float32(i*100), 0, 10, 10, 0.9-float32(i)*0.01))
	}

	out := ApplyGreedyNMS(input, &NMSConfig{ScoreThreshold: 0.1, IoUThreshold: 0.5, MaxResults: 4})
	assert.Len(t, out, 4)
}

func TestApplyGreedyNMSEmptyInput(t *testing.T) {
	out := ApplyGreedyNMS(nil, &NMSConfig{ScoreThreshold: 0.5, IoUThreshold: 0.5})
	assert.Empty(t, out)
}
