// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"sort"

	"github.com/handvision/go-palm/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	// ScoreThreshold discards candidates below this confidence.
	ScoreThreshold float32 `validate:"gte=0"`
	// IoUThreshold is the overlap at or above which a lower-scoring
	// candidate is suppressed.
	IoUThreshold float32 `validate:"gte=0,lte=1"`
	// MaxResults caps the accepted set; 0 means unlimited.
	MaxResults int `validate:"gte=0"`
}

// ApplyGreedyNMS filters overlapping detections using greedy
// Non-Maximum Suppression.
//
// Candidates are sorted descending by score with a stable sort, so ties
// keep their original index order and the result is deterministic. The
// highest-scoring candidate is accepted, then every remaining candidate
// whose IoU with it reaches the threshold is marked suppressed in a
// single pass over an alive/used marker array. The scan stops at the
// first candidate below the score threshold: everything after it in the
// sorted order scores lower and is discarded too.
//
// Arguments:
//   - detections: Candidate detections in any order.
//   - config: Score threshold, IoU threshold, and result cap.
//
// Returns:
//   - Accepted detections sorted descending by score, mutually
//     non-overlapping beyond the IoU threshold. Empty (not nil) when no
//     candidate clears the score threshold.
func ApplyGreedyNMS(detections []Detection, config *NMSConfig) []Detection {
	n := len(detections)
	if n == 0 {
		return []Detection{}
	}

	// Sort a copy; callers keep their decode-order slice.
	sorted := make([]Detection, n)
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	filtered := make([]Detection, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}
		if sorted[i].Score < config.ScoreThreshold {
			break
		}

		anchor := sorted[i]
		filtered = append(filtered, anchor)
		used[i] = true

		if config.MaxResults > 0 && len(filtered) >= config.MaxResults {
			break
		}

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if images.CalculateIoU(anchor.Box, sorted[j].Box) >= config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
