// Package segments turns ordered boundary timestamps into contiguous track
// segments.
package segments

import "github.com/farcloser/strophe/internal/types"

// Assemble converts n boundary times into n-1 half-open segments. Fewer than
// two boundaries means no segmentation is possible and yields an empty list,
// which callers treat as a degenerate (not erroneous) result.
func Assemble(boundaries []float64) []types.Segment {
	if len(boundaries) < 2 {
		return []types.Segment{}
	}

	segs := make([]types.Segment, 0, len(boundaries)-1)

	for i := 0; i < len(boundaries)-1; i++ {
		segs = append(segs, types.Segment{
			StartTime: boundaries[i],
			EndTime:   boundaries[i+1],
			Duration:  boundaries[i+1] - boundaries[i],
			Index:     i,
		})
	}

	return segs
}
