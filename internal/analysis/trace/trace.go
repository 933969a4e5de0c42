// Package trace projects a feature set into the compact, stable shape
// visualizer renderers consume. Renderers must not depend on the full
// feature schema, so the trace carries only times, loudness and the spectral
// descriptors they draw from.
package trace

import "github.com/farcloser/strophe/internal/types"

// Build assembles the renderer-facing trace. The underlying arrays are
// shared with the feature set, not recomputed.
func Build(set *types.FeatureSet) *types.Trace {
	frames := len(set.RMS)

	times := make([]float64, frames)
	for i := range times {
		times[i] = set.Spec.Time(i)
	}

	return &types.Trace{
		Times:    times,
		RMS:      set.RMS,
		Centroid: set.Centroid,
		Rolloff:  set.Rolloff,
		MFCC:     set.MFCC,
	}
}
