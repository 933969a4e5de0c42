// Package energy builds the frame-wise loudness profile that boundary
// detection operates on.
package energy

import (
	"math"

	"github.com/farcloser/strophe/internal/stats"
	"github.com/farcloser/strophe/internal/types"
)

// smoothingSigma suppresses frame-to-frame jitter while keeping macro-level
// transitions intact.
const smoothingSigma = 1.5

// Profile computes RMS energy per frame, converts it to dB relative to the
// track's own peak RMS, and Gaussian-smooths the series. A silent track
// yields a flat profile pinned at types.Floor rather than an error.
func Profile(samples []float64, spec types.FrameSpec) *types.EnergyProfile {
	frames := spec.Frames(len(samples))

	rms := make([]float64, frames)

	var maxRms float64

	for i := range frames {
		start := i * spec.HopLength

		var sum float64
		for _, s := range samples[start : start+spec.WindowSize] {
			sum += s * s
		}

		rms[i] = math.Sqrt(sum / float64(spec.WindowSize))
		if rms[i] > maxRms {
			maxRms = rms[i]
		}
	}

	db := toRelativeDb(rms, maxRms)

	profile := &types.EnergyProfile{
		Spec:  spec,
		Times: make([]float64, frames),
		RmsDb: stats.GaussianSmooth(db, smoothingSigma),
	}

	for i := range profile.Times {
		profile.Times[i] = spec.Time(i)
	}

	return profile
}

// toRelativeDb converts RMS values to dB below the peak frame. Non-finite
// values (zero-energy frames) are replaced with the minimum finite value in
// the series so that -Inf never dominates downstream statistics; an entirely
// silent series collapses to the floor.
func toRelativeDb(rms []float64, maxRms float64) []float64 {
	db := make([]float64, len(rms))
	minFinite := math.Inf(1)

	for i, r := range rms {
		if maxRms > 0 && r > 0 {
			db[i] = 20 * math.Log10(r/maxRms)
			if db[i] < minFinite {
				minFinite = db[i]
			}
		} else {
			db[i] = math.Inf(-1)
		}
	}

	if math.IsInf(minFinite, 1) {
		minFinite = types.Floor
	}

	for i, v := range db {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			db[i] = minFinite
		}
	}

	return db
}
