// Package features computes the fixed battery of spectral, rhythmic and
// tonal descriptors for a track, per frame and as whole-track summaries.
package features

import (
	"math"

	"github.com/farcloser/strophe/internal/types"
)

// Extract computes every per-frame descriptor over one waveform, attaching
// the supplied rhythm analysis. It never fails on valid input: degenerate
// (silent) frames produce zeros, and no NaN ever reaches the result.
func Extract(samples []float64, spec types.FrameSpec, rhythm *types.TempoResult) *types.FeatureSet {
	frames := spec.Frames(len(samples))
	binHz := float64(spec.SampleRate) / float64(spec.WindowSize)

	set := &types.FeatureSet{
		Spec:       spec,
		Centroid:   make([]float64, frames),
		Rolloff:    make([]float64, frames),
		Bandwidth:  make([]float64, frames),
		ZCR:        make([]float64, frames),
		RMS:        make([]float64, frames),
		MFCC:       makeMatrix(types.MFCCCount, frames),
		Chroma:     makeMatrix(types.ChromaBins, frames),
		Tonnetz:    makeMatrix(types.TonnetzDims, frames),
		Duration:   float64(len(samples)) / float64(spec.SampleRate),
		Tempo:      rhythm.BPM,
		BeatFrames: rhythm.BeatFrames,
		OnsetTimes: rhythm.OnsetTimes,
	}

	if frames == 0 {
		return set
	}

	magnitudes := spectrogram(samples, spec)

	bank := melFilterbank(len(magnitudes[0]), spec.WindowSize, spec.SampleRate)
	classes := chromaBinMap(len(magnitudes[0]), spec.WindowSize, spec.SampleRate)

	mfcc := make([]float64, types.MFCCCount)
	chroma := make([]float64, types.ChromaBins)
	tonnetz := make([]float64, types.TonnetzDims)

	for f := range frames {
		start := f * spec.HopLength
		frame := samples[start : start+spec.WindowSize]
		spectrum := magnitudes[f]

		set.RMS[f] = frameRMS(frame)
		set.ZCR[f] = zeroCrossingRate(frame)

		// Silent frame: every spectral descriptor stays zero.
		if set.RMS[f] == 0 {
			continue
		}

		set.Centroid[f] = spectralCentroid(spectrum, binHz)
		set.Rolloff[f] = spectralRolloff(spectrum, binHz)
		set.Bandwidth[f] = spectralBandwidth(spectrum, binHz, set.Centroid[f])

		mfccFrame(spectrum, bank, mfcc)
		for c := range mfcc {
			set.MFCC[c][f] = mfcc[c]
		}

		chromaFrame(spectrum, classes, chroma)
		for b := range chroma {
			set.Chroma[b][f] = chroma[b]
		}

		tonnetzFrame(chroma, tonnetz)
		for d := range tonnetz {
			set.Tonnetz[d][f] = tonnetz[d]
		}
	}

	sanitize(set)

	return set
}

func makeMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}

	return m
}

// sanitize replaces any non-finite value with zero. Downstream serialization
// promises finite floats; a NaN here would be an algorithm bug, but it must
// never leak into a result either way.
func sanitize(set *types.FeatureSet) {
	for _, series := range [][]float64{set.Centroid, set.Rolloff, set.Bandwidth, set.ZCR, set.RMS} {
		sanitizeSeries(series)
	}

	for _, matrix := range [][][]float64{set.MFCC, set.Chroma, set.Tonnetz} {
		for _, series := range matrix {
			sanitizeSeries(series)
		}
	}
}

func sanitizeSeries(x []float64) {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			x[i] = 0
		}
	}
}
