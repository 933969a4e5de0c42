// Package tempo estimates the global tempo of a track and locates beats and
// onsets from an RMS-derived onset strength envelope.
package tempo

import (
	"math"

	"github.com/farcloser/strophe/internal/stats"
	"github.com/farcloser/strophe/internal/types"
)

const (
	minBPM = 30.0
	maxBPM = 240.0
)

// Estimate analyzes the waveform and returns tempo, beat frames, onset times
// and the onset strength envelope. Undetectable tempo (silence, tracks
// shorter than a couple of beat periods) is reported as BPM 0, not an error.
func Estimate(samples []float64, spec types.FrameSpec) *types.TempoResult {
	envelope := onsetEnvelope(samples, spec)

	result := &types.TempoResult{
		Envelope:   envelope,
		BeatFrames: []int{},
		OnsetTimes: []float64{},
	}

	framesPerSec := float64(spec.SampleRate) / float64(spec.HopLength)

	bpm, periodFrames := autocorrelate(envelope, framesPerSec)
	result.BPM = bpm

	if periodFrames > 0 {
		result.BeatFrames = pickBeats(envelope, periodFrames)
	}

	result.OnsetTimes = pickOnsets(envelope, spec, framesPerSec)

	return result
}

// onsetEnvelope is the half-wave rectified first difference of the per-frame
// RMS energy: positive energy jumps mark note and percussion onsets.
func onsetEnvelope(samples []float64, spec types.FrameSpec) []float64 {
	frames := spec.Frames(len(samples))
	rms := make([]float64, frames)

	for i := range frames {
		start := i * spec.HopLength

		var sum float64
		for _, s := range samples[start : start+spec.WindowSize] {
			sum += s * s
		}

		rms[i] = math.Sqrt(sum / float64(spec.WindowSize))
	}

	envelope := make([]float64, frames)
	for i := 1; i < frames; i++ {
		if diff := rms[i] - rms[i-1]; diff > 0 {
			envelope[i] = diff
		}
	}

	return envelope
}

// autocorrelate scans beat-period lags in the 30-240 BPM range and returns
// the best tempo plus its period in frames (0, 0 when nothing periodic is
// found).
func autocorrelate(envelope []float64, framesPerSec float64) (bpm float64, periodFrames int) {
	minLag := int(framesPerSec * 60.0 / maxBPM)
	maxLag := int(framesPerSec * 60.0 / minBPM)

	minLag = max(minLag, 1)

	if maxLag >= len(envelope)/2 {
		maxLag = len(envelope)/2 - 1
	}

	if minLag >= maxLag {
		return 0, 0
	}

	var total float64
	for _, v := range envelope {
		total += v
	}

	if total == 0 {
		return 0, 0
	}

	bestLag := 0
	bestCorr := 0.0

	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64

		for i := 0; i+lag < len(envelope); i++ {
			corr += envelope[i] * envelope[i+lag]
		}

		corr /= float64(len(envelope) - lag)

		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr == 0 {
		return 0, 0
	}

	return framesPerSec * 60.0 / float64(bestLag), bestLag
}

// pickBeats selects envelope peaks roughly one beat period apart.
func pickBeats(envelope []float64, periodFrames int) []int {
	distance := max(int(0.8*float64(periodFrames)), 1)
	height := stats.Mean(envelope)

	peaks := stats.FindPeaks(envelope, height, distance, 0)

	beats := make([]int, len(peaks))
	for i, p := range peaks {
		beats[i] = p.Index
	}

	return beats
}

// pickOnsets selects envelope peaks that clear mean + one standard deviation,
// at least 50 ms apart.
func pickOnsets(envelope []float64, spec types.FrameSpec, framesPerSec float64) []float64 {
	if len(envelope) == 0 {
		return []float64{}
	}

	height := stats.Mean(envelope) + stats.PopStdDev(envelope)
	distance := max(int(0.05*framesPerSec), 1)

	peaks := stats.FindPeaks(envelope, height, distance, 0)

	times := make([]float64, len(peaks))
	for i, p := range peaks {
		times[i] = spec.Time(p.Index)
	}

	return times
}
