// Package boundary locates the instants where a track's energy trend turns,
// the "scene changes" segmentation is built from.
package boundary

import (
	"math"
	"sort"

	"github.com/farcloser/strophe/internal/stats"
	"github.com/farcloser/strophe/internal/types"
)

// Options tunes the detector. Zero numeric values fall back to defaults;
// IncludeBoundaries is honored as given.
type Options struct {
	MinPeaks          int     // minimum requested peak count (default 2)
	MaxPeaks          int     // hard cap; 0 = 3 * MinPeaks
	MinGapSeconds     float64 // user floor for inter-boundary spacing (default 2.0)
	ShortMASeconds    float64 // short trend window (default 0.50)
	LongMASeconds     float64 // long trend window (default 3.00)
	IncludeBoundaries bool    // anchor track start/end as boundaries
}

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{
		MinPeaks:          2,
		MinGapSeconds:     2.0,
		ShortMASeconds:    0.50,
		LongMASeconds:     3.00,
		IncludeBoundaries: true,
	}
}

const (
	minProminence = 0.1
	// anchorMargin: a detected peak within this distance of the track edge
	// already covers the edge, so no extra boundary is prepended/appended.
	anchorMargin = 1.0
	// fallbackGapSeconds replaces the tempo-derived spacing when no tempo
	// could be estimated.
	fallbackGapSeconds = 0.5
	trendSigma         = 1.0
)

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.MinPeaks == 0 {
		opts.MinPeaks = defaults.MinPeaks
	}

	if opts.MinGapSeconds == 0 {
		opts.MinGapSeconds = defaults.MinGapSeconds
	}

	if opts.ShortMASeconds == 0 {
		opts.ShortMASeconds = defaults.ShortMASeconds
	}

	if opts.LongMASeconds == 0 {
		opts.LongMASeconds = defaults.LongMASeconds
	}
}

// Detect runs adaptive boundary detection over an energy profile. The
// returned timestamps are strictly increasing; pathological input degrades
// to boundary-only results rather than erroring.
func Detect(profile *types.EnergyProfile, duration, bpm float64, opts Options) *types.BoundaryResult {
	applyDefaults(&opts)

	spec := profile.Spec

	// Detrended oscillator: the short moving average reacts to local energy
	// shifts, the long one tracks the section-level baseline.
	shortWin := windowFrames(opts.ShortMASeconds, spec)
	longWin := max(windowFrames(opts.LongMASeconds, spec), shortWin+1)

	shortMA := stats.MovingAverage(profile.RmsDb, shortWin)
	longMA := stats.MovingAverage(profile.RmsDb, longWin)

	trend := make([]float64, len(profile.RmsDb))
	for i := range trend {
		trend[i] = shortMA[i] - longMA[i]
	}

	z := stats.GaussianSmooth(stats.RobustZScore(trend), trendSigma)

	threshold := adaptiveThreshold(z, profile.RmsDb)

	minDistance := minPeakDistance(bpm, opts.MinGapSeconds, spec)

	peaks := stats.FindPeaks(z, threshold, minDistance, minProminence)
	peaks = capPeaks(peaks, maxPeaks(opts))

	result := &types.BoundaryResult{
		Tempo:     bpm,
		Threshold: threshold,
		PeakCount: len(peaks),
	}

	times := make([]float64, 0, len(peaks)+2)
	for _, p := range peaks {
		times = append(times, spec.Time(p.Index))
	}

	if opts.IncludeBoundaries {
		times = anchor(times, duration)
	}

	result.Times = times

	return result
}

func windowFrames(seconds float64, spec types.FrameSpec) int {
	frames := int(math.Round(seconds * float64(spec.SampleRate) / float64(spec.HopLength)))

	return max(frames, 1)
}

// adaptiveThreshold is the minimum of a global robust threshold and one
// computed over high-energy frames only. The high-energy variant, when
// available, tightens detection in louder passages; taking the min biases
// toward finding transitions where the music is actually active.
func adaptiveThreshold(z, rmsDb []float64) float64 {
	threshold := stats.Median(z) + 0.8*stats.MADSigma(z)

	cutoff := stats.Percentile(rmsDb, 0.70)

	var high []float64

	for i, db := range rmsDb {
		if db > cutoff {
			high = append(high, z[i])
		}
	}

	if len(high) > 0 {
		highThreshold := stats.Median(high) + 0.5*stats.PopStdDev(high)
		threshold = min(threshold, highThreshold)
	}

	return threshold
}

// minPeakDistance derives spacing from tempo (0.3 beat-lengths worth of
// seconds) and never lets it drop below the user-supplied gap.
func minPeakDistance(bpm, minGapSeconds float64, spec types.FrameSpec) int {
	tempoSeconds := fallbackGapSeconds
	if bpm > 0 {
		tempoSeconds = 0.3 * (60.0 / bpm)
	}

	tempoFrames := windowFrames(tempoSeconds, spec)
	gapFrames := windowFrames(minGapSeconds, spec)

	return max(tempoFrames, gapFrames)
}

func maxPeaks(opts Options) int {
	if opts.MaxPeaks > 0 {
		return opts.MaxPeaks
	}

	return 3 * opts.MinPeaks
}

// capPeaks keeps the top-n peaks by prominence, then restores time order.
func capPeaks(peaks []stats.Peak, n int) []stats.Peak {
	if len(peaks) <= n {
		return peaks
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Prominence > peaks[j].Prominence })
	peaks = peaks[:n]
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Index < peaks[j].Index })

	return peaks
}

// anchor prepends 0 and appends the track end unless a detected peak already
// sits within anchorMargin of that edge.
func anchor(times []float64, duration float64) []float64 {
	if len(times) == 0 {
		return []float64{0, duration}
	}

	if times[0] > anchorMargin {
		times = append([]float64{0}, times...)
	}

	if times[len(times)-1] < duration-anchorMargin {
		times = append(times, duration)
	}

	return times
}
