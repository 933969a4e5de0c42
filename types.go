package strophe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farcloser/strophe/internal/types"
)

var (
	// ErrInvalidParameters is returned when Parameters fail validation.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrEmptyWaveform is returned when the input waveform holds no samples.
	ErrEmptyWaveform = errors.New("empty waveform")
)

// Waveform is a mono audio signal, samples normalized to [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}

	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Parameters configures a pipeline run. Zero values mean "use the default".
type Parameters struct {
	// MinPeaks is the target lower bound on detected boundaries (default: 2).
	MinPeaks int `json:"min_peaks"`

	// MaxPeaks caps detected boundaries, keeping the most prominent
	// (default: 3*MinPeaks).
	MaxPeaks int `json:"max_peaks"`

	// WindowSize is the analysis window in samples (default: 1024).
	WindowSize int `json:"window_size"`

	// HopLength is the frame stride in samples (default: 512).
	HopLength int `json:"hop_length"`

	// MinGapSeconds is the minimum spacing between boundaries (default: 2.0).
	MinGapSeconds float64 `json:"min_gap_seconds"`

	// ShortMASeconds is the short moving-average span (default: 0.50).
	ShortMASeconds float64 `json:"short_ma_seconds"`

	// LongMASeconds is the long moving-average span (default: 3.00).
	LongMASeconds float64 `json:"long_ma_seconds"`

	// IncludeBoundaries anchors results to the track start/end (default: true).
	IncludeBoundaries bool `json:"include_boundaries"`
}

// DefaultParameters returns the standard analysis configuration.
func DefaultParameters() Parameters {
	return Parameters{
		MinPeaks:          2,
		MaxPeaks:          6,
		WindowSize:        1024,
		HopLength:         512,
		MinGapSeconds:     2.0,
		ShortMASeconds:    0.50,
		LongMASeconds:     3.00,
		IncludeBoundaries: true,
	}
}

// Validate reports whether the parameters describe a runnable configuration.
// Call after applyDefaults has filled zero values.
func (p Parameters) Validate() error {
	if p.MinPeaks < 0 {
		return fmt.Errorf("%w: min peaks %d", ErrInvalidParameters, p.MinPeaks)
	}

	if p.MaxPeaks < 0 {
		return fmt.Errorf("%w: max peaks %d", ErrInvalidParameters, p.MaxPeaks)
	}

	if p.MaxPeaks != 0 && p.MaxPeaks < p.MinPeaks {
		return fmt.Errorf("%w: max peaks %d below min peaks %d", ErrInvalidParameters, p.MaxPeaks, p.MinPeaks)
	}

	if p.WindowSize < 0 || p.HopLength < 0 {
		return fmt.Errorf("%w: window %d, hop %d", ErrInvalidParameters, p.WindowSize, p.HopLength)
	}

	if p.WindowSize != 0 && p.HopLength > p.WindowSize {
		return fmt.Errorf("%w: hop %d exceeds window %d", ErrInvalidParameters, p.HopLength, p.WindowSize)
	}

	if p.MinGapSeconds < 0 || p.ShortMASeconds < 0 || p.LongMASeconds < 0 {
		return fmt.Errorf("%w: negative time span", ErrInvalidParameters)
	}

	return nil
}

func applyDefaults(params *Parameters) {
	defaults := DefaultParameters()

	if params.MinPeaks == 0 {
		params.MinPeaks = defaults.MinPeaks
	}

	if params.MaxPeaks == 0 {
		params.MaxPeaks = 3 * params.MinPeaks
	}

	if params.WindowSize == 0 {
		params.WindowSize = defaults.WindowSize
	}

	if params.HopLength == 0 {
		params.HopLength = defaults.HopLength
	}

	if params.MinGapSeconds == 0 {
		params.MinGapSeconds = defaults.MinGapSeconds
	}

	if params.ShortMASeconds == 0 {
		params.ShortMASeconds = defaults.ShortMASeconds
	}

	if params.LongMASeconds == 0 {
		params.LongMASeconds = defaults.LongMASeconds
	}
}

// ProgressFunc receives stage checkpoints as the pipeline advances.
// Percent hits 10/30/50/70/90/100, one checkpoint per major stage.
type ProgressFunc func(stage string, percent int)

// GlobalFeatures is the fixed-shape whole-track summary.
type GlobalFeatures struct {
	Tempo         float64   `json:"tempo"`
	Duration      float64   `json:"duration"`
	SampleRate    int       `json:"sample_rate"`
	MeanCentroid  float64   `json:"mean_spectral_centroid"`
	MeanRolloff   float64   `json:"mean_spectral_rolloff"`
	MeanBandwidth float64   `json:"mean_spectral_bandwidth"`
	MeanZCR       float64   `json:"mean_zero_crossing_rate"`
	MeanRMS       float64   `json:"mean_rms"`
	MeanChroma    []float64 `json:"mean_chroma"`  // 12 bins
	MeanTonnetz   []float64 `json:"mean_tonnetz"` // 6 dims
	BeatCount     int       `json:"beat_count"`
	OnsetCount    int       `json:"onset_count"`
}

// FrameFeatures holds the full per-frame descriptor arrays. Every per-frame
// slice shares one length, the frame count.
type FrameFeatures struct {
	Centroid   []float64   `json:"spectral_centroid"`
	Rolloff    []float64   `json:"spectral_rolloff"`
	Bandwidth  []float64   `json:"spectral_bandwidth"`
	ZCR        []float64   `json:"zero_crossing_rate"`
	RMS        []float64   `json:"rms"`
	MFCC       [][]float64 `json:"mfcc"`    // 13 x frames
	Chroma     [][]float64 `json:"chroma"`  // 12 x frames
	Tonnetz    [][]float64 `json:"tonnetz"` // 6 x frames
	BeatFrames []int       `json:"beat_frames"`
	OnsetTimes []float64   `json:"onset_times"`
}

// FeatureBundle pairs the global summary with the per-frame series.
type FeatureBundle struct {
	Global   GlobalFeatures `json:"global_features"`
	PerFrame FrameFeatures  `json:"segment_features"`
}

// VisualizationTrace is the reduced, renderer-facing projection. Every slice
// has the same length as Times.
type VisualizationTrace struct {
	Times    []float64   `json:"times"`
	RMS      []float64   `json:"rms"`
	Centroid []float64   `json:"spectral_centroid"`
	Rolloff  []float64   `json:"spectral_rolloff"`
	MFCC     [][]float64 `json:"mfcc"`
}

// Metadata carries run bookkeeping.
type Metadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	Status          string  `json:"status"`
}

// Result is the single output of a pipeline run. Immutable after compilation.
type Result struct {
	AnalysisID    string             `json:"analysis_id"`
	Timestamp     time.Time          `json:"timestamp"`
	AnalysisType  string             `json:"analysis_type"`
	Segments      []types.Segment    `json:"segments"`
	Features      FeatureBundle      `json:"features"`
	Visualization VisualizationTrace `json:"visualization_data"`
	Parameters    Parameters         `json:"parameters"`
	Metadata      Metadata           `json:"metadata"`
}

// Sink receives compiled results for storage.
type Sink interface {
	Store(ctx context.Context, id string, result *Result) error
}
