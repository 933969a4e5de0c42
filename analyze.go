// Package strophe segments music into scene-change boundaries and extracts
// the spectral, rhythmic and tonal descriptors visualizers consume.
package strophe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farcloser/strophe/internal/analysis/boundary"
	"github.com/farcloser/strophe/internal/analysis/energy"
	"github.com/farcloser/strophe/internal/analysis/features"
	"github.com/farcloser/strophe/internal/analysis/segments"
	"github.com/farcloser/strophe/internal/analysis/tempo"
	"github.com/farcloser/strophe/internal/analysis/trace"
	"github.com/farcloser/strophe/internal/audio"
	"github.com/farcloser/strophe/internal/stats"
	"github.com/farcloser/strophe/internal/types"
)

/*
Usage:

	result, err := strophe.Analyze(wave, strophe.DefaultParameters(), nil)
	for _, seg := range result.Segments {
	    fmt.Printf("[%d] %.2f - %.2f\n", seg.Index, seg.StartTime, seg.EndTime)
	}

	// Custom segmentation
	params := strophe.DefaultParameters()
	params.MinGapSeconds = 5.0
	params.IncludeBoundaries = false
	result, err := strophe.Analyze(wave, params, nil)

	// With progress reporting
	result, err := strophe.AnalyzeFile(ctx, "track.flac", params, func(stage string, pct int) {
	    fmt.Printf("%s: %d%%\n", stage, pct)
	})
*/

const analysisType = "music_segmentation"

// Analyze runs the full pipeline on a waveform: energy profiling, tempo
// estimation, boundary detection, segment assembly, feature extraction and
// result compilation. Boundary detection and feature extraction depend only
// on the waveform and run concurrently. The result is a pure function of
// (waveform, parameters); any stage error aborts the whole run.
func Analyze(wave Waveform, params Parameters, progress ProgressFunc) (*Result, error) {
	started := time.Now()

	if len(wave.Samples) == 0 {
		return nil, ErrEmptyWaveform
	}

	if wave.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidParameters, wave.SampleRate)
	}

	applyDefaults(&params)

	if err := params.Validate(); err != nil {
		return nil, err
	}

	report := func(stage string, percent int) {
		if progress != nil {
			progress(stage, percent)
		}
	}

	spec := types.FrameSpec{
		SampleRate: wave.SampleRate,
		WindowSize: params.WindowSize,
		HopLength:  params.HopLength,
	}
	duration := wave.Duration()

	report("energy", 10)

	profile := energy.Profile(wave.Samples, spec)

	report("tempo", 30)

	rhythm := tempo.Estimate(wave.Samples, spec)

	report("boundaries", 50)

	var (
		waitGroup  sync.WaitGroup
		boundaries *types.BoundaryResult
		set        *types.FeatureSet
	)

	waitGroup.Add(2)

	go func() {
		defer waitGroup.Done()

		boundaries = boundary.Detect(profile, duration, rhythm.BPM, boundary.Options{
			MinPeaks:          params.MinPeaks,
			MaxPeaks:          params.MaxPeaks,
			MinGapSeconds:     params.MinGapSeconds,
			ShortMASeconds:    params.ShortMASeconds,
			LongMASeconds:     params.LongMASeconds,
			IncludeBoundaries: params.IncludeBoundaries,
		})
	}()

	go func() {
		defer waitGroup.Done()

		set = features.Extract(wave.Samples, spec, rhythm)
	}()

	waitGroup.Wait()

	report("segments", 70)

	segs := segments.Assemble(boundaries.Times)
	if len(segs) <= 1 {
		slog.Warn(
			"degenerate input: trivial segmentation",
			"segments", len(segs),
			"raw peaks", boundaries.PeakCount,
			"duration", duration,
		)
	}

	report("trace", 90)

	sketch := trace.Build(set)

	result := compile(segs, set, sketch, params, wave, started)

	report("complete", 100)

	return result, nil
}

// AnalyzeFile loads the audio file at path and analyzes it.
func AnalyzeFile(ctx context.Context, path string, params Parameters, progress ProgressFunc) (*Result, error) {
	samples, sampleRate, err := audio.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	return Analyze(Waveform{Samples: samples, SampleRate: sampleRate}, params, progress)
}

func compile(
	segs []types.Segment,
	set *types.FeatureSet,
	sketch *types.Trace,
	params Parameters,
	wave Waveform,
	started time.Time,
) *Result {
	return &Result{
		AnalysisID:   uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		AnalysisType: analysisType,
		Segments:     segs,
		Features: FeatureBundle{
			Global: GlobalFeatures{
				Tempo:         set.Tempo,
				Duration:      set.Duration,
				SampleRate:    wave.SampleRate,
				MeanCentroid:  stats.Mean(set.Centroid),
				MeanRolloff:   stats.Mean(set.Rolloff),
				MeanBandwidth: stats.Mean(set.Bandwidth),
				MeanZCR:       stats.Mean(set.ZCR),
				MeanRMS:       stats.Mean(set.RMS),
				MeanChroma:    rowMeans(set.Chroma),
				MeanTonnetz:   rowMeans(set.Tonnetz),
				BeatCount:     len(set.BeatFrames),
				OnsetCount:    len(set.OnsetTimes),
			},
			PerFrame: FrameFeatures{
				Centroid:   set.Centroid,
				Rolloff:    set.Rolloff,
				Bandwidth:  set.Bandwidth,
				ZCR:        set.ZCR,
				RMS:        set.RMS,
				MFCC:       set.MFCC,
				Chroma:     set.Chroma,
				Tonnetz:    set.Tonnetz,
				BeatFrames: set.BeatFrames,
				OnsetTimes: set.OnsetTimes,
			},
		},
		Visualization: VisualizationTrace{
			Times:    sketch.Times,
			RMS:      sketch.RMS,
			Centroid: sketch.Centroid,
			Rolloff:  sketch.Rolloff,
			MFCC:     sketch.MFCC,
		},
		Parameters: params,
		Metadata: Metadata{
			DurationSeconds: wave.Duration(),
			ElapsedSeconds:  time.Since(started).Seconds(),
			Status:          "completed",
		},
	}
}

func rowMeans(matrix [][]float64) []float64 {
	means := make([]float64, len(matrix))
	for i, row := range matrix {
		means[i] = stats.Mean(row)
	}

	return means
}
