// Package output provides shared result serialization for strophe JSON output.
package output

import (
	"math"

	"github.com/farcloser/strophe"
)

// ResultToMap converts an analysis result into the canonical map structure
// used for JSON and JSONL serialization. Every float is forced finite so the
// payload is always valid JSON.
func ResultToMap(result *strophe.Result) map[string]any {
	return map[string]any{
		"analysis_id":        result.AnalysisID,
		"timestamp":          result.Timestamp,
		"analysis_type":      result.AnalysisType,
		"segments":           SegmentsToMap(result),
		"features":           featuresToMap(result),
		"visualization_data": visualizationToMap(result),
		"parameters":         parametersToMap(result.Parameters),
		"metadata": map[string]any{
			"duration_seconds": finite(result.Metadata.DurationSeconds),
			"elapsed_seconds":  finite(result.Metadata.ElapsedSeconds),
			"status":           result.Metadata.Status,
		},
	}
}

// SegmentsToMap converts the segment list to the serialized shape.
func SegmentsToMap(result *strophe.Result) []any {
	segments := make([]any, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, map[string]any{
			"segment_index": seg.Index,
			"start_time":    finite(seg.StartTime),
			"end_time":      finite(seg.EndTime),
			"duration":      finite(seg.Duration),
		})
	}

	return segments
}

func featuresToMap(result *strophe.Result) map[string]any {
	global := result.Features.Global
	perFrame := result.Features.PerFrame

	return map[string]any{
		"global_features": map[string]any{
			"tempo":                   finite(global.Tempo),
			"duration":                finite(global.Duration),
			"sample_rate":             global.SampleRate,
			"mean_spectral_centroid":  finite(global.MeanCentroid),
			"mean_spectral_rolloff":   finite(global.MeanRolloff),
			"mean_spectral_bandwidth": finite(global.MeanBandwidth),
			"mean_zero_crossing_rate": finite(global.MeanZCR),
			"mean_rms":                finite(global.MeanRMS),
			"mean_chroma":             finiteSeries(global.MeanChroma),
			"mean_tonnetz":            finiteSeries(global.MeanTonnetz),
			"beat_count":              global.BeatCount,
			"onset_count":             global.OnsetCount,
		},
		"segment_features": map[string]any{
			"spectral_centroid":  finiteSeries(perFrame.Centroid),
			"spectral_rolloff":   finiteSeries(perFrame.Rolloff),
			"spectral_bandwidth": finiteSeries(perFrame.Bandwidth),
			"zero_crossing_rate": finiteSeries(perFrame.ZCR),
			"rms":                finiteSeries(perFrame.RMS),
			"mfcc":               finiteMatrix(perFrame.MFCC),
			"chroma":             finiteMatrix(perFrame.Chroma),
			"tonnetz":            finiteMatrix(perFrame.Tonnetz),
			"beat_frames":        perFrame.BeatFrames,
			"onset_times":        finiteSeries(perFrame.OnsetTimes),
		},
	}
}

func visualizationToMap(result *strophe.Result) map[string]any {
	return map[string]any{
		"times":             finiteSeries(result.Visualization.Times),
		"rms":               finiteSeries(result.Visualization.RMS),
		"spectral_centroid": finiteSeries(result.Visualization.Centroid),
		"spectral_rolloff":  finiteSeries(result.Visualization.Rolloff),
		"mfcc":              finiteMatrix(result.Visualization.MFCC),
	}
}

func parametersToMap(params strophe.Parameters) map[string]any {
	return map[string]any{
		"min_peaks":          params.MinPeaks,
		"max_peaks":          params.MaxPeaks,
		"window_size":        params.WindowSize,
		"hop_length":         params.HopLength,
		"min_gap_seconds":    finite(params.MinGapSeconds),
		"short_ma_seconds":   finite(params.ShortMASeconds),
		"long_ma_seconds":    finite(params.LongMASeconds),
		"include_boundaries": params.IncludeBoundaries,
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

func finiteSeries(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = finite(v)
	}

	return out
}

func finiteMatrix(matrix [][]float64) [][]float64 {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = finiteSeries(row)
	}

	return out
}
