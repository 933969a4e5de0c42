package output

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/farcloser/strophe"
	"github.com/farcloser/strophe/internal/types"
)

func sampleResult() *strophe.Result {
	return &strophe.Result{
		AnalysisID:   "8c1f2a9e-0000-0000-0000-000000000000",
		Timestamp:    time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		AnalysisType: "music_segmentation",
		Segments: []types.Segment{
			{Index: 0, StartTime: 0, EndTime: 12.5, Duration: 12.5},
			{Index: 1, StartTime: 12.5, EndTime: 30, Duration: 17.5},
		},
		Features: strophe.FeatureBundle{
			Global: strophe.GlobalFeatures{
				Tempo:       120,
				Duration:    30,
				SampleRate:  44100,
				MeanChroma:  make([]float64, types.ChromaBins),
				MeanTonnetz: make([]float64, types.TonnetzDims),
			},
			PerFrame: strophe.FrameFeatures{
				Centroid: []float64{1000, 1200},
				RMS:      []float64{0.2, 0.4},
				MFCC:     [][]float64{{1, 2}, {3, 4}},
			},
		},
		Visualization: strophe.VisualizationTrace{
			Times: []float64{0, 0.0116},
			RMS:   []float64{0.2, 0.4},
		},
		Parameters: strophe.DefaultParameters(),
		Metadata: strophe.Metadata{
			DurationSeconds: 30,
			ElapsedSeconds:  0.42,
			Status:          "completed",
		},
	}
}

func TestResultToMap(t *testing.T) {
	payload := ResultToMap(sampleResult())

	for _, key := range []string{
		"analysis_id", "timestamp", "analysis_type", "segments",
		"features", "visualization_data", "parameters", "metadata",
	} {
		if _, found := payload[key]; !found {
			t.Errorf("missing key %q", key)
		}
	}

	segments, _ := payload["segments"].([]any)
	if len(segments) != 2 {
		t.Fatalf("segments = %v", payload["segments"])
	}

	first, _ := segments[0].(map[string]any)
	if first["segment_index"] != 0 || first["end_time"] != 12.5 {
		t.Errorf("first segment = %v", first)
	}

	if _, err := json.Marshal(payload); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestResultToMapForcesFinite(t *testing.T) {
	result := sampleResult()
	result.Features.Global.MeanCentroid = math.NaN()
	result.Features.PerFrame.Centroid[1] = math.Inf(1)
	result.Features.PerFrame.MFCC[0][0] = math.NaN()
	result.Metadata.ElapsedSeconds = math.Inf(-1)

	payload := ResultToMap(result)

	if _, err := json.Marshal(payload); err != nil {
		t.Fatalf("marshal after sanitizing: %v", err)
	}

	features, _ := payload["features"].(map[string]any)
	global, _ := features["global_features"].(map[string]any)

	if global["mean_spectral_centroid"] != 0.0 {
		t.Errorf("mean centroid = %v, want 0", global["mean_spectral_centroid"])
	}

	perFrame, _ := features["segment_features"].(map[string]any)

	centroid, _ := perFrame["spectral_centroid"].([]float64)
	if centroid[1] != 0 {
		t.Errorf("centroid = %v, want sanitized", centroid)
	}

	mfcc, _ := perFrame["mfcc"].([][]float64)
	if mfcc[0][0] != 0 {
		t.Errorf("mfcc[0][0] = %v, want 0", mfcc[0][0])
	}

	// Sanitizing must not write back into the source arrays.
	if !math.IsInf(result.Features.PerFrame.Centroid[1], 1) {
		t.Error("source array mutated")
	}
}
