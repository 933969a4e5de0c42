//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/strophe"
	"github.com/farcloser/strophe/internal/output"
)

func outputResult(filePath string, result *strophe.Result, formatName string, debug bool) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	var meta map[string]any
	if debug {
		meta = output.ResultToMap(result)
	} else {
		meta = buildFriendlyOutput(result)
	}

	data := &format.Data{
		Object: filePath,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// buildFriendlyOutput creates a user-friendly summary of the analysis.
// The full per-frame arrays are huge; the console view sticks to segments
// and the global summary.
func buildFriendlyOutput(result *strophe.Result) map[string]any {
	global := result.Features.Global

	meta := map[string]any{
		"summary": fmt.Sprintf(
			"%d segments over %.1fs (tempo: %.0f BPM)",
			len(result.Segments), global.Duration, global.Tempo,
		),
	}

	segments := make([]any, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, fmt.Sprintf(
			"[%d] %.2fs - %.2fs (%.2fs)",
			seg.Index, seg.StartTime, seg.EndTime, seg.Duration,
		))
	}

	meta["segments"] = segments

	meta["properties"] = map[string]any{
		"tempo":             fmt.Sprintf("%.1f BPM", global.Tempo),
		"duration":          fmt.Sprintf("%.1f s", global.Duration),
		"sample_rate":       fmt.Sprintf("%d Hz", global.SampleRate),
		"spectral_centroid": fmt.Sprintf("%.0f Hz", global.MeanCentroid),
		"spectral_rolloff":  fmt.Sprintf("%.0f Hz", global.MeanRolloff),
		"mean_rms":          fmt.Sprintf("%.4f", global.MeanRMS),
		"beats":             global.BeatCount,
		"onsets":            global.OnsetCount,
	}

	return meta
}

// jsonFileSink stores results as indented JSON files.
type jsonFileSink struct {
	path string
}

func (s *jsonFileSink) Store(_ context.Context, _ string, result *strophe.Result) error {
	payload, err := json.MarshalIndent(output.ResultToMap(result), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, append(payload, '\n'), 0o644) //nolint:gosec // report file, not a secret
}
