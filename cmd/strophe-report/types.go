//nolint:tagliatelle
package main

// Record is a single line in the JSONL report file.
type Record struct {
	File     string         `json:"file,omitempty"`
	Analysis map[string]any `json:"analysis,omitempty"`
	Error    string         `json:"error,omitempty"`
	Timing   *RecordTiming  `json:"timing,omitempty"`
}

// RecordTiming captures per-file processing durations in milliseconds.
type RecordTiming struct {
	LoadMs    float64 `json:"load_ms"`
	AnalyzeMs float64 `json:"analyze_ms"`
	TotalMs   float64 `json:"total_ms"`
}

// digestRecord holds the typed fields needed by the digest command.
type digestRecord struct {
	File     string          `json:"file,omitempty"`
	Analysis *digestAnalysis `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type digestAnalysis struct {
	Segments []digestSegment `json:"segments"`
	Features digestFeatures  `json:"features"`
	Metadata digestMetadata  `json:"metadata"`
}

type digestSegment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
}

type digestFeatures struct {
	Global digestGlobal `json:"global_features"`
}

type digestGlobal struct {
	Tempo      float64 `json:"tempo"`
	Duration   float64 `json:"duration"`
	BeatCount  int     `json:"beat_count"`
	OnsetCount int     `json:"onset_count"`
}

type digestMetadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Status          string  `json:"status"`
}
