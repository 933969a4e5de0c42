//nolint:staticcheck // too dumb on Db vs. DB
package types

// FrameSpec describes the analysis framing shared by every frame-aligned
// series in a run: frames start at sample 0, advance by HopLength, and the
// last frame still holds a full window. Frame count for n samples is
// floor((n-WindowSize)/HopLength)+1.
type FrameSpec struct {
	SampleRate int
	WindowSize int
	HopLength  int
}

// Frames returns the number of full analysis frames for n samples.
func (fs FrameSpec) Frames(n int) int {
	if n < fs.WindowSize {
		return 0
	}

	return (n-fs.WindowSize)/fs.HopLength + 1
}

// Time returns the timestamp (seconds) of the given frame index.
func (fs FrameSpec) Time(frame int) float64 {
	return float64(frame) * float64(fs.HopLength) / float64(fs.SampleRate)
}

// Floor is the dB value assigned to frames with no measurable energy.
const Floor = -80.0

// EnergyProfile is the smoothed frame-wise loudness trajectory of a track.
// RmsDb is expressed relative to the track's own peak RMS, so the loudest
// frame sits at 0 dB and silence at the floor.
type EnergyProfile struct {
	Spec  FrameSpec
	Times []float64
	RmsDb []float64
}

// BoundaryResult holds the detected segment boundaries plus the diagnostics
// the detector derived them from.
type BoundaryResult struct {
	Times     []float64 // strictly increasing boundary timestamps, seconds
	Tempo     float64   // estimated global tempo, BPM (0 if undetectable)
	Threshold float64   // the adaptive peak height threshold actually used
	PeakCount int       // raw peak count before boundary anchoring
}

// Segment is a half-open [StartTime, EndTime) slice of the track.
type Segment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
	Index     int     `json:"segment_index"`
}

// TempoResult contains rhythm descriptors for the whole track.
type TempoResult struct {
	BPM        float64
	BeatFrames []int     // frame indices of tracked beats
	OnsetTimes []float64 // timestamps of detected onsets, seconds
	Envelope   []float64 // onset strength, one value per frame
}

// MFCCCount, ChromaBins and TonnetzDims fix the descriptor shapes consumers
// rely on.
const (
	MFCCCount   = 13
	ChromaBins  = 12
	TonnetzDims = 6
)

// FeatureSet bundles every descriptor computed over one track. All per-frame
// slices share one length; the matrices are coefficient-major
// (MFCC[c][frame], Chroma[bin][frame], Tonnetz[dim][frame]).
type FeatureSet struct {
	Spec FrameSpec

	// Per frame.
	Centroid  []float64
	Rolloff   []float64
	Bandwidth []float64
	ZCR       []float64
	RMS       []float64
	MFCC      [][]float64 // MFCCCount x frames
	Chroma    [][]float64 // ChromaBins x frames
	Tonnetz   [][]float64 // TonnetzDims x frames

	// Whole track.
	Tempo      float64
	Duration   float64
	BeatFrames []int
	OnsetTimes []float64
}

// Trace is the reduced, renderer-facing projection of a FeatureSet. Every
// slice has the same length as Times.
type Trace struct {
	Times    []float64
	RMS      []float64
	Centroid []float64
	Rolloff  []float64
	MFCC     [][]float64 // MFCCCount x frames
}
