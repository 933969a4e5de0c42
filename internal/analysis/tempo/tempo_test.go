package tempo

import (
	"math"
	"testing"

	"github.com/farcloser/strophe/internal/types"
)

// 8192 Hz keeps a 120 BPM click period at exactly eight hops, so the
// autocorrelation lag is unambiguous.
const testSampleRate = 8192

func testSpec() types.FrameSpec {
	return types.FrameSpec{SampleRate: testSampleRate, WindowSize: 1024, HopLength: 512}
}

// clickTrack produces short decaying bursts at the given BPM.
func clickTrack(durationSec float64, bpm float64) []float64 {
	samples := make([]float64, int(durationSec*testSampleRate))
	period := int(60.0 / bpm * testSampleRate)

	for start := 0; start < len(samples); start += period {
		for i := range 400 {
			if start+i >= len(samples) {
				break
			}

			decay := math.Exp(-float64(i) / 80.0)
			samples[start+i] = 0.9 * decay * math.Sin(2*math.Pi*880*float64(i)/testSampleRate)
		}
	}

	return samples
}

func TestEstimateSilence(t *testing.T) {
	result := Estimate(make([]float64, 10*testSampleRate), testSpec())

	if result.BPM != 0 {
		t.Errorf("BPM = %v, want 0 for silence", result.BPM)
	}

	if result.BeatFrames == nil || result.OnsetTimes == nil {
		t.Error("beat/onset slices must be empty, not nil")
	}

	if len(result.BeatFrames) != 0 || len(result.OnsetTimes) != 0 {
		t.Errorf("silence produced %d beats, %d onsets", len(result.BeatFrames), len(result.OnsetTimes))
	}
}

func TestEstimateTooShort(t *testing.T) {
	// Under one window: no frames, no tempo.
	result := Estimate(make([]float64, 512), testSpec())

	if result.BPM != 0 {
		t.Errorf("BPM = %v, want 0", result.BPM)
	}
}

func TestEstimateClickTrack(t *testing.T) {
	result := Estimate(clickTrack(30, 120), testSpec())

	if result.BPM <= 0 {
		t.Fatalf("BPM = %v, want positive", result.BPM)
	}

	// Autocorrelation may lock onto the half- or double-tempo harmonic.
	accepted := false

	for _, want := range []float64{60, 120, 240} {
		if math.Abs(result.BPM-want) <= want*0.08 {
			accepted = true
		}
	}

	if !accepted {
		t.Errorf("BPM = %v, want near 120 or a harmonic", result.BPM)
	}

	if len(result.BeatFrames) == 0 {
		t.Error("no beats picked")
	}

	if len(result.OnsetTimes) == 0 {
		t.Fatal("no onsets picked")
	}

	// Every onset should sit near a click instant (multiples of 0.5 s).
	for _, ts := range result.OnsetTimes {
		nearest := math.Round(ts*2) / 2
		if math.Abs(ts-nearest) > 0.15 {
			t.Errorf("onset at %v not near a click", ts)
		}
	}
}

func TestEstimateEnvelopeShape(t *testing.T) {
	samples := clickTrack(10, 60)
	spec := testSpec()

	result := Estimate(samples, spec)

	if len(result.Envelope) != spec.Frames(len(samples)) {
		t.Fatalf("envelope length %d, want %d", len(result.Envelope), spec.Frames(len(samples)))
	}

	for i, v := range result.Envelope {
		if v < 0 {
			t.Fatalf("envelope[%d] = %v, want half-wave rectified (non-negative)", i, v)
		}
	}
}
