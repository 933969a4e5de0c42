package features

import (
	"math"
	"math/rand"
	"testing"

	"github.com/farcloser/strophe/internal/types"
)

const testSampleRate = 44100

func testSpec() types.FrameSpec {
	return types.FrameSpec{SampleRate: testSampleRate, WindowSize: 1024, HopLength: 512}
}

func noRhythm() *types.TempoResult {
	return &types.TempoResult{BeatFrames: []int{}, OnsetTimes: []float64{}}
}

func sine(freq float64, durationSec float64, amp float64) []float64 {
	samples := make([]float64, int(durationSec*testSampleRate))
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/testSampleRate)
	}

	return samples
}

func assertFinite(t *testing.T, name string, series []float64) {
	t.Helper()

	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s[%d] = %v, want finite", name, i, v)
		}
	}
}

func TestExtractArrayLengths(t *testing.T) {
	spec := testSpec()

	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test signal

	samples := make([]float64, 3*testSampleRate+123)
	for i := range samples {
		samples[i] = rng.Float64()*2 - 1
	}

	set := Extract(samples, spec, noRhythm())

	frames := spec.Frames(len(samples))
	if frames != (len(samples)-1024)/512+1 {
		t.Fatalf("framing convention drifted: %d", frames)
	}

	perFrame := map[string][]float64{
		"centroid":  set.Centroid,
		"rolloff":   set.Rolloff,
		"bandwidth": set.Bandwidth,
		"zcr":       set.ZCR,
		"rms":       set.RMS,
	}

	for name, series := range perFrame {
		if len(series) != frames {
			t.Errorf("%s has %d entries, want %d", name, len(series), frames)
		}
	}

	if len(set.MFCC) != types.MFCCCount {
		t.Fatalf("MFCC rows %d, want %d", len(set.MFCC), types.MFCCCount)
	}

	if len(set.Chroma) != types.ChromaBins {
		t.Fatalf("chroma rows %d, want %d", len(set.Chroma), types.ChromaBins)
	}

	if len(set.Tonnetz) != types.TonnetzDims {
		t.Fatalf("tonnetz rows %d, want %d", len(set.Tonnetz), types.TonnetzDims)
	}

	for _, matrix := range [][][]float64{set.MFCC, set.Chroma, set.Tonnetz} {
		for r, row := range matrix {
			if len(row) != frames {
				t.Fatalf("row %d has %d entries, want %d", r, len(row), frames)
			}
		}
	}
}

func TestExtractSilence(t *testing.T) {
	spec := testSpec()
	set := Extract(make([]float64, 2*testSampleRate), spec, noRhythm())

	all := [][]float64{set.Centroid, set.Rolloff, set.Bandwidth, set.ZCR, set.RMS}
	all = append(all, set.MFCC...)
	all = append(all, set.Chroma...)
	all = append(all, set.Tonnetz...)

	for _, series := range all {
		for i, v := range series {
			if v != 0 {
				t.Fatalf("silence produced non-zero value %v at frame %d", v, i)
			}
		}
	}
}

func TestExtractTooShort(t *testing.T) {
	spec := testSpec()
	set := Extract(make([]float64, 100), spec, noRhythm())

	if len(set.RMS) != 0 {
		t.Fatalf("got %d frames for sub-window input, want 0", len(set.RMS))
	}
}

func TestExtractSineDescriptors(t *testing.T) {
	spec := testSpec()
	set := Extract(sine(440, 2, 0.5), spec, noRhythm())

	if len(set.RMS) == 0 {
		t.Fatal("no frames")
	}

	mid := len(set.RMS) / 2

	// Sine RMS is amp/sqrt(2).
	wantRMS := 0.5 / math.Sqrt2
	if math.Abs(set.RMS[mid]-wantRMS) > 0.05 {
		t.Errorf("RMS = %v, want about %v", set.RMS[mid], wantRMS)
	}

	// A 440 Hz tone crosses zero 880 times per second.
	wantZCR := 880.0 / testSampleRate
	if math.Abs(set.ZCR[mid]-wantZCR) > 0.01 {
		t.Errorf("ZCR = %v, want about %v", set.ZCR[mid], wantZCR)
	}

	// Centroid and rolloff sit near the tone, allowing for window leakage.
	if set.Centroid[mid] < 300 || set.Centroid[mid] > 700 {
		t.Errorf("centroid = %v, want near 440", set.Centroid[mid])
	}

	if set.Rolloff[mid] < 300 || set.Rolloff[mid] > 700 {
		t.Errorf("rolloff = %v, want near 440", set.Rolloff[mid])
	}

	// Bandwidth of a pure tone is small relative to the Nyquist range.
	if set.Bandwidth[mid] > 2000 {
		t.Errorf("bandwidth = %v, want narrow", set.Bandwidth[mid])
	}

	// A 440 Hz tone is pitch class A: chroma bin 9 dominates and, being
	// max-normalized, equals 1.
	for bin := range types.ChromaBins {
		if bin == 9 {
			if math.Abs(set.Chroma[bin][mid]-1) > 1e-9 {
				t.Errorf("chroma[9] = %v, want 1", set.Chroma[bin][mid])
			}

			continue
		}

		if set.Chroma[bin][mid] > set.Chroma[9][mid] {
			t.Errorf("chroma[%d] = %v exceeds the A bin", bin, set.Chroma[bin][mid])
		}
	}

	assertFinite(t, "centroid", set.Centroid)
	assertFinite(t, "bandwidth", set.Bandwidth)

	for i := range types.MFCCCount {
		assertFinite(t, "mfcc", set.MFCC[i])
	}

	for i := range types.TonnetzDims {
		assertFinite(t, "tonnetz", set.Tonnetz[i])
	}
}

func TestExtractCarriesRhythm(t *testing.T) {
	spec := testSpec()
	rhythm := &types.TempoResult{
		BPM:        128,
		BeatFrames: []int{4, 12, 20},
		OnsetTimes: []float64{0.1, 0.6},
	}

	set := Extract(sine(220, 1, 0.3), spec, rhythm)

	if set.Tempo != 128 {
		t.Errorf("tempo = %v, want 128", set.Tempo)
	}

	if len(set.BeatFrames) != 3 || len(set.OnsetTimes) != 2 {
		t.Errorf("rhythm arrays not carried: %v, %v", set.BeatFrames, set.OnsetTimes)
	}

	if math.Abs(set.Duration-1) > 1e-9 {
		t.Errorf("duration = %v, want 1", set.Duration)
	}
}
