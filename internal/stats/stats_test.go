package stats

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"negative", []float64{-3, -1, -2}, -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Median(tc.in); !almostEqual(got, tc.want, tolerance) {
				t.Errorf("Median(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMAD(t *testing.T) {
	// Median 3, absolute deviations {2, 1, 0, 1, 2}, median deviation 1.
	in := []float64{1, 2, 3, 4, 5}
	if got := MAD(in); !almostEqual(got, 1, tolerance) {
		t.Errorf("MAD(%v) = %v, want 1", in, got)
	}

	if got := MAD(nil); got != 0 {
		t.Errorf("MAD(nil) = %v, want 0", got)
	}
}

func TestRobustZScore(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5}
	z := RobustZScore(in)

	if len(z) != len(in) {
		t.Fatalf("length %d, want %d", len(z), len(in))
	}

	// Median element maps to zero, extremes are symmetric.
	if !almostEqual(z[2], 0, tolerance) {
		t.Errorf("z[median] = %v, want 0", z[2])
	}

	if !almostEqual(z[0], -z[4], tolerance) {
		t.Errorf("z not symmetric: %v vs %v", z[0], z[4])
	}

	// Constant series must not blow up on zero MAD.
	for _, v := range RobustZScore([]float64{7, 7, 7}) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("constant series produced non-finite z-score %v", v)
		}
	}
}

func TestPercentile(t *testing.T) {
	in := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	p70 := Percentile(in, 0.70)
	if p70 < 60 || p70 > 80 {
		t.Errorf("Percentile(0.70) = %v, want within [60, 80]", p70)
	}

	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(nil) = %v, want 0", got)
	}
}

func TestMovingAverage(t *testing.T) {
	// A constant series is a fixed point regardless of window.
	constant := []float64{2, 2, 2, 2, 2, 2}
	for _, window := range []int{1, 3, 5} {
		for i, v := range MovingAverage(constant, window) {
			if !almostEqual(v, 2, tolerance) {
				t.Fatalf("window %d: out[%d] = %v, want 2", window, i, v)
			}
		}
	}

	// Centered window: interior points average their neighborhood.
	in := []float64{0, 0, 3, 0, 0}
	out := MovingAverage(in, 3)

	if !almostEqual(out[2], 1, tolerance) {
		t.Errorf("out[2] = %v, want 1", out[2])
	}

	if !almostEqual(out[0], 0, tolerance) {
		t.Errorf("out[0] = %v, want 0", out[0])
	}
}

func TestGaussianSmooth(t *testing.T) {
	// Kernel is normalized: constant in, constant out.
	constant := []float64{3, 3, 3, 3, 3, 3, 3, 3}
	for i, v := range GaussianSmooth(constant, 1.5) {
		if !almostEqual(v, 3, 1e-6) {
			t.Fatalf("out[%d] = %v, want 3", i, v)
		}
	}

	// A spike spreads but keeps its center as the maximum.
	spike := make([]float64, 21)
	spike[10] = 1

	out := GaussianSmooth(spike, 1.5)

	for i, v := range out {
		if v > out[10] {
			t.Errorf("out[%d] = %v exceeds center %v", i, v, out[10])
		}
	}

	if out[10] >= 1 {
		t.Errorf("center %v not attenuated", out[10])
	}

	// Zero sigma is a no-op.
	for i, v := range GaussianSmooth(spike, 0) {
		if v != spike[i] {
			t.Fatalf("sigma 0 modified input at %d", i)
		}
	}
}
