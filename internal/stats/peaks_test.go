package stats

import "testing"

func peakIndices(peaks []Peak) []int {
	indices := make([]int, len(peaks))
	for i, p := range peaks {
		indices[i] = p.Index
	}

	return indices
}

func TestFindPeaks(t *testing.T) {
	tests := []struct {
		name          string
		in            []float64
		minHeight     float64
		minDistance   int
		minProminence float64
		want          []int
	}{
		{
			name: "single triangle",
			in:   []float64{0, 1, 2, 1, 0},
			want: []int{2},
		},
		{
			name: "two separated peaks",
			in:   []float64{0, 2, 0, 0, 3, 0},
			want: []int{1, 4},
		},
		{
			name:      "height filter drops small peak",
			in:        []float64{0, 1, 0, 0, 3, 0},
			minHeight: 2,
			want:      []int{4},
		},
		{
			name:        "distance keeps the taller peak",
			in:          []float64{0, 2, 1, 3, 0},
			minDistance: 3,
			want:        []int{3},
		},
		{
			name:          "prominence filter drops shoulder bump",
			in:            []float64{0, 5, 4.95, 5.05, 0},
			minProminence: 0.5,
			want:          []int{3},
		},
		{
			name: "plateau counts once at midpoint",
			in:   []float64{0, 1, 2, 2, 2, 1, 0},
			want: []int{3},
		},
		{
			name: "monotonic has no peaks",
			in:   []float64{0, 1, 2, 3, 4},
			want: nil,
		},
		{
			name: "flat has no peaks",
			in:   []float64{1, 1, 1, 1},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := peakIndices(FindPeaks(tc.in, tc.minHeight, tc.minDistance, tc.minProminence))

			if len(got) != len(tc.want) {
				t.Fatalf("got peaks at %v, want %v", got, tc.want)
			}

			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got peaks at %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestPeakProminence(t *testing.T) {
	// The middle peak is surrounded by valleys at 1 and 2; prominence is
	// height minus the higher base.
	in := []float64{0, 4, 1, 3, 2, 5, 0}

	peaks := FindPeaks(in, 0, 0, 0)

	var middle *Peak

	for i := range peaks {
		if peaks[i].Index == 3 {
			middle = &peaks[i]
		}
	}

	if middle == nil {
		t.Fatalf("peak at index 3 not found in %v", peakIndices(peaks))
	}

	if middle.Prominence != 1 {
		t.Errorf("prominence = %v, want 1", middle.Prominence)
	}
}
