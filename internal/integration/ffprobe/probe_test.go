package ffprobe

import "testing"

func TestStreamSampleRateHz(t *testing.T) {
	tests := []struct {
		name string
		rate string
		want int
	}{
		{"parses hz", "44100", 44100},
		{"absent", "", 0},
		{"garbage", "fast", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stream := Stream{SampleRate: tc.rate}
			if got := stream.SampleRateHz(); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestResultDurationSeconds(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		want     float64
	}{
		{"parses seconds", "310.666667", 310.666667},
		{"absent", "", 0},
		{"garbage", "soon", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Result{Format: Format{Duration: tc.duration}}
			if got := result.DurationSeconds(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResultFirstAudioStream(t *testing.T) {
	result := Result{Streams: []Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio", SampleRate: "48000"},
		{Index: 2, CodecType: "audio", SampleRate: "44100"},
	}}

	stream := result.FirstAudioStream()
	if stream == nil || stream.Index != 1 {
		t.Fatalf("got %+v, want stream index 1", stream)
	}

	empty := Result{Streams: []Stream{{CodecType: "video"}}}
	if empty.FirstAudioStream() != nil {
		t.Error("expected nil for a result without audio streams")
	}
}
