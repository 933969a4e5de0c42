//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/strophe/internal/integration/binary"
)

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream carries the per-stream properties the loader cares about.
// ffprobe reports numeric values as strings, hence the accessors below.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`            // flac
	CodecType     string `json:"codec_type"`            // audio
	SampleRate    string `json:"sample_rate,omitempty"` // 44100
	Channels      int    `json:"channels,omitempty"`    // 2
	ChannelLayout string `json:"channel_layout,omitempty"`
	Duration      string `json:"duration,omitempty"` // 310.666667
	BitRate       string `json:"bit_rate,omitempty"`
}

// Format represents container-level information.
type Format struct {
	Filename   string `json:"filename"`
	NbStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`        // "flac", "mov,mp4,m4a,3gp,3g2,mj2"
	Duration   string `json:"duration,omitempty"` // seconds as a float string
	BitRate    string `json:"bit_rate,omitempty"`
	ProbeScore int    `json:"probe_score"` // format detection confidence, 100 = certain
}

// SampleRateHz parses the stream sample rate. Returns 0 when absent or
// unparseable.
func (s *Stream) SampleRateHz() int {
	rate, err := strconv.Atoi(s.SampleRate)
	if err != nil {
		return 0
	}

	return rate
}

// DurationSeconds parses the container duration. Returns 0 when absent or
// unparseable.
func (r *Result) DurationSeconds() float64 {
	seconds, err := strconv.ParseFloat(r.Format.Duration, 64)
	if err != nil {
		return 0
	}

	return seconds
}

// FirstAudioStream returns the first stream with codec type "audio", or nil.
func (r *Result) FirstAudioStream() *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			return &r.Streams[i]
		}
	}

	return nil
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, found := binary.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}
