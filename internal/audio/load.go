// Package audio loads tracks from disk into normalized mono float64 samples.
// WAV files are decoded natively; anything else goes through ffprobe and
// ffmpeg, which must be on the PATH.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/strophe/internal/integration/ffmpeg"
	"github.com/farcloser/strophe/internal/integration/ffprobe"
)

const fallbackSampleRate = 44100

// Load reads the file at path and returns its samples, downmixed to mono
// and normalized to [-1, 1], along with the sample rate.
func Load(ctx context.Context, path string) ([]float64, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return loadWav(path)
	}

	return loadWithFfmpeg(ctx, path)
}

func loadWav(path string) ([]float64, int, error) {
	slog.Debug("audio.Load", "file path", path, "decoder", "wav")

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s is not a valid wav file", fault.ErrReadFailure, path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("%w: %s reports no channels", fault.ErrReadFailure, path)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	scale := float64(int64(1) << (bitDepth - 1))
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)

	// Downmix interleaved channels by plain averaging.
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += float64(buf.Data[i*channels+c])
		}

		samples[i] = sum / float64(channels) / scale
	}

	return samples, buf.Format.SampleRate, nil
}

func loadWithFfmpeg(ctx context.Context, path string) ([]float64, int, error) {
	slog.Debug("audio.Load", "file path", path, "decoder", "ffmpeg")

	probed, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, 0, err
	}

	stream := probed.FirstAudioStream()
	if stream == nil {
		return nil, 0, fmt.Errorf("%w: %s has no audio stream", fault.ErrReadFailure, path)
	}

	sampleRate := stream.SampleRateHz()
	if sampleRate == 0 {
		sampleRate = fallbackSampleRate
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	defer func() {
		_ = file.Close()
	}()

	var pcm bytes.Buffer

	// Pre-size the buffer from the probed duration: 2 bytes per mono sample.
	if seconds := probed.DurationSeconds(); seconds > 0 {
		pcm.Grow(int(seconds*float64(sampleRate)) * 2)
	}

	if err := ffmpeg.ExtractPCM(ctx, file, &pcm, 0, sampleRate); err != nil {
		return nil, 0, err
	}

	return decodeS16le(pcm.Bytes()), sampleRate, nil
}

func decodeS16le(raw []byte) []float64 {
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float64(v) / 32768.0
	}

	return samples
}
