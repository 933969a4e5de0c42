package ffmpeg

import "time"

const (
	name  = "ffmpeg"
	codec = "pcm_s16le"
	// Decoding a full-length track from a slow drive or network mount can
	// legitimately take a while.
	timeout = 60 * time.Second
)
