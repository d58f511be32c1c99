package audio

import (
	"context"
	"io"
)

// Options configures one transcode run.
type Options struct {
	Bitrate    int // kbps
	SampleRate int // Hz
	Channels   int
	Duration   int // total source seconds; 0 when unknown, disables percent progress
}

// Transcoder converts a source audio byte-stream into compressed MP3 written
// to sink as it is produced: a forward-only relay, never buffer-then-send.
// Cancelling ctx must terminate the underlying process immediately.
type Transcoder interface {
	Transcode(ctx context.Context, source io.Reader, sink io.Writer, opts Options) error
}

// Fetcher opens streaming reads on resolved media URLs.
type Fetcher interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}
