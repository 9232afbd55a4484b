package sinks

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/msds-io/msds/internal/engine"
)

// StreamSink writes all output to a single writer. Result boundaries are
// whatever the encoder emits; the JSON encoder terminates each result with
// a newline.
type StreamSink struct {
	w io.Writer
}

func NewStreamSink(w io.Writer) engine.Sink {
	return &StreamSink{w: w}
}

// NewStdoutSink is the sink used for `output.sink.stdout` jobs.
func NewStdoutSink() engine.Sink {
	return &StreamSink{w: os.Stdout}
}

func (s *StreamSink) Name() string {
	return "stream"
}

func (s *StreamSink) Kind() string {
	return "stream"
}

func (s *StreamSink) Write(ctx context.Context, path string, data io.Reader) error {
	if _, err := io.Copy(s.w, data); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	return nil
}

func (s *StreamSink) Close(ctx context.Context) error {
	return nil
}
