package llm

import (
	"context"
	"fmt"
)

// DeltaKind discriminates the shapes a streaming completion item can take
type DeltaKind string

const (
	// DeltaText is a plain text chunk
	DeltaText DeltaKind = "text"
	// DeltaStruct is a structured delta carrying a text field
	DeltaStruct DeltaKind = "struct"
	// DeltaRaw is an opaque object convertible to string
	DeltaRaw DeltaKind = "raw"
)

// Delta is one item of a streaming completion. Providers emit different
// shapes; consumers normalize with Token.
type Delta struct {
	Kind   DeltaKind
	Text   string
	Fields map[string]string
	Raw    interface{}
}

// Token normalizes a delta to its text content
func (d Delta) Token() string {
	switch d.Kind {
	case DeltaText:
		return d.Text
	case DeltaStruct:
		return d.Fields["text"]
	default:
		return fmt.Sprintf("%v", d.Raw)
	}
}

// Stream is a lazy sequence of deltas. Err reports the terminal error, if
// any, once the delta channel has been drained.
type Stream struct {
	deltas chan Delta
	err    error
}

// NewStream creates a stream with the given buffer size. The producer must
// call Close exactly once.
func NewStream(buffer int) *Stream {
	return &Stream{deltas: make(chan Delta, buffer)}
}

// Deltas returns the delta channel; it is closed when the stream ends
func (s *Stream) Deltas() <-chan Delta {
	return s.deltas
}

// Err returns the terminal stream error. Valid only after Deltas is closed.
func (s *Stream) Err() error {
	return s.err
}

// Send delivers one delta, honoring context cancellation
func (s *Stream) Send(ctx context.Context, d Delta) error {
	select {
	case s.deltas <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the stream, recording err as the terminal error
func (s *Stream) Close(err error) {
	s.err = err
	close(s.deltas)
}

// LLM is the language model contract consumed by the RAG answerer
type LLM interface {
	// Complete runs a blocking completion and returns the full text
	Complete(ctx context.Context, prompt string) (string, error)

	// StreamComplete starts a streaming completion. The returned stream is
	// live immediately; tokens arrive as the model produces them.
	StreamComplete(ctx context.Context, prompt string) (*Stream, error)
}
