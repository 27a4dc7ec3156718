package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeltaToken tests normalization across provider delta shapes
func TestDeltaToken(t *testing.T) {
	tests := []struct {
		name  string
		delta Delta
		want  string
	}{
		{
			name:  "text delta",
			delta: Delta{Kind: DeltaText, Text: "hello"},
			want:  "hello",
		},
		{
			name:  "struct delta",
			delta: Delta{Kind: DeltaStruct, Fields: map[string]string{"text": "chunk"}},
			want:  "chunk",
		},
		{
			name:  "struct delta without text field",
			delta: Delta{Kind: DeltaStruct, Fields: map[string]string{}},
			want:  "",
		},
		{
			name:  "raw delta stringified",
			delta: Delta{Kind: DeltaRaw, Raw: 42},
			want:  "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.delta.Token())
		})
	}
}

// TestStreamDelivery tests ordered delivery and clean termination
func TestStreamDelivery(t *testing.T) {
	ctx := context.Background()
	stream := NewStream(4)

	go func() {
		for _, text := range []string{"a", "b", "c"} {
			_ = stream.Send(ctx, Delta{Kind: DeltaText, Text: text})
		}
		stream.Close(nil)
	}()

	var got []string
	for delta := range stream.Deltas() {
		got = append(got, delta.Token())
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.NoError(t, stream.Err())
}

// TestStreamTerminalError verifies the terminal error surfaces after drain
func TestStreamTerminalError(t *testing.T) {
	ctx := context.Background()
	stream := NewStream(1)

	wantErr := errors.New("backend gone")
	go func() {
		_ = stream.Send(ctx, Delta{Kind: DeltaText, Text: "partial"})
		stream.Close(wantErr)
	}()

	var got []string
	for delta := range stream.Deltas() {
		got = append(got, delta.Token())
	}
	assert.Equal(t, []string{"partial"}, got)
	assert.Equal(t, wantErr, stream.Err())
}

// TestStreamSendCancelled verifies Send honors context cancellation
func TestStreamSendCancelled(t *testing.T) {
	stream := NewStream(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := stream.Send(ctx, Delta{Kind: DeltaText, Text: "x"})
	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}
