package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlysaid/onlysaid-kb/pkg/index"
	"github.com/onlysaid/onlysaid-kb/pkg/llm"
	"github.com/onlysaid/onlysaid-kb/pkg/retriever"
	"github.com/onlysaid/onlysaid-kb/pkg/statestore"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
	"github.com/onlysaid/onlysaid-kb/pkg/vectorstore"
)

// echoLLM returns its prompt so tests can inspect prompt composition
type echoLLM struct{}

func (echoLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return prompt, nil
}

func (echoLLM) StreamComplete(ctx context.Context, prompt string) (*llm.Stream, error) {
	stream := llm.NewStream(8)
	go func() {
		for _, word := range strings.Fields(prompt) {
			if err := stream.Send(ctx, llm.Delta{Kind: llm.DeltaText, Text: word + " "}); err != nil {
				stream.Close(err)
				return
			}
		}
		stream.Close(nil)
	}()
	return stream, nil
}

func newAnswerer(t *testing.T) (*Answerer, statestore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := statestore.NewRedisStoreFromClient(client)
	vectors := vectorstore.NewMemoryStore()
	builder := index.NewBuilder(store, vectors, vectorstore.HashEmbedder{})
	ret := retriever.NewRetriever(store, vectors, vectorstore.HashEmbedder{}, builder)
	return NewAnswerer(ret, echoLLM{}), store
}

func seedRunningKB(t *testing.T, store statestore.Store, ws, kb, docID, text string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SetDocs(ctx, ws, kb, []*types.Document{{
		ID: docID,
		Original: &types.OriginalDoc{
			ID:       docID,
			Metadata: map[string]string{"file_name": docID},
			Text:     text,
		},
	}}))
	require.NoError(t, store.SetStatus(ctx, ws, kb, types.KBStatusRunning))
}

// TestComposeContext tests the context block format
func TestComposeContext(t *testing.T) {
	results := []types.RetrievalResult{
		{Text: "first chunk"},
		{Text: "second chunk"},
	}

	context := composeContext(results)
	assert.True(t, strings.HasPrefix(context, "Relevant information:\n\n"))
	assert.Contains(t, context, "[Document 1] first chunk")
	assert.Contains(t, context, "[Document 2] second chunk")

	// The header survives an empty result set
	assert.Equal(t, "Relevant information:\n\n", composeContext(nil))
}

// TestRenderPrompt tests template selection and substitution
func TestRenderPrompt(t *testing.T) {
	tests := []struct {
		name     string
		language string
		contains string
	}{
		{name: "english", language: "en", contains: "Please respond to the user's question in English."},
		{name: "cantonese", language: "zh-HK", contains: "廣東話"},
		{name: "japanese", language: "ja", contains: "日本語"},
		{name: "unknown falls back to english", language: "xx-YY", contains: "in English"},
		{name: "empty falls back to english", language: "", contains: "in English"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := renderPrompt(tt.language, "CTX", "HIST", "QUERY")
			assert.Contains(t, prompt, tt.contains)
			assert.Contains(t, prompt, "CTX")
			assert.Contains(t, prompt, "HIST")
			assert.Contains(t, prompt, "QUERY")
			assert.NotContains(t, prompt, "{context}")
			assert.NotContains(t, prompt, "{query}")
		})
	}
}

// TestSupportedLanguage verifies the template inventory
func TestSupportedLanguage(t *testing.T) {
	for _, lang := range []string{"en", "zh-HK", "zh-CN", "ja", "ko", "th-TH", "vi-VN"} {
		assert.True(t, SupportedLanguage(lang), lang)
	}
	assert.False(t, SupportedLanguage("fr"))
}

// TestAnswerIncludesRetrievedContext verifies the prompt carries the corpus
func TestAnswerIncludesRetrievedContext(t *testing.T) {
	ctx := context.Background()
	answerer, store := newAnswerer(t)
	seedRunningKB(t, store, "ws1", "kb1", "a.txt", "the capital of France is Paris")

	answer, err := answerer.Answer(ctx, &types.QueryRequest{
		WorkspaceID:       "ws1",
		Query:             []string{"capital France"},
		PreferredLanguage: "en",
	})
	require.NoError(t, err)

	// echoLLM returns the prompt itself
	assert.Contains(t, answer, "Relevant information:")
	assert.Contains(t, answer, "the capital of France is Paris")
	assert.Contains(t, answer, "User's question: capital France")
}

// TestAnswerUsesLastQueryElement verifies multi-element queries use the tail
func TestAnswerUsesLastQueryElement(t *testing.T) {
	ctx := context.Background()
	answerer, store := newAnswerer(t)
	seedRunningKB(t, store, "ws1", "kb1", "a.txt", "some indexed text")

	answer, err := answerer.Answer(ctx, &types.QueryRequest{
		WorkspaceID:       "ws1",
		Query:             []string{"older question", "latest question"},
		PreferredLanguage: "en",
	})
	require.NoError(t, err)
	assert.Contains(t, answer, "User's question: latest question")
}

// TestStreamAnswer verifies tokens arrive and the stream terminates cleanly
func TestStreamAnswer(t *testing.T) {
	ctx := context.Background()
	answerer, store := newAnswerer(t)
	seedRunningKB(t, store, "ws1", "kb1", "a.txt", "streamed corpus text")

	stream, err := answerer.StreamAnswer(ctx, &types.QueryRequest{
		WorkspaceID:       "ws1",
		Query:             []string{"corpus"},
		PreferredLanguage: "en",
	})
	require.NoError(t, err)

	var b strings.Builder
	for delta := range stream.Deltas() {
		b.WriteString(delta.Token())
	}
	require.NoError(t, stream.Err())
	assert.Contains(t, b.String(), "corpus")
}
