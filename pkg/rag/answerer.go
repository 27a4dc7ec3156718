package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/onlysaid/onlysaid-kb/pkg/llm"
	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/retriever"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// Answerer turns a workspace query into a grounded answer: retrieve the
// top-k chunks, compose them into a localized prompt, and drive the model
// in blocking or streaming mode.
type Answerer struct {
	retriever *retriever.Retriever
	model     llm.LLM
}

// NewAnswerer creates an answerer
func NewAnswerer(r *retriever.Retriever, model llm.LLM) *Answerer {
	return &Answerer{retriever: r, model: model}
}

// composeContext renders retrieval results into the prompt context block.
// The header is emitted even with zero results; the template instructs the
// model to say it does not know when the block is empty.
func composeContext(results []types.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Relevant information:\n\n")
	for i, result := range results {
		fmt.Fprintf(&b, "[Document %d] %s\n\n", i+1, result.Text)
	}
	return b.String()
}

// buildPrompt retrieves context for the query and renders the language
// template. Unsupported languages fall back to English.
func (a *Answerer) buildPrompt(ctx context.Context, q *types.QueryRequest) (string, error) {
	logger := log.WithWorkspaceID(q.WorkspaceID)

	results, err := a.retriever.Retrieve(ctx, q.WorkspaceID, q.KnowledgeBases, q.QueryText(), q.TopK)
	if err != nil {
		return "", err
	}

	if !SupportedLanguage(q.PreferredLanguage) && q.PreferredLanguage != "" {
		logger.Warn().Str("language", q.PreferredLanguage).Msg("unsupported language, falling back to English")
	}

	logger.Debug().Int("results", len(results)).Str("language", q.PreferredLanguage).Msg("composing prompt")
	return renderPrompt(q.PreferredLanguage, composeContext(results), q.ConversationHistory, q.QueryText()), nil
}

// Answer runs a blocking RAG answer and returns the full response text
func (a *Answerer) Answer(ctx context.Context, q *types.QueryRequest) (string, error) {
	prompt, err := a.buildPrompt(ctx, q)
	if err != nil {
		return "", err
	}
	return a.model.Complete(ctx, prompt)
}

// StreamAnswer starts a streaming RAG answer. Retrieval and prompt
// composition happen before the stream is returned; model tokens arrive on
// the stream as they are produced.
func (a *Answerer) StreamAnswer(ctx context.Context, q *types.QueryRequest) (*llm.Stream, error) {
	prompt, err := a.buildPrompt(ctx, q)
	if err != nil {
		return nil, err
	}
	return a.model.StreamComplete(ctx, prompt)
}
