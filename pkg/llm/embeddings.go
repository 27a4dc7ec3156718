package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/onlysaid/onlysaid-kb/pkg/vectorstore"
)

// EmbedderConfig holds embedding model configuration
type EmbedderConfig struct {
	Model   string
	BaseURL string
}

// NewOllamaEmbedder creates an embedder served by an Ollama instance.
// The returned embedder satisfies the vector store's Embedder contract.
func NewOllamaEmbedder(cfg *EmbedderConfig) (vectorstore.Embedder, error) {
	opts := []ollama.Option{
		ollama.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}
