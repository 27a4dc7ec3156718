package vectorstore

import (
	"context"
)

// Embedder generates vector embeddings from text. The langchaingo embedder
// satisfies this interface directly.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// IndexDocument is one index-ready document: text, metadata, and a stable id
type IndexDocument struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// ScoredNode is one similarity hit returned from a collection
type ScoredNode struct {
	Text     string
	Score    float64
	Metadata map[string]string
}

// Index is an open handle on one collection
type Index interface {
	// Query returns up to topK nodes ordered by similarity score descending
	Query(ctx context.Context, text string, topK int) ([]ScoredNode, error)
}

// Store is the vector store contract. Implementations hold no per-KB state;
// an Index is re-opened on demand so replicas stay interchangeable.
type Store interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	DeleteCollection(ctx context.Context, name string) error

	// CreateIndexFromDocuments creates the collection and inserts embeddings
	// computed via the embedder
	CreateIndexFromDocuments(ctx context.Context, collection string, docs []IndexDocument, embedder Embedder) error

	// OpenIndex opens a query handle on an existing collection
	OpenIndex(collection string, embedder Embedder) Index

	// Ping verifies connectivity
	Ping(ctx context.Context) error
}
