package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// MemoryStore is an in-process Store used by tests and single-node
// development. Search is brute-force cosine similarity.
type MemoryStore struct {
	collections map[string][]memoryPoint
	mu          sync.RWMutex
}

type memoryPoint struct {
	vector   []float32
	text     string
	metadata map[string]string
}

// NewMemoryStore creates an empty in-memory vector store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]memoryPoint),
	}
}

func (s *MemoryStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

func (s *MemoryStore) DeleteCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

func (s *MemoryStore) CreateIndexFromDocuments(ctx context.Context, collection string, docs []IndexDocument, embedder Embedder) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents: %w", len(vectors), len(docs), types.ErrVectorStore)
	}

	points := make([]memoryPoint, len(docs))
	for i, doc := range docs {
		metadata := make(map[string]string, len(doc.Metadata))
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		points[i] = memoryPoint{vector: vectors[i], text: doc.Text, metadata: metadata}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = points
	return nil
}

type memoryIndex struct {
	store      *MemoryStore
	collection string
	embedder   Embedder
}

func (s *MemoryStore) OpenIndex(collection string, embedder Embedder) Index {
	return &memoryIndex{store: s, collection: collection, embedder: embedder}
}

func (i *memoryIndex) Query(ctx context.Context, text string, topK int) ([]ScoredNode, error) {
	vector, err := i.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	i.store.mu.RLock()
	points, ok := i.store.collections[i.collection]
	i.store.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist: %w", i.collection, types.ErrVectorStore)
	}

	nodes := make([]ScoredNode, 0, len(points))
	for _, p := range points {
		nodes = append(nodes, ScoredNode{
			Text:     p.text,
			Score:    cosineSimilarity(vector, p.vector),
			Metadata: p.metadata,
		})
	}

	sort.SliceStable(nodes, func(a, b int) bool { return nodes[a].Score > nodes[b].Score })
	if len(nodes) > topK {
		nodes = nodes[:topK]
	}
	return nodes, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
