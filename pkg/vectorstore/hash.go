package vectorstore

import (
	"context"
	"hash/fnv"
	"strings"
)

// hashDim is the dimensionality of HashEmbedder vectors
const hashDim = 64

// HashEmbedder is a deterministic bag-of-words embedder for tests and
// single-node development. Texts sharing words get correlated vectors, so
// cosine ranking behaves sensibly without a model backend.
type HashEmbedder struct{}

func (HashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashEmbed(text)
	}
	return vectors, nil
}

func (HashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return hashEmbed(text), nil
}

func hashEmbed(text string) []float32 {
	v := make([]float32, hashDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		v[h.Sum32()%hashDim]++
	}
	return v
}
