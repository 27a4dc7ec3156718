package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// QdrantStore implements Store against the Qdrant REST API. Calls run
// through a circuit breaker so a down vector store degrades queries
// instead of hammering it.
type QdrantStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// QdrantConfig holds Qdrant connection configuration
type QdrantConfig struct {
	URL    string
	APIKey string
}

// NewQdrantStore creates a Qdrant-backed vector store
func NewQdrantStore(cfg *QdrantConfig) (*QdrantStore, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant url %q: %w", cfg.URL, err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "qdrant",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger := log.WithComponent("vectorstore")
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("qdrant circuit breaker state changed")
		},
	})

	return &QdrantStore{
		baseURL: base.String(),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: breaker,
	}, nil
}

// do issues one request through the breaker and decodes the response body
func (s *QdrantStore) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &qdrantResponse{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s %s: %v: %w", method, path, err, types.ErrVectorStore)
	}

	resp := result.(*qdrantResponse)
	if out != nil && resp.status == http.StatusOK {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return resp.status, fmt.Errorf("failed to decode response: %v: %w", err, types.ErrVectorStore)
		}
	}
	return resp.status, nil
}

type qdrantResponse struct {
	status int
	body   []byte
}

func (s *QdrantStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	status, err := s.do(ctx, http.MethodGet, "/collections/"+name, nil, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

func (s *QdrantStore) DeleteCollection(ctx context.Context, name string) error {
	status, err := s.do(ctx, http.MethodDelete, "/collections/"+name, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNotFound {
		return fmt.Errorf("delete collection %s: status %d: %w", name, status, types.ErrVectorStore)
	}
	return nil
}

type qdrantPoint struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

func (s *QdrantStore) CreateIndexFromDocuments(ctx context.Context, collection string, docs []IndexDocument, embedder Embedder) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed %d documents: %w", len(docs), err)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("embedder returned no vectors: %w", types.ErrVectorStore)
	}

	createBody := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     len(vectors[0]),
			"distance": "Cosine",
		},
	}
	status, err := s.do(ctx, http.MethodPut, "/collections/"+collection, createBody, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("create collection %s: status %d: %w", collection, status, types.ErrVectorStore)
	}

	points := make([]qdrantPoint, len(docs))
	for i, doc := range docs {
		payload := map[string]interface{}{"text": doc.Text}
		for k, v := range doc.Metadata {
			payload[k] = v
		}
		points[i] = qdrantPoint{
			// Qdrant point ids must be UUIDs or integers; derive a stable
			// UUID from the collection and document id
			ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(collection+"/"+doc.ID)).String(),
			Vector:  vectors[i],
			Payload: payload,
		}
	}

	upsertBody := map[string]interface{}{"points": points}
	status, err = s.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", upsertBody, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("upsert points into %s: status %d: %w", collection, status, types.ErrVectorStore)
	}
	return nil
}

// qdrantIndex is a query handle on one collection
type qdrantIndex struct {
	store      *QdrantStore
	collection string
	embedder   Embedder
}

func (s *QdrantStore) OpenIndex(collection string, embedder Embedder) Index {
	return &qdrantIndex{store: s, collection: collection, embedder: embedder}
}

type qdrantSearchResult struct {
	Result []struct {
		Score   float64                `json:"score"`
		Payload map[string]interface{} `json:"payload"`
	} `json:"result"`
}

func (i *qdrantIndex) Query(ctx context.Context, text string, topK int) ([]ScoredNode, error) {
	vector, err := i.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchBody := map[string]interface{}{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}

	var result qdrantSearchResult
	status, err := i.store.do(ctx, http.MethodPost, "/collections/"+i.collection+"/points/search", searchBody, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search %s: status %d: %w", i.collection, status, types.ErrVectorStore)
	}

	nodes := make([]ScoredNode, 0, len(result.Result))
	for _, hit := range result.Result {
		node := ScoredNode{Score: hit.Score, Metadata: make(map[string]string)}
		for k, v := range hit.Payload {
			str, ok := v.(string)
			if !ok {
				continue
			}
			if k == "text" {
				node.Text = str
			} else {
				node.Metadata[k] = str
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (s *QdrantStore) Ping(ctx context.Context) error {
	status, err := s.do(ctx, http.MethodGet, "/collections", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant ping: status %d: %w", status, types.ErrVectorStore)
	}
	return nil
}
