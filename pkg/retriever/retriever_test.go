package retriever

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	dto "github.com/prometheus/client_model/go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlysaid/onlysaid-kb/pkg/index"
	"github.com/onlysaid/onlysaid-kb/pkg/metrics"
	"github.com/onlysaid/onlysaid-kb/pkg/statestore"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
	"github.com/onlysaid/onlysaid-kb/pkg/vectorstore"
)

type fixture struct {
	store     statestore.Store
	vectors   *vectorstore.MemoryStore
	retriever *Retriever
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := statestore.NewRedisStoreFromClient(client)
	vectors := vectorstore.NewMemoryStore()
	builder := index.NewBuilder(store, vectors, vectorstore.HashEmbedder{})

	return &fixture{
		store:     store,
		vectors:   vectors,
		retriever: NewRetriever(store, vectors, vectorstore.HashEmbedder{}, builder),
	}
}

// seedKB persists docs for a KB, marks it with the given status, and builds
// its index when running
func (f *fixture) seedKB(t *testing.T, ws, kb string, status types.KBStatus, texts map[string]string) {
	t.Helper()
	ctx := context.Background()

	var docs []*types.Document
	for id, text := range texts {
		docs = append(docs, &types.Document{
			ID: id,
			Original: &types.OriginalDoc{
				ID:       id,
				Metadata: map[string]string{"file_name": id},
				Text:     text,
			},
		})
	}
	require.NoError(t, f.store.SetDocs(ctx, ws, kb, docs))
	require.NoError(t, f.store.SetStatus(ctx, ws, kb, status))
}

// TestRetrieveOnlyRunningKBs verifies results come only from running KBs
func TestRetrieveOnlyRunningKBs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seedKB(t, "ws1", "kb-run", types.KBStatusRunning, map[string]string{
		"r.txt": "shared topic words",
	})
	f.seedKB(t, "ws1", "kb-off", types.KBStatusDisabled, map[string]string{
		"d.txt": "shared topic words",
	})

	results, err := f.retriever.Retrieve(ctx, "ws1", nil, "shared topic", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "kb-run", r.KBID)
	}
}

// TestRetrieveExplicitKBsFilterNotRunning verifies requested non-running KBs
// are dropped, not errored
func TestRetrieveExplicitKBsFilterNotRunning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seedKB(t, "ws1", "kb1", types.KBStatusRunning, map[string]string{"a.txt": "alpha words"})
	f.seedKB(t, "ws1", "kb2", types.KBStatusError, map[string]string{"b.txt": "alpha words"})

	results, err := f.retriever.Retrieve(ctx, "ws1", []string{"kb1", "kb2", "kb-missing"}, "alpha", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "kb1", r.KBID)
	}
}

// TestRetrieveTopKByScore verifies the merged output budget and ordering
func TestRetrieveTopKByScore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seedKB(t, "ws1", "kb1", types.KBStatusRunning, map[string]string{
		"a.txt": "query term here",
		"b.txt": "unrelated filler text",
	})
	f.seedKB(t, "ws1", "kb2", types.KBStatusRunning, map[string]string{
		"c.txt": "query term elsewhere",
		"d.txt": "completely different content",
	})

	results, err := f.retriever.Retrieve(ctx, "ws1", nil, "query term", 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 3)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

// TestRetrieveMergesAcrossKBs verifies hits from both KBs appear in one set
func TestRetrieveMergesAcrossKBs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seedKB(t, "ws1", "kb1", types.KBStatusRunning, map[string]string{
		"a.txt": "golang concurrency patterns",
	})
	f.seedKB(t, "ws1", "kb2", types.KBStatusRunning, map[string]string{
		"b.txt": "golang error handling",
	})

	results, err := f.retriever.Retrieve(ctx, "ws1", nil, "golang", 10)
	require.NoError(t, err)

	kbs := make(map[string]bool)
	for _, r := range results {
		kbs[r.KBID] = true
	}
	assert.True(t, kbs["kb1"])
	assert.True(t, kbs["kb2"])
}

// TestRetrieveBuildsIndexOnDemand verifies a running KB without the index
// flag gets its index built during the query
func TestRetrieveBuildsIndexOnDemand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seedKB(t, "ws1", "kb1", types.KBStatusRunning, map[string]string{
		"a.txt": "lazy indexed content",
	})

	created, err := f.store.IndexCreated(ctx, "kb1")
	require.NoError(t, err)
	require.False(t, created)

	results, err := f.retriever.Retrieve(ctx, "ws1", []string{"kb1"}, "lazy content", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	created, err = f.store.IndexCreated(ctx, "kb1")
	require.NoError(t, err)
	assert.True(t, created)
}

// TestRetrieveEmptyWorkspace verifies an empty workspace yields no results
func TestRetrieveEmptyWorkspace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	results, err := f.retriever.Retrieve(ctx, "ws-empty", nil, "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestRetrieveDefaultTopK verifies a non-positive budget falls back
func TestRetrieveDefaultTopK(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	texts := map[string]string{
		"1.txt": "common word one",
		"2.txt": "common word two",
		"3.txt": "common word three",
		"4.txt": "common word four",
		"5.txt": "common word five",
		"6.txt": "common word six",
		"7.txt": "common word seven",
	}
	f.seedKB(t, "ws1", "kb1", types.KBStatusRunning, texts)

	results, err := f.retriever.Retrieve(ctx, "ws1", nil, "common word", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func retrievalSamples(t *testing.T) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.RetrievalLatency.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

// TestRetrieveObservesLatency verifies each retrieval lands in the histogram
func TestRetrieveObservesLatency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seedKB(t, "ws1", "kb1", types.KBStatusRunning, map[string]string{
		"a.txt": "timed corpus words",
	})

	before := retrievalSamples(t)
	_, err := f.retriever.Retrieve(ctx, "ws1", nil, "timed corpus", 3)
	require.NoError(t, err)
	assert.Equal(t, before+1, retrievalSamples(t))
}
