package retriever

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/onlysaid/onlysaid-kb/pkg/index"
	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/metrics"
	"github.com/onlysaid/onlysaid-kb/pkg/statestore"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
	"github.com/onlysaid/onlysaid-kb/pkg/vectorstore"
)

// DefaultTopK is the result budget when the caller does not specify one
const DefaultTopK = 5

// Retriever fans a query out across the running KBs of a workspace and
// merges the per-KB hits by similarity score. Per-KB failures degrade the
// result set; they never fail the whole query.
type Retriever struct {
	store    statestore.Store
	vectors  vectorstore.Store
	embedder vectorstore.Embedder
	builder  *index.Builder
}

// NewRetriever creates a retriever
func NewRetriever(store statestore.Store, vectors vectorstore.Store, embedder vectorstore.Embedder, builder *index.Builder) *Retriever {
	return &Retriever{
		store:    store,
		vectors:  vectors,
		embedder: embedder,
		builder:  builder,
	}
}

// Retrieve queries the selected KBs and returns the global top-k results
// ordered by score descending. When kbIDs is empty, every running KB in the
// workspace is queried. KBs that are not running are silently dropped.
func (r *Retriever) Retrieve(ctx context.Context, workspaceID string, kbIDs []string, queryText string, topK int) ([]types.RetrievalResult, error) {
	logger := log.WithComponent("retriever")
	start := time.Now()
	defer func() { metrics.RetrievalLatency.Observe(time.Since(start).Seconds()) }()

	if topK <= 0 {
		topK = DefaultTopK
	}

	selected, err := r.selectKBs(ctx, workspaceID, kbIDs)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return []types.RetrievalResult{}, nil
	}

	// One result slot per KB keeps merge order deterministic without locks
	perKB := make([][]types.RetrievalResult, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	for i, kbID := range selected {
		i, kbID := i, kbID
		g.Go(func() error {
			results, err := r.queryKB(gctx, workspaceID, kbID, queryText, topK)
			if err != nil {
				logger.Warn().Err(err).Str("kb_id", kbID).Msg("skipping knowledge base")
				return nil
			}
			perKB[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Union all per-KB results; ties resolve by KB insertion order
	var merged []types.RetrievalResult
	for _, results := range perKB {
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(a, b int) bool { return merged[a].Score > merged[b].Score })
	if len(merged) > topK {
		merged = merged[:topK]
	}
	if merged == nil {
		merged = []types.RetrievalResult{}
	}
	return merged, nil
}

// selectKBs resolves the KB set to query: the caller's explicit list
// filtered to running, or every running KB in the workspace
func (r *Retriever) selectKBs(ctx context.Context, workspaceID string, kbIDs []string) ([]string, error) {
	logger := log.WithWorkspaceID(workspaceID)

	if len(kbIDs) > 0 {
		var selected []string
		var notRunning []string
		for _, kbID := range kbIDs {
			status, err := r.store.GetStatus(ctx, workspaceID, kbID)
			if err != nil {
				return nil, err
			}
			if status == types.KBStatusRunning {
				selected = append(selected, kbID)
			} else {
				notRunning = append(notRunning, kbID)
			}
		}
		if len(notRunning) > 0 {
			logger.Warn().Strs("kb_ids", notRunning).Msg("some requested knowledge bases are not running")
		}
		return selected, nil
	}

	refs, err := r.store.ListKBs(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, ref := range refs {
		status, err := r.store.GetStatus(ctx, workspaceID, ref.KBID)
		if err != nil {
			return nil, err
		}
		if status == types.KBStatusRunning {
			selected = append(selected, ref.KBID)
		}
	}
	return selected, nil
}

// queryKB runs the similarity query against one KB, building its index on
// demand when the flag is missing but documents exist
func (r *Retriever) queryKB(ctx context.Context, workspaceID, kbID, queryText string, topK int) ([]types.RetrievalResult, error) {
	logger := log.WithKB(workspaceID, kbID)

	created, err := r.store.IndexCreated(ctx, kbID)
	if err != nil {
		return nil, err
	}
	if !created {
		hasDocs, err := r.store.HasDocs(ctx, workspaceID, kbID)
		if err != nil {
			return nil, err
		}
		if !hasDocs {
			logger.Warn().Msg("no documents found, skipping")
			return nil, nil
		}
		logger.Info().Msg("creating index on demand")
		if err := r.builder.Build(ctx, workspaceID, kbID); err != nil {
			return nil, err
		}
	}

	idx := r.vectors.OpenIndex(index.CollectionName(kbID), r.embedder)
	nodes, err := idx.Query(ctx, queryText, topK)
	if err != nil {
		return nil, err
	}

	results := make([]types.RetrievalResult, 0, len(nodes))
	for _, node := range nodes {
		results = append(results, types.RetrievalResult{
			KBID:     kbID,
			Text:     node.Text,
			Score:    node.Score,
			Metadata: node.Metadata,
		})
	}
	return results, nil
}
