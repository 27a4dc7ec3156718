package index

import (
	"context"
	"fmt"

	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/statestore"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
	"github.com/onlysaid/onlysaid-kb/pkg/vectorstore"
)

// CollectionName returns the vector-store collection for a KB. kb_id is
// treated as globally unique here; see the index_created key schema.
func CollectionName(kbID string) string {
	return "kb_" + kbID
}

// Builder rebuilds the vector-store collection for one KB from its persisted
// documents. It holds no in-memory index; retrievers re-open collections on
// demand, keeping replicas interchangeable.
type Builder struct {
	store    statestore.Store
	vectors  vectorstore.Store
	embedder vectorstore.Embedder
}

// NewBuilder creates an index builder
func NewBuilder(store statestore.Store, vectors vectorstore.Store, embedder vectorstore.Embedder) *Builder {
	return &Builder{
		store:    store,
		vectors:  vectors,
		embedder: embedder,
	}
}

// Build deletes any existing collection for the KB and rebuilds it from the
// documents persisted in the status store. Full rebuild is the only update
// path.
func (b *Builder) Build(ctx context.Context, workspaceID, kbID string) error {
	logger := log.WithKB(workspaceID, kbID)

	docs, err := b.store.GetDocs(ctx, workspaceID, kbID)
	if err != nil {
		return fmt.Errorf("failed to load persisted docs: %w", err)
	}

	indexDocs := make([]vectorstore.IndexDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.Original == nil || doc.Original.Text == "" {
			continue
		}
		indexDocs = append(indexDocs, vectorstore.IndexDocument{
			ID:       doc.Original.ID,
			Text:     doc.Original.Text,
			Metadata: doc.Original.Metadata,
		})
	}

	if len(indexDocs) == 0 {
		logger.Warn().Msg("no indexable documents, skipping index build")
		return nil
	}

	collection := CollectionName(kbID)

	exists, err := b.vectors.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %v: %w", collection, err, types.ErrIndexBuildFailed)
	}
	if exists {
		logger.Info().Str("collection", collection).Msg("deleting existing collection for recreation")
		if err := b.vectors.DeleteCollection(ctx, collection); err != nil {
			return fmt.Errorf("failed to delete collection %s: %v: %w", collection, err, types.ErrIndexBuildFailed)
		}
	}

	if err := b.vectors.CreateIndexFromDocuments(ctx, collection, indexDocs, b.embedder); err != nil {
		return fmt.Errorf("failed to build index for %s: %v: %w", collection, err, types.ErrIndexBuildFailed)
	}

	if err := b.store.MarkIndexCreated(ctx, kbID); err != nil {
		return fmt.Errorf("failed to mark index created: %w", err)
	}

	logger.Info().Str("collection", collection).Int("documents", len(indexDocs)).Msg("index built")
	return nil
}
