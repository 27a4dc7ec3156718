/*
Package statestore provides the Redis-backed shared state for knowledge
bases.

All durable knowledge base state lives here: lifecycle status, the derived
folder structure, the full document list (including original bodies), and
the index-created flag. Because the store is shared, every service replica
observes the same lifecycle and can rebuild a vector index from persisted
documents without re-reading the source.

# Key Schema

	kb:<workspace_id>:<kb_id>:status            lifecycle status string
	kb:<workspace_id>:<kb_id>:folder_structure  JSON folder tree
	kb:<workspace_id>:<kb_id>:docs              JSON document list
	kb:<kb_id>:index_created                    flag, workspace-agnostic

The index_created key is deliberately keyed by kb_id alone: vector store
collections are named kb_<kb_id>, so the id is treated as globally unique
for indexing purposes even though status keys are workspace-scoped.

# Semantics

  - Reads of absent keys are not errors: status reads return not_found,
    document and folder reads return empty lists.
  - Connectivity failures wrap ErrStoreUnavailable so callers can tell a
    down store apart from an absent key.
  - All mutations are single-key writes; there are no multi-key
    transactions. Delete removes keys one at a time and the caller retries
    on partial failure.
  - Enumeration uses cursor-based prefix scans (SCAN), never KEYS, so
    listing workspaces does not block the store.

# Usage

	store, err := statestore.NewRedisStore(ctx, &statestore.Config{
		Addr: "localhost:6379",
	})
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.SetStatus(ctx, "ws1", "kb1", types.KBStatusRunning)

Tests wrap a miniredis instance via NewRedisStoreFromClient.
*/
package statestore
