/*
Package manager provides the orchestration facade and the background
ingestion pipeline for knowledge bases.

The manager is the single entry point API handlers use. It validates and
acknowledges registrations, runs the ingestion pipeline on a dedicated
worker goroutine, toggles knowledge bases between running and disabled,
deletes all traces of a knowledge base, and delegates retrieval and
answering to the retriever and RAG answerer.

# Architecture

	┌───────────────────── MANAGER ─────────────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐            │
	│  │              Facade                        │            │
	│  │  Register / Sync / GetStatus               │            │
	│  │  UpdateStatus / Delete                     │            │
	│  │  ListSources / GetSource / View            │            │
	│  │  Retrieve / Answer / StreamAnswer          │            │
	│  └──────────────────┬─────────────────────────┘            │
	│                     │ enqueue (non-blocking)               │
	│  ┌──────────────────▼─────────────────────────┐            │
	│  │        Ingestion Queue                     │            │
	│  │  - Buffered channel (capacity 256)         │            │
	│  │  - One job per registration or sync        │            │
	│  └──────────────────┬─────────────────────────┘            │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐            │
	│  │      Pipeline Worker (one goroutine)       │            │
	│  │  1. status = initializing                  │            │
	│  │  2. reader: configure + load documents     │            │
	│  │  3. persist docs + folder structure        │            │
	│  │  4. build vector index                     │            │
	│  │  5. status = running  (error on failure)   │            │
	│  └──────────────────┬─────────────────────────┘            │
	│                     │                                      │
	│            statestore / vectorstore / events               │
	└────────────────────────────────────────────────────────────┘

# Knowledge Base State Machine

A knowledge base moves through a small set of states, all persisted in the
shared status store so every replica sees the same view:

	absent ──register──▶ disabled ──pipeline──▶ initializing
	                                                 │
	                              ┌──────────────────┤
	                              ▼                  ▼
	                           running ◀─toggle─▶ disabled
	                              │
	                            error  (pipeline failure)

	delete from any state returns the KB to absent.

Registration always acknowledges: source problems (bad path, unknown source
type, reader failure, index build failure) are found by the pipeline and
surface as status error. Callers learn about asynchronous failure by
polling the status endpoint.

# Concurrency Model

One worker goroutine drains the ingestion queue, so at most one knowledge
base is being read and embedded at any time. Registration and sync enqueue
without blocking; when the queue is full the call fails fast and the
caller retries. Queries run on the caller's goroutine and fan out through
the retriever.

The registration cache (source config and display name) is in-process
only. A replica that never saw the registration still serves status, view,
and query traffic from the shared store; it derives a display name from
the knowledge base id and rebuilds indexes from persisted documents.

# Usage

	mgr := manager.NewManager(&manager.Config{
		Store:    store,    // statestore.Store
		Vectors:  vectors,  // vectorstore.Store
		Embedder: embedder, // vectorstore.Embedder
		Model:    model,    // llm.LLM
	})
	mgr.Start()
	defer mgr.Stop()

	err := mgr.Register(ctx, &types.Registration{
		ID:          "handbook",
		WorkspaceID: "ws1",
		Source:      "local_store",
		URL:         "/srv/corpora/handbook",
	})

# See Also

  - pkg/statestore for the shared status and document store
  - pkg/reader for source loading
  - pkg/index for the vector index build protocol
  - pkg/retriever and pkg/rag for the query path
*/
package manager
