/*
Package vectorstore defines the vector store contract and provides a
Qdrant-backed implementation plus an in-memory one.

A Store manages named collections of embedded documents. Implementations
hold no per-knowledge-base state: an Index is re-opened on demand for each
query, which keeps service replicas interchangeable.

# Architecture

	┌──────────────────── VECTOR STORE ─────────────────────────┐
	│                                                            │
	│  Store contract                                            │
	│    CollectionExists / DeleteCollection                     │
	│    CreateIndexFromDocuments(collection, docs, embedder)    │
	│    OpenIndex(collection, embedder) -> Index                │
	│                                                            │
	│  ┌──────────────────┐        ┌──────────────────┐          │
	│  │   QdrantStore    │        │   MemoryStore    │          │
	│  │  REST client     │        │  map + brute-    │          │
	│  │  behind a        │        │  force cosine    │          │
	│  │  circuit breaker │        │  similarity      │          │
	│  └──────────────────┘        └──────────────────┘          │
	└────────────────────────────────────────────────────────────┘

QdrantStore speaks Qdrant's REST API directly. Every request passes
through a gobreaker circuit breaker: after five consecutive failures the
breaker opens for thirty seconds and calls fail fast, so a down vector
store degrades queries instead of stalling them. Point ids are UUIDv5
values derived from the collection name and document id, making upserts
idempotent across rebuilds.

MemoryStore implements the same contract with an in-process map and
brute-force cosine similarity. It backs the test suite and single-node
development. HashEmbedder pairs with it: a deterministic bag-of-words
embedder that needs no model backend.

# Embedder

The Embedder interface (EmbedDocuments, EmbedQuery) matches the langchaingo
embeddings API, so a langchaingo embedder satisfies it directly.
*/
package vectorstore
