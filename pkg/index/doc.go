/*
Package index rebuilds vector store collections from persisted documents.

The builder reads a knowledge base's documents from the shared store,
filters to those with an original body, deletes any existing collection,
creates a fresh one with newly computed embeddings, and sets the
index-created flag. Full rebuild is the only update path; there is no
incremental indexing. Collections are named kb_<kb_id>.
*/
package index
