/*
Package retriever fans a similarity query out across the running knowledge
bases of a workspace and merges the per-KB hits.

Selection: an explicit knowledge base list is filtered to running; an
empty list means every running KB in the workspace. Each selected KB is
queried concurrently. A KB whose index flag is missing but whose documents
are persisted gets its index built on demand first.

Merging: per-KB result sets are concatenated in KB order and stably sorted
by score descending, then truncated to the top-k budget. Ties therefore
resolve by KB insertion order, which keeps results deterministic.

Per-KB failures (vector store down, missing collection) are logged and
skipped; a query degrades to partial results rather than failing.
*/
package retriever
