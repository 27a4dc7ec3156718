package types

import "errors"

// Error kinds surfaced by the core. Per-KB errors never fail
// whole-workspace operations; callers match with errors.Is.
var (
	// ErrInvalidSource indicates a bad source type, path, or URL at configure time
	ErrInvalidSource = errors.New("invalid source")

	// ErrReaderFailed indicates the reader could not load the corpus
	ErrReaderFailed = errors.New("reader failed")

	// ErrIndexBuildFailed indicates the vector index could not be (re)built
	ErrIndexBuildFailed = errors.New("index build failed")

	// ErrStoreUnavailable indicates the shared key-value store is unreachable.
	// Callers must not cache negative results across such failures.
	ErrStoreUnavailable = errors.New("status store unavailable")

	// ErrVectorStore indicates a vector store operation failed; the affected
	// KB is skipped and the overall query returns partial results
	ErrVectorStore = errors.New("vector store error")

	// ErrLLM indicates the language model call failed
	ErrLLM = errors.New("llm error")

	// ErrUnknownLanguage indicates an unsupported preferred language;
	// the answerer silently falls back to English
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrNotFound indicates a lookup matched nothing. Lookups return empty
	// results where possible; this error is for callers that need to tell
	// absence apart from emptiness.
	ErrNotFound = errors.New("not found")
)
