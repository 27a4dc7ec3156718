/*
Package types defines the domain types and error kinds shared across the
service.

The core identities: a knowledge base is identified by (workspace_id,
kb_id); kb_id need not be unique across workspaces, but vector store
collections treat it as globally unique. Documents keep their original
untruncated body so indexes can be rebuilt without re-reading the source.
Folder trees are derived from document folder ids and rebuild
deterministically from the same document list.

Error kinds are sentinel errors (ErrInvalidSource, ErrReaderFailed,
ErrIndexBuildFailed, ErrStoreUnavailable, ErrVectorStore, ErrLLM,
ErrUnknownLanguage, ErrNotFound) wrapped with context at each call site
and matched with errors.Is.
*/
package types
