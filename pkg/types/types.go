package types

import (
	"time"
)

// KBStatus represents the lifecycle state of a knowledge base
type KBStatus string

const (
	KBStatusDisabled     KBStatus = "disabled"
	KBStatusInitializing KBStatus = "initializing"
	KBStatusRunning      KBStatus = "running"
	KBStatusError        KBStatus = "error"

	// KBStatusNotFound is never stored; it is returned when no status key exists
	KBStatusNotFound KBStatus = "not_found"
)

// Registration is a request to register a new knowledge base.
// The KB is identified by (WorkspaceID, ID); the ID need not be unique
// across workspaces.
type Registration struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	WorkspaceID     string `json:"workspace_id"`
	Description     string `json:"description,omitempty"`
	Source          string `json:"source"`
	URL             string `json:"url"`
	Enabled         bool   `json:"enabled"`
	EmbeddingEngine string `json:"embedding_engine"`
}

// Document is a single document loaded from a knowledge base source.
// Original retains the untruncated body so the index can be rebuilt
// without re-reading the source.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Source      string   `json:"source"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	FolderID    string   `json:"folderId"`
	Original    *OriginalDoc `json:"original_doc,omitempty"`
}

// OriginalDoc holds the untruncated document body and its index metadata
type OriginalDoc struct {
	ID       string            `json:"id_"`
	Metadata map[string]string `json:"metadata"`
	Text     string            `json:"text"`
}

// Folder is one node of the folder tree derived from document FolderID paths
type Folder struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Folders []*Folder `json:"folders"`
	Files   []string  `json:"files"`
	IsOpen  bool      `json:"isOpen"`
}

// DataSource describes a running knowledge base to listing callers
type DataSource struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// RetrievalResult is one scored chunk returned by the retriever
type RetrievalResult struct {
	KBID     string            `json:"source"`
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

// QueryRequest is a retrieval or RAG-answer request against a workspace.
// Query may be a single string or a list; the last element is used when
// it is a list.
type QueryRequest struct {
	WorkspaceID         string   `json:"workspace_id"`
	KnowledgeBases      []string `json:"knowledge_bases,omitempty"`
	Query               []string `json:"query"`
	ConversationHistory string   `json:"conversation_history,omitempty"`
	Streaming           bool     `json:"streaming"`
	TopK                int      `json:"top_k"`
	PreferredLanguage   string   `json:"preferred_language"`
	MessageID           string   `json:"message_id,omitempty"`
}

// QueryText returns the effective query text: the last element of Query
func (q *QueryRequest) QueryText() string {
	if len(q.Query) == 0 {
		return ""
	}
	return q.Query[len(q.Query)-1]
}

// Session tracks one in-flight streaming answer. Sessions live only in
// process memory and are removed on stream end or TTL expiry.
type Session struct {
	ID             string        `json:"session_id"`
	Query          *QueryRequest `json:"query"`
	CurrentContent string        `json:"current_content"`
	IsComplete     bool          `json:"is_complete"`
	CreatedAt      time.Time     `json:"created_at"`
	ExpiresAt      time.Time     `json:"expires_at"`
}

// ViewResponse is the document-browsing payload for a workspace
type ViewResponse struct {
	DataSources      []*DataSource          `json:"dataSources"`
	FolderStructures map[string][]*Folder   `json:"folderStructures"`
	Documents        map[string][]*Document `json:"documents"`
}
