package statestore

import (
	"context"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// Store defines the interface for shared knowledge-base state.
// All durable KB state lives here so that every service replica sees a
// consistent view; in-process maps are best-effort caches only.
type Store interface {
	// Status
	SetStatus(ctx context.Context, workspaceID, kbID string, status types.KBStatus) error
	GetStatus(ctx context.Context, workspaceID, kbID string) (types.KBStatus, error)
	DeleteStatus(ctx context.Context, workspaceID, kbID string) error

	// Folder structure
	SetFolderStructure(ctx context.Context, workspaceID, kbID string, folders []*types.Folder) error
	GetFolderStructure(ctx context.Context, workspaceID, kbID string) ([]*types.Folder, error)
	DeleteFolderStructure(ctx context.Context, workspaceID, kbID string) error

	// Documents
	SetDocs(ctx context.Context, workspaceID, kbID string, docs []*types.Document) error
	GetDocs(ctx context.Context, workspaceID, kbID string) ([]*types.Document, error)
	HasDocs(ctx context.Context, workspaceID, kbID string) (bool, error)
	DeleteDocs(ctx context.Context, workspaceID, kbID string) error

	// Index-created flag. Keyed by kb_id only: collection names treat kb_id
	// as globally unique.
	MarkIndexCreated(ctx context.Context, kbID string) error
	IndexCreated(ctx context.Context, kbID string) (bool, error)
	ClearIndexCreated(ctx context.Context, kbID string) error

	// Enumeration
	ListKBs(ctx context.Context, workspaceID string) ([]KBRef, error)
	FindWorkspace(ctx context.Context, kbID string) (string, error)

	// Utility
	Ping(ctx context.Context) error
	Close() error
}

// KBRef identifies one knowledge base within a workspace
type KBRef struct {
	WorkspaceID string
	KBID        string
}
