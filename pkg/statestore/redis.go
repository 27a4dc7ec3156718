package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// RedisStore implements Store on a shared Redis deployment. All mutations
// are single-key writes; there are no multi-key transactions.
type RedisStore struct {
	client redis.UniversalClient
}

// Config holds Redis connection configuration
type Config struct {
	Addr     string
	Password string
}

// NewRedisStore creates a Redis-backed store and verifies connectivity
func NewRedisStore(ctx context.Context, cfg *Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client; used by tests
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Key schema. index_created is deliberately workspace-agnostic: kb_id is
// treated as globally unique for collection naming.
func statusKey(workspaceID, kbID string) string {
	return fmt.Sprintf("kb:%s:%s:status", workspaceID, kbID)
}

func folderStructureKey(workspaceID, kbID string) string {
	return fmt.Sprintf("kb:%s:%s:folder_structure", workspaceID, kbID)
}

func docsKey(workspaceID, kbID string) string {
	return fmt.Sprintf("kb:%s:%s:docs", workspaceID, kbID)
}

func indexCreatedKey(kbID string) string {
	return fmt.Sprintf("kb:%s:index_created", kbID)
}

// storeErr maps client failures to ErrStoreUnavailable so callers can tell
// connectivity loss apart from absent keys
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, types.ErrStoreUnavailable)
}

func (s *RedisStore) SetStatus(ctx context.Context, workspaceID, kbID string, status types.KBStatus) error {
	if err := s.client.Set(ctx, statusKey(workspaceID, kbID), string(status), 0).Err(); err != nil {
		return storeErr("set status", err)
	}
	return nil
}

func (s *RedisStore) GetStatus(ctx context.Context, workspaceID, kbID string) (types.KBStatus, error) {
	val, err := s.client.Get(ctx, statusKey(workspaceID, kbID)).Result()
	if errors.Is(err, redis.Nil) {
		return types.KBStatusNotFound, nil
	}
	if err != nil {
		return "", storeErr("get status", err)
	}
	return types.KBStatus(val), nil
}

func (s *RedisStore) DeleteStatus(ctx context.Context, workspaceID, kbID string) error {
	if err := s.client.Del(ctx, statusKey(workspaceID, kbID)).Err(); err != nil {
		return storeErr("delete status", err)
	}
	return nil
}

func (s *RedisStore) SetFolderStructure(ctx context.Context, workspaceID, kbID string, folders []*types.Folder) error {
	data, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("failed to marshal folder structure: %w", err)
	}
	if err := s.client.Set(ctx, folderStructureKey(workspaceID, kbID), data, 0).Err(); err != nil {
		return storeErr("set folder structure", err)
	}
	return nil
}

func (s *RedisStore) GetFolderStructure(ctx context.Context, workspaceID, kbID string) ([]*types.Folder, error) {
	val, err := s.client.Get(ctx, folderStructureKey(workspaceID, kbID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []*types.Folder{}, nil
	}
	if err != nil {
		return nil, storeErr("get folder structure", err)
	}

	var folders []*types.Folder
	if err := json.Unmarshal(val, &folders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder structure: %w", err)
	}
	return folders, nil
}

func (s *RedisStore) DeleteFolderStructure(ctx context.Context, workspaceID, kbID string) error {
	if err := s.client.Del(ctx, folderStructureKey(workspaceID, kbID)).Err(); err != nil {
		return storeErr("delete folder structure", err)
	}
	return nil
}

func (s *RedisStore) SetDocs(ctx context.Context, workspaceID, kbID string, docs []*types.Document) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}
	if err := s.client.Set(ctx, docsKey(workspaceID, kbID), data, 0).Err(); err != nil {
		return storeErr("set docs", err)
	}
	return nil
}

func (s *RedisStore) GetDocs(ctx context.Context, workspaceID, kbID string) ([]*types.Document, error) {
	val, err := s.client.Get(ctx, docsKey(workspaceID, kbID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []*types.Document{}, nil
	}
	if err != nil {
		return nil, storeErr("get docs", err)
	}

	var docs []*types.Document
	if err := json.Unmarshal(val, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
	}
	return docs, nil
}

func (s *RedisStore) HasDocs(ctx context.Context, workspaceID, kbID string) (bool, error) {
	n, err := s.client.Exists(ctx, docsKey(workspaceID, kbID)).Result()
	if err != nil {
		return false, storeErr("check docs", err)
	}
	return n > 0, nil
}

func (s *RedisStore) DeleteDocs(ctx context.Context, workspaceID, kbID string) error {
	if err := s.client.Del(ctx, docsKey(workspaceID, kbID)).Err(); err != nil {
		return storeErr("delete docs", err)
	}
	return nil
}

func (s *RedisStore) MarkIndexCreated(ctx context.Context, kbID string) error {
	if err := s.client.Set(ctx, indexCreatedKey(kbID), "true", 0).Err(); err != nil {
		return storeErr("mark index created", err)
	}
	return nil
}

func (s *RedisStore) IndexCreated(ctx context.Context, kbID string) (bool, error) {
	n, err := s.client.Exists(ctx, indexCreatedKey(kbID)).Result()
	if err != nil {
		return false, storeErr("check index created", err)
	}
	return n > 0, nil
}

func (s *RedisStore) ClearIndexCreated(ctx context.Context, kbID string) error {
	if err := s.client.Del(ctx, indexCreatedKey(kbID)).Err(); err != nil {
		return storeErr("clear index created", err)
	}
	return nil
}

// ListKBs enumerates all KBs in a workspace via a cursor-based prefix scan
// over status keys
func (s *RedisStore) ListKBs(ctx context.Context, workspaceID string) ([]KBRef, error) {
	pattern := fmt.Sprintf("kb:%s:*:status", workspaceID)

	var refs []KBRef
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		parts := strings.Split(iter.Val(), ":")
		if len(parts) < 4 {
			continue
		}
		refs = append(refs, KBRef{WorkspaceID: parts[1], KBID: parts[2]})
	}
	if err := iter.Err(); err != nil {
		return nil, storeErr("list kbs", err)
	}
	return refs, nil
}

// FindWorkspace locates the workspace holding docs for a KB id. Returns
// ErrNotFound when no docs key matches.
func (s *RedisStore) FindWorkspace(ctx context.Context, kbID string) (string, error) {
	pattern := fmt.Sprintf("kb:*:%s:docs", kbID)

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		parts := strings.Split(iter.Val(), ":")
		if len(parts) < 4 {
			continue
		}
		return parts[1], nil
	}
	if err := iter.Err(); err != nil {
		return "", storeErr("find workspace", err)
	}
	return "", fmt.Errorf("no workspace holds kb %s: %w", kbID, types.ErrNotFound)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
