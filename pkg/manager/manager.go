package manager

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/onlysaid/onlysaid-kb/pkg/events"
	"github.com/onlysaid/onlysaid-kb/pkg/index"
	"github.com/onlysaid/onlysaid-kb/pkg/llm"
	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/metrics"
	"github.com/onlysaid/onlysaid-kb/pkg/rag"
	"github.com/onlysaid/onlysaid-kb/pkg/reader"
	"github.com/onlysaid/onlysaid-kb/pkg/retriever"
	"github.com/onlysaid/onlysaid-kb/pkg/session"
	"github.com/onlysaid/onlysaid-kb/pkg/statestore"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
	"github.com/onlysaid/onlysaid-kb/pkg/vectorstore"
)

// Manager is the orchestration facade. It owns the ingestion pipeline,
// delegates retrieval and answering, and is the only component API handlers
// talk to.
type Manager struct {
	store    statestore.Store
	readers  *reader.Registry
	vectors  vectorstore.Store
	builder  *index.Builder
	ret      *retriever.Retriever
	answerer *rag.Answerer
	sessions *session.Registry
	broker   *events.Broker

	// Registrations are an in-process cache keyed by kb_id: the source
	// config for re-sync and the display name. Replicas that never saw the
	// registration serve from the shared store and derive a name.
	regs   map[string]*types.Registration
	regsMu sync.RWMutex

	queue  chan ingestJob
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Config holds the dependencies for creating a Manager
type Config struct {
	Store    statestore.Store
	Vectors  vectorstore.Store
	Embedder vectorstore.Embedder
	Model    llm.LLM
}

// NewManager creates a manager and wires its pipeline components
func NewManager(cfg *Config) *Manager {
	builder := index.NewBuilder(cfg.Store, cfg.Vectors, cfg.Embedder)
	ret := retriever.NewRetriever(cfg.Store, cfg.Vectors, cfg.Embedder, builder)

	return &Manager{
		store:    cfg.Store,
		readers:  reader.NewRegistry(),
		vectors:  cfg.Vectors,
		builder:  builder,
		ret:      ret,
		answerer: rag.NewAnswerer(ret, cfg.Model),
		sessions: session.NewRegistry(),
		broker:   events.NewBroker(),
		regs:     make(map[string]*types.Registration),
		queue:    make(chan ingestJob, queueCapacity),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the event broker and the ingestion worker
func (m *Manager) Start() {
	m.broker.Start()
	m.wg.Add(1)
	go m.runPipeline()
	logger := log.WithComponent("manager")
	logger.Info().Msg("manager started")
}

// Stop drains the ingestion worker and stops the broker. Jobs still queued
// are dropped; their KBs remain in whatever state they last reached.
func (m *Manager) Stop() {
	close(m.stopCh)
	m.wg.Wait()
	m.broker.Stop()
	logger := log.WithComponent("manager")
	logger.Info().Msg("manager stopped")
}

// setStatus writes the status and keeps the per-process status gauge in step
func (m *Manager) setStatus(ctx context.Context, workspaceID, kbID string, target types.KBStatus) error {
	current, err := m.store.GetStatus(ctx, workspaceID, kbID)
	if err != nil {
		return err
	}
	if err := m.store.SetStatus(ctx, workspaceID, kbID, target); err != nil {
		return err
	}
	trackStatus(current, target)
	return nil
}

// trackStatus moves a KB between status gauge buckets. The gauge reflects
// this process's view; shared truth stays in the status store.
func trackStatus(from, to types.KBStatus) {
	if from != types.KBStatusNotFound && from != "" {
		metrics.KBsTotal.WithLabelValues(string(from)).Dec()
	}
	if to != types.KBStatusNotFound && to != "" {
		metrics.KBsTotal.WithLabelValues(string(to)).Inc()
	}
}

// Register validates a registration, seeds the KB as disabled, and queues
// ingestion. The call returns once the job is accepted; ingestion itself is
// asynchronous and failures surface through status polling.
func (m *Manager) Register(ctx context.Context, reg *types.Registration) error {
	if reg.ID == "" || reg.WorkspaceID == "" {
		return fmt.Errorf("id and workspace_id are required: %w", types.ErrInvalidSource)
	}
	// Source problems are found by the pipeline and surface as status error;
	// registration still acknowledges

	if err := m.setStatus(ctx, reg.WorkspaceID, reg.ID, types.KBStatusDisabled); err != nil {
		return err
	}

	m.regsMu.Lock()
	m.regs[reg.ID] = reg
	m.regsMu.Unlock()

	if err := m.enqueue(ingestJob{workspaceID: reg.WorkspaceID, kbID: reg.ID, reg: reg}); err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	m.broker.Publish(&events.Event{
		Type:        events.EventKBRegistered,
		WorkspaceID: reg.WorkspaceID,
		KBID:        reg.ID,
		Message:     "knowledge base registered",
	})

	logger := log.WithKB(reg.WorkspaceID, reg.ID)
	logger.Info().Str("source", reg.Source).Msg("registration accepted")
	return nil
}

// Sync re-ingests every running KB in the workspace. KBs whose registration
// this replica still holds get a full reader pass; the rest get an index
// rebuild from the persisted documents.
func (m *Manager) Sync(ctx context.Context, workspaceID string) error {
	refs, err := m.store.ListKBs(ctx, workspaceID)
	if err != nil {
		return err
	}

	logger := log.WithWorkspaceID(workspaceID)
	queued := 0
	for _, ref := range refs {
		status, err := m.store.GetStatus(ctx, workspaceID, ref.KBID)
		if err != nil {
			return err
		}
		if status != types.KBStatusRunning {
			continue
		}

		m.regsMu.RLock()
		reg := m.regs[ref.KBID]
		m.regsMu.RUnlock()

		// reg may be nil: the pipeline then rebuilds from persisted docs
		if err := m.enqueue(ingestJob{workspaceID: workspaceID, kbID: ref.KBID, reg: reg}); err != nil {
			return err
		}
		queued++
	}

	logger.Info().Int("queued", queued).Msg("sync queued")
	return nil
}

// GetStatus returns the lifecycle status of a KB
func (m *Manager) GetStatus(ctx context.Context, workspaceID, kbID string) (types.KBStatus, error) {
	return m.store.GetStatus(ctx, workspaceID, kbID)
}

// UpdateStatus toggles a KB between running and disabled. Other states are
// left untouched; the pipeline owns transitions out of initializing and
// error.
func (m *Manager) UpdateStatus(ctx context.Context, workspaceID, kbID string, enabled bool) (types.KBStatus, error) {
	current, err := m.store.GetStatus(ctx, workspaceID, kbID)
	if err != nil {
		return "", err
	}
	if current == types.KBStatusNotFound {
		return types.KBStatusNotFound, fmt.Errorf("knowledge base %s: %w", kbID, types.ErrNotFound)
	}

	target := current
	eventType := events.EventKBDisabled
	switch {
	case enabled && current == types.KBStatusDisabled:
		target = types.KBStatusRunning
		eventType = events.EventKBEnabled
	case !enabled && current == types.KBStatusRunning:
		target = types.KBStatusDisabled
	}

	if target != current {
		if err := m.store.SetStatus(ctx, workspaceID, kbID, target); err != nil {
			return "", err
		}
		trackStatus(current, target)
		m.broker.Publish(&events.Event{
			Type:        eventType,
			WorkspaceID: workspaceID,
			KBID:        kbID,
		})
		logger := log.WithKB(workspaceID, kbID)
		logger.Info().Str("status", string(target)).Msg("status updated")
	}
	return target, nil
}

// Delete removes every trace of a KB: status, folder structure, documents,
// the index-created flag, and the vector collection
func (m *Manager) Delete(ctx context.Context, workspaceID, kbID string) error {
	logger := log.WithKB(workspaceID, kbID)

	current, err := m.store.GetStatus(ctx, workspaceID, kbID)
	if err != nil {
		return err
	}

	if err := m.store.DeleteStatus(ctx, workspaceID, kbID); err != nil {
		return err
	}
	if err := m.store.DeleteFolderStructure(ctx, workspaceID, kbID); err != nil {
		return err
	}
	if err := m.store.DeleteDocs(ctx, workspaceID, kbID); err != nil {
		return err
	}
	if err := m.store.ClearIndexCreated(ctx, kbID); err != nil {
		return err
	}

	// A collection left behind would keep serving stale hits, so deletion
	// failures propagate and the caller retries
	collection := index.CollectionName(kbID)
	exists, err := m.vectors.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("could not check vector collection %s: %w", collection, err)
	}
	if exists {
		if err := m.vectors.DeleteCollection(ctx, collection); err != nil {
			return fmt.Errorf("could not delete vector collection %s: %w", collection, err)
		}
	}

	m.regsMu.Lock()
	delete(m.regs, kbID)
	m.regsMu.Unlock()

	trackStatus(current, types.KBStatusNotFound)

	m.broker.Publish(&events.Event{
		Type:        events.EventKBDeleted,
		WorkspaceID: workspaceID,
		KBID:        kbID,
	})

	logger.Info().Msg("knowledge base deleted")
	return nil
}

// ListSources returns the running KBs of a workspace as data sources
func (m *Manager) ListSources(ctx context.Context, workspaceID string) ([]*types.DataSource, error) {
	refs, err := m.store.ListKBs(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	sources := make([]*types.DataSource, 0, len(refs))
	for _, ref := range refs {
		source, err := m.GetSource(ctx, workspaceID, ref.KBID)
		if err != nil {
			return nil, err
		}
		if source != nil {
			sources = append(sources, source)
		}
	}
	return sources, nil
}

// GetSource returns one running KB as a data source, or nil when the KB is
// absent or not running
func (m *Manager) GetSource(ctx context.Context, workspaceID, kbID string) (*types.DataSource, error) {
	status, err := m.store.GetStatus(ctx, workspaceID, kbID)
	if err != nil {
		return nil, err
	}
	if status != types.KBStatusRunning {
		return nil, nil
	}

	docs, err := m.store.GetDocs(ctx, workspaceID, kbID)
	if err != nil {
		return nil, err
	}
	return &types.DataSource{
		ID:    kbID,
		Name:  m.displayName(kbID),
		Icon:  "database",
		Count: len(docs),
	}, nil
}

// GetDocuments returns a KB's persisted documents addressed by kb_id alone,
// locating the owning workspace through the shared store
func (m *Manager) GetDocuments(ctx context.Context, kbID string) ([]*types.Document, error) {
	workspaceID, err := m.store.FindWorkspace(ctx, kbID)
	if err != nil {
		return nil, err
	}
	return m.store.GetDocs(ctx, workspaceID, kbID)
}

// View assembles the document-browsing payload for a workspace. When kbIDs
// is empty every running KB is included.
func (m *Manager) View(ctx context.Context, workspaceID string, kbIDs []string) (*types.ViewResponse, error) {
	resp := &types.ViewResponse{
		DataSources:      []*types.DataSource{},
		FolderStructures: make(map[string][]*types.Folder),
		Documents:        make(map[string][]*types.Document),
	}

	selected := kbIDs
	if len(selected) == 0 {
		refs, err := m.store.ListKBs(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			selected = append(selected, ref.KBID)
		}
	}

	for _, kbID := range selected {
		source, err := m.GetSource(ctx, workspaceID, kbID)
		if err != nil {
			return nil, err
		}
		if source == nil {
			continue
		}

		docs, err := m.store.GetDocs(ctx, workspaceID, kbID)
		if err != nil {
			return nil, err
		}
		folders, err := m.store.GetFolderStructure(ctx, workspaceID, kbID)
		if err != nil {
			return nil, err
		}

		resp.DataSources = append(resp.DataSources, source)
		resp.FolderStructures[kbID] = folders
		resp.Documents[kbID] = docs
	}
	return resp, nil
}

// Retrieve runs a similarity query across the workspace's KBs
func (m *Manager) Retrieve(ctx context.Context, q *types.QueryRequest) ([]types.RetrievalResult, error) {
	metrics.QueriesTotal.WithLabelValues("retrieve").Inc()
	return m.ret.Retrieve(ctx, q.WorkspaceID, q.KnowledgeBases, q.QueryText(), q.TopK)
}

// Answer runs a blocking RAG answer
func (m *Manager) Answer(ctx context.Context, q *types.QueryRequest) (string, error) {
	metrics.QueriesTotal.WithLabelValues("answer").Inc()
	return m.answerer.Answer(ctx, q)
}

// StreamAnswer starts a streaming RAG answer
func (m *Manager) StreamAnswer(ctx context.Context, q *types.QueryRequest) (*llm.Stream, error) {
	metrics.QueriesTotal.WithLabelValues("stream").Inc()
	return m.answerer.StreamAnswer(ctx, q)
}

// Sessions exposes the streaming session registry
func (m *Manager) Sessions() *session.Registry {
	return m.sessions
}

// Events exposes the lifecycle event broker
func (m *Manager) Events() *events.Broker {
	return m.broker
}

// Ping reports whether the status store and the vector store are reachable
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.store.Ping(ctx); err != nil {
		return fmt.Errorf("status store: %w", err)
	}
	if err := m.vectors.Ping(ctx); err != nil {
		return fmt.Errorf("vector store: %w", err)
	}
	return nil
}

// displayName resolves a KB's display name from the registration cache,
// deriving one from the id when the registration was never seen here
func (m *Manager) displayName(kbID string) string {
	m.regsMu.RLock()
	reg := m.regs[kbID]
	m.regsMu.RUnlock()
	if reg != nil && reg.Name != "" {
		return reg.Name
	}
	if i := strings.Index(kbID, "-"); i > 0 {
		return kbID[:i] + " KB"
	}
	return kbID
}
