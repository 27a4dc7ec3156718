package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/onlysaid/onlysaid-kb/pkg/events"
	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/metrics"
	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// queueCapacity bounds the ingestion backlog. Enqueue fails fast when the
// single worker falls this far behind.
const queueCapacity = 256

// ingestJob is one unit of pipeline work. reg is nil for rebuild-only jobs,
// which skip the reader and re-index the persisted documents.
type ingestJob struct {
	workspaceID string
	kbID        string
	reg         *types.Registration
	enqueuedAt  time.Time
}

// enqueue hands a job to the pipeline without blocking the caller
func (m *Manager) enqueue(job ingestJob) error {
	job.enqueuedAt = time.Now()
	select {
	case m.queue <- job:
		metrics.IngestionQueueDepth.Inc()
		return nil
	default:
		return fmt.Errorf("ingestion queue full, retry later")
	}
}

// runPipeline is the single ingestion worker. One KB is processed at a time
// so source reads and index builds never compete for the embedding backend.
func (m *Manager) runPipeline() {
	defer m.wg.Done()
	logger := log.WithComponent("pipeline")
	logger.Info().Int("capacity", queueCapacity).Msg("ingestion worker started")

	for {
		select {
		case job := <-m.queue:
			metrics.IngestionQueueDepth.Dec()
			m.ingest(job)
		case <-m.stopCh:
			logger.Info().Msg("ingestion worker stopped")
			return
		}
	}
}

// ingest drives one job through the pipeline: initializing, read, persist,
// index, running. Any failure parks the KB in error and the worker moves on.
func (m *Manager) ingest(job ingestJob) {
	ctx := context.Background()
	logger := log.WithKB(job.workspaceID, job.kbID)
	start := time.Now()

	if err := m.setStatus(ctx, job.workspaceID, job.kbID, types.KBStatusInitializing); err != nil {
		logger.Error().Err(err).Msg("could not mark knowledge base initializing")
		return
	}

	if err := m.runIngestion(ctx, job); err != nil {
		logger.Error().Err(err).Msg("ingestion failed")
		if serr := m.setStatus(ctx, job.workspaceID, job.kbID, types.KBStatusError); serr != nil {
			logger.Error().Err(serr).Msg("could not mark knowledge base errored")
		}
		metrics.IngestionsTotal.WithLabelValues("failure").Inc()
		m.broker.Publish(&events.Event{
			Type:        events.EventKBError,
			WorkspaceID: job.workspaceID,
			KBID:        job.kbID,
			Message:     err.Error(),
		})
		return
	}

	if err := m.setStatus(ctx, job.workspaceID, job.kbID, types.KBStatusRunning); err != nil {
		logger.Error().Err(err).Msg("could not mark knowledge base running")
		return
	}

	metrics.IngestionsTotal.WithLabelValues("success").Inc()
	metrics.IngestionDuration.Observe(time.Since(start).Seconds())
	m.broker.Publish(&events.Event{
		Type:        events.EventKBRunning,
		WorkspaceID: job.workspaceID,
		KBID:        job.kbID,
	})
	logger.Info().Dur("took", time.Since(start)).Msg("knowledge base running")
}

// runIngestion loads the source when a registration is present, persists
// documents and folder structure, then builds the vector index. Rebuild-only
// jobs go straight to the index build.
func (m *Manager) runIngestion(ctx context.Context, job ingestJob) error {
	if job.reg != nil {
		rd, err := m.readers.New(job.reg.Source)
		if err != nil {
			return err
		}
		if err := rd.Configure(map[string]string{"path": job.reg.URL}); err != nil {
			return err
		}

		docs, err := rd.LoadDocuments()
		if err != nil {
			return err
		}
		logger := log.WithKB(job.workspaceID, job.kbID)
		logger.Info().Int("documents", len(docs)).Msg("source loaded")

		if err := m.store.SetDocs(ctx, job.workspaceID, job.kbID, docs); err != nil {
			return err
		}
		if err := m.store.SetFolderStructure(ctx, job.workspaceID, job.kbID, types.BuildFolderStructure(docs)); err != nil {
			return err
		}
		metrics.DocumentsIndexed.Add(float64(len(docs)))
	}

	// A re-sync must re-embed, so the stale flag has to go first
	if err := m.store.ClearIndexCreated(ctx, job.kbID); err != nil {
		return err
	}
	if err := m.builder.Build(ctx, job.workspaceID, job.kbID); err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.IndexBuildsTotal.WithLabelValues("success").Inc()
	m.broker.Publish(&events.Event{
		Type:        events.EventIndexBuilt,
		WorkspaceID: job.workspaceID,
		KBID:        job.kbID,
	})
	return nil
}
