package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Lifecycle metrics
	KBsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kb_knowledge_bases_total",
			Help: "Total number of knowledge bases by status",
		},
		[]string{"status"},
	)

	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kb_registrations_total",
			Help: "Total number of knowledge base registrations accepted",
		},
	)

	IngestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kb_ingestions_total",
			Help: "Total number of ingestion jobs by outcome",
		},
		[]string{"outcome"},
	)

	IngestionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kb_ingestion_duration_seconds",
			Help:    "Ingestion job duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	IngestionQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kb_ingestion_queue_depth",
			Help: "Number of ingestion jobs waiting in the queue",
		},
	)

	// Index metrics
	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kb_index_builds_total",
			Help: "Total number of vector index builds by outcome",
		},
		[]string{"outcome"},
	)

	DocumentsIndexed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kb_documents_indexed_total",
			Help: "Total number of documents embedded and indexed",
		},
	)

	// Query metrics
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kb_queries_total",
			Help: "Total number of queries by mode",
		},
		[]string{"mode"},
	)

	RetrievalLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kb_retrieval_latency_seconds",
			Help:    "Retrieval fan-out latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Streaming metrics
	SessionsLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kb_stream_sessions_live",
			Help: "Number of live streaming answer sessions",
		},
	)

	TokensStreamed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kb_stream_tokens_total",
			Help: "Total number of tokens streamed to clients",
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kb_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kb_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(KBsTotal)
	prometheus.MustRegister(RegistrationsTotal)
	prometheus.MustRegister(IngestionsTotal)
	prometheus.MustRegister(IngestionDuration)
	prometheus.MustRegister(IngestionQueueDepth)
	prometheus.MustRegister(IndexBuildsTotal)
	prometheus.MustRegister(DocumentsIndexed)
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(RetrievalLatency)
	prometheus.MustRegister(SessionsLive)
	prometheus.MustRegister(TokensStreamed)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
