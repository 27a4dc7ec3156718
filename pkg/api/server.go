package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/manager"
	"github.com/onlysaid/onlysaid-kb/pkg/metrics"
)

// Server is the HTTP surface. Handlers unmarshal requests and invoke the
// manager; no orchestration logic lives here.
type Server struct {
	manager *manager.Manager
	http    *http.Server
}

// NewServer creates an HTTP server bound to the manager
func NewServer(mgr *manager.Manager, addr string) *Server {
	s := &Server{manager: mgr}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Get("/view/{workspaceID}", s.handleView)
		r.Get("/kb_status/{workspaceID}/{kbID}", s.handleKBStatus)
		r.Get("/documents/{kbID}", s.handleDocuments)
		r.Post("/sync", s.handleSync)
		r.Post("/update_kb_status", s.handleUpdateStatus)
		r.Post("/delete_kb", s.handleDelete)
		r.Post("/query", s.handleQuery)
		r.Post("/retrieve", s.handleRetrieve)
		r.Get("/query_status/{sessionID}", s.handleQueryStatus)
	})

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", metrics.Handler())

	return r
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start() error {
	logger := log.WithComponent("api")
	logger.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the routed handler for tests
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		metrics.APIRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponent("api")
		logger.Error().Err(err).Msg("could not encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
