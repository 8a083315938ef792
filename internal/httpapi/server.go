// Package httpapi exposes the decision-support engine over plain HTTP,
// grounded on the teacher's internal/api/server.go routing and middleware
// shape (withMethod, corsMiddleware, health/ready) minus its gRPC surface —
// the server exposes no gRPC or connect endpoint (see DESIGN.md's
// dropped-dependency table; grpc itself is used only by internal/tracing's
// OTLP exporter).
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/quakecase/engine/internal/logging"
	"github.com/quakecase/engine/internal/metrics"
)

// ReadinessChecker reports whether the server's dependencies (store,
// embedder, LLM provider) are ready to serve traffic.
type ReadinessChecker interface {
	IsReady() bool
}

// NoOpReadinessChecker always reports ready.
type NoOpReadinessChecker struct{}

func (NoOpReadinessChecker) IsReady() bool { return true }

// Server serves the decision-support HTTP surface. It implements
// lifecycle.Component.
type Server struct {
	port       int
	httpServer *http.Server
	router     *http.ServeMux
	logger     *logging.Logger
	readiness  ReadinessChecker
	metrics    *metrics.Metrics

	ingest   *ingestHandler
	decision *decisionHandler
	retrieve *retrieveHandler
}

// Deps collects the handlers' collaborators.
type Deps struct {
	Ingest    *ingestHandler
	Decision  *decisionHandler
	Retrieve  *retrieveHandler
	Readiness ReadinessChecker
	Metrics   *metrics.Metrics
}

func New(port int, deps Deps) *Server {
	s := &Server{
		port:      port,
		router:    http.NewServeMux(),
		logger:    logging.GetLogger("httpapi"),
		readiness: deps.Readiness,
		metrics:   deps.Metrics,
		ingest:    deps.Ingest,
		decision:  deps.Decision,
		retrieve:  deps.Retrieve,
	}
	if s.readiness == nil {
		s.readiness = NoOpReadinessChecker{}
	}
	s.registerHandlers()
	handler := http.Handler(s.router)
	if s.metrics != nil {
		handler = s.metricsMiddleware(handler)
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.corsMiddleware(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// metricsMiddleware records request counts and latency per endpoint.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RequestsTotal.WithLabelValues(r.URL.Path, fmt.Sprintf("%d", rec.status)).Inc()
		s.metrics.RetrievalLatency.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) registerHandlers() {
	s.router.HandleFunc("/api/ingest/case-study", s.withMethod(http.MethodPost, s.ingest.Handle))
	s.router.HandleFunc("/api/reasoning/decision-support", s.withMethod(http.MethodPost, s.decision.Handle))
	s.router.HandleFunc("/api/memory/retrieve", s.withMethod(http.MethodPost, s.retrieve.Handle))
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/ready", s.handleReady)
	s.router.HandleFunc("/api/", s.handleRoot)
	s.router.HandleFunc("/", s.handleRoot)
}

func (s *Server) withMethod(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", fmt.Sprintf("method %s not allowed for %s", r.Method, r.URL.Path))
			return
		}
		handler(w, r)
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := s.readiness.IsReady()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": ready})
}

// handleRoot serves the service manifest at both GET / and GET /api/
// (spec §6). Any other unregistered path under /api/ also lands here,
// since http.ServeMux routes unmatched subpaths to the longest matching
// prefix pattern — those fall through to the 404 branch.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/api/" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("no route for %s", r.URL.Path))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "quakecase-engine",
		"endpoints": []string{
			"POST /api/ingest/case-study",
			"POST /api/reasoning/decision-support",
			"POST /api/memory/retrieve",
			"GET /health",
			"GET /ready",
		},
	})
}

// Start implements lifecycle.Component.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error: %v", err)
		}
	}()
	s.logger.Info("httpapi listening on port %d", s.port)
	return nil
}

// Stop implements lifecycle.Component.
func (s *Server) Stop(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- s.httpServer.Shutdown(shutdownCtx)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Name implements lifecycle.Component.
func (s *Server) Name() string { return "HTTP API Server" }
