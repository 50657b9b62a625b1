// Package chi exposes the search service over HTTP: a JSON search endpoint,
// a server-sent-events stream of response sections, health, and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/section"
	"github.com/melodex-audio/melodex/internal/logger"
	"github.com/melodex-audio/melodex/internal/metrics"
	healthuc "github.com/melodex-audio/melodex/internal/usecase/health"
)

const maxQueryLen = 512

// Searcher runs search requests. Implemented by usecase/search.Service.
type Searcher interface {
	Stream(ctx context.Context, query string) (<-chan section.Section, error)
	Search(ctx context.Context, query string, types []domain.ContentType, limit int) ([]section.Hit, error)
}

// HealthChecker reports component health. Implemented by usecase/health.Service.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server handles the HTTP API.
type Server struct {
	search     Searcher
	health     HealthChecker
	engineName string
	logger     *zap.Logger
}

// NewServer creates an HTTP API server. engineName labels metrics.
func NewServer(search Searcher, health HealthChecker, engineName string, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, engineName: engineName, logger: logger}
}

// Routes mounts all handlers on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/search", s.handleSearch)
	r.Get("/search/stream", s.handleStream)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

type searchRequest struct {
	Query string   `json:"query"`
	Types []string `json:"types,omitempty"`
	Limit int      `json:"limit,omitempty"`
}

type searchResponse struct {
	Results []hitJSON `json:"results"`
}

// handleSearch serves POST /search: the non-streaming ranked hit list.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return
	}
	if len(req.Query) > maxQueryLen {
		writeError(w, http.StatusBadRequest, "validation_failed",
			fmt.Sprintf("query longer than %d bytes", maxQueryLen))
		return
	}
	types := make([]domain.ContentType, 0, len(req.Types))
	for _, t := range req.Types {
		ct := domain.ContentType(t)
		if !ct.IsValid() {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown content type: "+t)
			return
		}
		types = append(types, ct)
	}

	ctx := logger.ContextWithLogger(r.Context(), s.logger)
	hits, err := s.search.Search(ctx, req.Query, types, req.Limit)
	if err != nil {
		s.countSearch("error")
		s.handleSearchError(w, err)
		return
	}

	s.countSearch("ok")
	metrics.SearchDuration.WithLabelValues(s.engineName).Observe(time.Since(started).Seconds())
	writeJSON(w, http.StatusOK, searchResponse{Results: hitsToJSON(hits)})
}

// handleStream serves GET /search/stream?q=: response sections as
// server-sent events, one JSON envelope per event, ending with "done".
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "q parameter is required")
		return
	}
	if len(query) > maxQueryLen {
		writeError(w, http.StatusBadRequest, "validation_failed",
			fmt.Sprintf("query longer than %d bytes", maxQueryLen))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming not supported")
		return
	}

	ctx := logger.ContextWithLogger(r.Context(), s.logger)
	sections, err := s.search.Stream(ctx, query)
	if err != nil {
		s.countSearch("error")
		s.handleSearchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for sec := range sections {
		data, kind, err := encodeSection(sec)
		if err != nil {
			s.logger.Error("encode section failed", zap.Error(err))
			continue
		}
		if _, err = fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Client went away; the canceled request context unwinds the
			// pipeline.
			return
		}
		flusher.Flush()
		metrics.SectionsEmittedTotal.WithLabelValues(kind).Inc()
	}

	s.countSearch("ok")
	metrics.SearchDuration.WithLabelValues(s.engineName).Observe(time.Since(started).Seconds())
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, struct {
		Status string                          `json:"status"`
		Checks map[string]healthuc.CheckResult `json:"checks"`
	}{string(report.Status), report.Checks})
}

func (s *Server) handleSearchError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrIndexUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "index_unavailable",
			"search index is not ready")
		return
	}
	s.logger.Error("search failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func (s *Server) countSearch(status string) {
	metrics.SearchRequestsTotal.WithLabelValues(s.engineName, status).Inc()
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
