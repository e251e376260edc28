// Package api provides the HTTP server for the content engine.
// It exposes skill execution, the credit ledger, and the free analysis
// endpoints (SEO scoring, AI detection, humanizing, section splitting).
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scaletotop/contentengine/internal/app/executor"
	"github.com/scaletotop/contentengine/internal/domain"
	"github.com/scaletotop/contentengine/internal/infra/observability"
	"github.com/scaletotop/contentengine/internal/infra/sqlite"
	"github.com/scaletotop/contentengine/internal/skills"
)

// Server is the content engine HTTP API server.
type Server struct {
	exec           *executor.Executor
	db             *sqlite.DB
	registry       *skills.Registry
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(exec *executor.Executor, db *sqlite.DB, reg *skills.Registry) *Server {
	return &Server{exec: exec, db: db, registry: reg}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(corsMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "running",
			"executor": s.exec.Stats(),
		})
	})

	r.Route("/api/skills", func(r chi.Router) {
		r.Get("/list", s.handleListSkills)
		r.Post("/execute", s.handleExecuteSkill)
	})

	r.Route("/api/credits", func(r chi.Router) {
		r.Get("/balance", s.handleBalance)
		r.Get("/transactions", s.handleTransactions)
	})

	r.Route("/api/analyze", func(r chi.Router) {
		r.Post("/seo", s.handleAnalyzeSEO)
		r.Post("/ai", s.handleAnalyzeAI)
	})

	r.Post("/api/humanize", s.handleHumanize)

	r.Route("/api/sections", func(r chi.Router) {
		r.Post("/split", s.handleSplitSections)
		r.Post("/join", s.handleJoinSections)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps ledger and executor failures to HTTP statuses.
// Insufficient credits is 402 with the figures the frontend displays.
func writeDomainError(w http.ResponseWriter, err error) {
	if ice, ok := domain.IsInsufficientCredits(err); ok {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error": map[string]any{
				"message":  ice.Error(),
				"type":     "insufficient_credits",
				"required": ice.Required,
				"current":  ice.Current,
			},
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrSkillNotConfigured),
		errors.Is(err, domain.ErrSkillNotRegistered),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTxNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSkillDisabled),
		errors.Is(err, domain.ErrReversalNotAllowed):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrSkillExecutionFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// metricsMiddleware counts requests per route pattern and status class.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequests.WithLabelValues(route, statusClass(ww.Status())).Inc()
	})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// corsMiddleware adds CORS headers for the web frontend.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
