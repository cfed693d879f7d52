package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/frontend"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/usecase"
)

// Server represents the dashboard HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server wiring the dashboard API and the
// embedded frontend
func NewServer(
	ctx context.Context,
	addr string,
	catalogUC usecase.CatalogUseCase,
	analysisUC usecase.AnalysisUseCase,
	presets *model.PresetsConfig,
) (*Server, error) {
	if presets == nil {
		presets = model.DefaultPresetsConfig()
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	h := &handlers{
		catalogUC:  catalogUC,
		analysisUC: analysisUC,
		presets:    presets,
	}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Get("/filters", h.handleFilters)
		r.Get("/rows", h.handleRows)
		r.Get("/analysis/stream", h.handleAnalysisStream)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", h.handleListRuns)
			r.Get("/{runID}", h.handleGetRun)
			r.Get("/{runID}/chart.png", h.handleRunChart)
		})
	})

	// Frontend: embedded build when present, inline fallback otherwise
	fs, err := frontend.GetHTTPFS()
	if err != nil {
		ctxlog.From(ctx).Warn("failed to get embedded frontend, using fallback", "error", err)
		router.Get("/*", handleFallbackHome)
	} else {
		router.Handle("/*", http.FileServer(fs))
	}

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "churnscope",
	})
}

// handleFallbackHome serves a minimal page when the frontend is not built
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>ChurnScope</title></head>
<body>
  <h1>ChurnScope</h1>
  <p>Churn analysis dashboard. The frontend build is missing; the JSON API is available under <code>/api</code>.</p>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("failed to write fallback home page", "error", err)
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(ctx).Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response, translating known sentinels to statuses
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrRunNotFound) {
		status = http.StatusNotFound
	}

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	writeJSON(ctx, w, status, map[string]string{"error": message})
}
