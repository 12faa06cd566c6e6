// Package httpapi exposes the pipeline's snapshot and forecasts over HTTP
// for the presentation layer, alongside health, readiness, and metrics
// endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/domain"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/pipeline"
)

// PipelineService is the slice of the pipeline the HTTP layer consumes.
type PipelineService interface {
	CheckReadiness(ctx context.Context) error
	Snapshot() (*pipeline.Snapshot, bool)
	Forecast(group string, grouping pipeline.Grouping, horizon int) ([]domain.ForecastPoint, error)
}

// Server exposes the read API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	service    PipelineService
	logger     *slog.Logger
}

// NewServer creates the HTTP server and its routes.
func NewServer(addr string, service PipelineService, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/aggregates", s.handleAggregates)
		r.Get("/areas", s.handleAreas)
		r.Get("/forecast", s.handleForecast)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"status": "not ready", "error": err.Error()})
		return
	}
	render.JSON(w, r, map[string]string{"status": "ready"})
}

// handleSummary reports the merge bookkeeping of the current snapshot.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.service.Snapshot()
	if !ok {
		s.renderNoSnapshot(w, r)
		return
	}
	render.JSON(w, r, map[string]any{
		"report":       snap.Report,
		"generated_at": snap.GeneratedAt,
	})
}

// handleAggregates serves the aggregate rows for ?group=area (default) or
// ?group=region.
func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.service.Snapshot()
	if !ok {
		s.renderNoSnapshot(w, r)
		return
	}

	grouping, ok := parseGrouping(r.URL.Query().Get("group"))
	if !ok {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "group must be \"area\" or \"region\""})
		return
	}

	render.JSON(w, r, map[string]any{
		"group": grouping,
		"rows":  snap.Rows(grouping),
	})
}

// handleAreas serves resolved area codes. Unresolved areas are excluded
// from the code-keyed list (a map cannot paint them) but their names are
// reported so non-geographic views can keep them.
func (s *Server) handleAreas(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.service.Snapshot()
	if !ok {
		s.renderNoSnapshot(w, r)
		return
	}

	resolved := make([]domain.AreaCode, 0, len(snap.Areas))
	var unresolved []string
	for _, area := range snap.Areas {
		if area.Resolved() {
			resolved = append(resolved, area)
		} else {
			unresolved = append(unresolved, area.Area)
		}
	}

	render.JSON(w, r, map[string]any{
		"areas":      resolved,
		"unresolved": unresolved,
	})
}

// handleForecast serves the trend line for ?group=<key>, with optional
// ?grouping=area|region and ?horizon=<years>.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "group parameter is required"})
		return
	}

	grouping, ok := parseGrouping(r.URL.Query().Get("grouping"))
	if !ok {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "grouping must be \"area\" or \"region\""})
		return
	}

	// -1 marks "not supplied": the pipeline substitutes its configured
	// default. An explicit 0 is passed through for a history-only fit.
	horizon := -1
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil || h < 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "horizon must be a non-negative integer"})
			return
		}
		horizon = h
	}

	points, err := s.service.Forecast(group, grouping, horizon)
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]string{"error": "insufficient data", "group": group})
	case errors.Is(err, domain.ErrEmptySelection):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "no records for group", "group": group})
	case err != nil:
		s.logger.Error("forecast failed", "group", group, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "forecast failed"})
	default:
		render.JSON(w, r, map[string]any{
			"group":  group,
			"points": points,
		})
	}
}

func (s *Server) renderNoSnapshot(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusServiceUnavailable)
	render.JSON(w, r, map[string]string{"error": "no snapshot available"})
}

func parseGrouping(raw string) (pipeline.Grouping, bool) {
	switch raw {
	case "", string(pipeline.GroupArea):
		return pipeline.GroupArea, true
	case string(pipeline.GroupRegion):
		return pipeline.GroupRegion, true
	default:
		return "", false
	}
}
