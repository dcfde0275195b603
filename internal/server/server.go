// Package server exposes storm generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rossv/designstorms-sub000/internal/config"
	"github.com/rossv/designstorms-sub000/internal/export"
	"github.com/rossv/designstorms-sub000/internal/observability"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

const maxRequestBytes = 1 << 20

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Publisher forwards generated storms downstream.
type Publisher interface {
	Publish(ctx context.Context, runID string, p storm.Params, r storm.Result) error
}

// Deps wires the server. Engine is required; the rest are optional.
type Deps struct {
	Engine    *storm.Engine
	Ready     ReadinessChecker
	Publisher Publisher
	Metrics   *observability.Metrics
	Clock     clockwork.Clock
	Logger    *slog.Logger

	// MaxSamples rejects requests whose series would be longer. Zero
	// disables the check.
	MaxSamples int
}

// Server exposes health, readiness, metrics and storm endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	seq        atomic.Uint64
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/storms and /v1/distributions routes.
func NewServer(addr string, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps: deps,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/storms", s.handleGenerate)
	mux.HandleFunc("GET /v1/distributions", s.handleDistributions)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.deps.Logger.Info("http server starting", "addr", s.httpServer.Addr)
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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.deps.Ready.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// StormRequest is the body of POST /v1/storms. Omitted fields take the
// defaults of config.DefaultConfig.
type StormRequest struct {
	storm.Params
	Strict bool `json:"strict"`
}

// StormResponse is the body of a successful POST /v1/storms.
type StormResponse struct {
	RunID     string `json:"run_id"`
	Published bool   `json:"published"`
	export.Document
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	defaults, err := config.DefaultConfig().Params()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	req := StormRequest{Params: defaults}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	if n := s.deps.Engine.SampleCount(req.Params); s.deps.MaxSamples > 0 && n > s.deps.MaxSamples {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Errorf("request needs %d samples, limit is %d", n, s.deps.MaxSamples))
		return
	}

	start := s.deps.Clock.Now()
	var res storm.Result
	if req.Strict {
		res, err = s.deps.Engine.GenerateStrict(req.Params)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	} else {
		res = s.deps.Engine.Generate(req.Params)
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveStorm(req.Params, res, s.deps.Clock.Since(start))
	}

	resp := StormResponse{
		RunID:    s.nextRunID(),
		Document: export.NewDocument(req.Params, res),
	}
	if s.deps.Publisher != nil {
		err := s.deps.Publisher.Publish(r.Context(), resp.RunID, req.Params, res)
		if s.deps.Metrics != nil {
			s.deps.Metrics.ObservePublish(err)
		}
		if err != nil {
			s.deps.Logger.Warn("publish failed", "run_id", resp.RunID, "error", err)
		} else {
			resp.Published = true
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type distributionsResponse struct {
	Names    []string             `json:"names"`
	Families map[string][]float64 `json:"families"`
	Presets  []string             `json:"presets"`
}

func (s *Server) handleDistributions(w http.ResponseWriter, _ *http.Request) {
	cat := s.deps.Engine.Catalog()
	resp := distributionsResponse{
		Names:    cat.Names(),
		Families: make(map[string][]float64),
		Presets:  cat.Presets(),
	}
	for _, family := range cat.Families() {
		resp.Families[family] = cat.Durations(family)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) nextRunID() string {
	return fmt.Sprintf("storm_%d_%d", s.deps.Clock.Now().Unix(), s.seq.Add(1))
}

func writeError(w http.ResponseWriter, status int, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
