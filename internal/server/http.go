package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vlysenko/voicelink/internal/config"
	"github.com/vlysenko/voicelink/internal/metrics"
	"github.com/vlysenko/voicelink/internal/pipeline"
)

// StatusServer exposes health, statistics and Prometheus metrics over
// HTTP. It is observational only; there is no runtime reconfiguration
// surface.
type StatusServer struct {
	server    *http.Server
	logger    *slog.Logger
	config    *config.Config
	tx        *pipeline.Transmitter
	rx        *pipeline.Receiver
	metrics   *metrics.Metrics
	startTime time.Time
}

// New creates the status server with its routes configured.
func New(cfg *config.Config, logger *slog.Logger,
	tx *pipeline.Transmitter, rx *pipeline.Receiver, m *metrics.Metrics) *StatusServer {

	s := &StatusServer{
		logger:    logger,
		config:    cfg,
		tx:        tx,
		rx:        rx,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.withMetrics("/healthz", s.handleHealth))
	mux.HandleFunc("/stats", s.withMetrics("/stats", s.handleStats))
	mux.HandleFunc("/config", s.withMetrics("/config", s.handleConfig))
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving in a background goroutine.
func (s *StatusServer) Start() {
	s.logger.Info("HTTP status server started", slog.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", slog.String("error", err.Error()))
		}
	}()
}

// Stop gracefully shuts the server down.
func (s *StatusServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP status server")
	return s.server.Shutdown(ctx)
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMetrics wraps a handler with request counting and timing.
func (s *StatusServer) withMetrics(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, req)

		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(req.Method, endpoint,
				strconv.Itoa(rec.status), time.Since(start).Seconds())
		}
	}
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"status":         "ok",
		"uptime_seconds": time.Since(s.startTime).Seconds(),
	})
}

func (s *StatusServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"transmit": s.tx.Stats(),
		"receive":  s.rx.Stats(),
	})
}

func (s *StatusServer) handleConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"audio":    s.config.Audio,
		"network":  s.config.Network,
		"pipeline": s.config.Pipeline,
	})
}

func (s *StatusServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}
