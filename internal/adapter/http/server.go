package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/river-monitor/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ADCSetter moves the simulated sensor inputs.
type ADCSetter interface {
	Set(rainRaw, levelRaw uint16)
}

// FrameSource returns the last flushed display frame.
type FrameSource interface {
	Frame() string
}

// Server exposes health, readiness, and metrics HTTP endpoints, plus the
// simulator controls when they are available.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, and /metrics routes.
// POST /adc is registered when adc is non-nil, GET /display when frames is non-nil.
func NewServer(addr string, ready sharedobs.ReadinessChecker, adc ADCSetter, frames FrameSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	if adc != nil {
		mux.HandleFunc("POST /adc", s.handleADC(adc))
	}
	if frames != nil {
		mux.HandleFunc("GET /display", handleDisplay(frames))
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

type adcRequest struct {
	RainRaw  *int `json:"rain_raw"`
	LevelRaw *int `json:"level_raw"`
}

func (s *Server) handleADC(adc ADCSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adcRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if !validRaw(req.RainRaw) || !validRaw(req.LevelRaw) {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "rain_raw and level_raw must be in [0, 4095]"})
			return
		}

		adc.Set(uint16(*req.RainRaw), uint16(*req.LevelRaw))
		s.logger.Info("adc inputs set", "rain_raw", *req.RainRaw, "level_raw", *req.LevelRaw)
		sharedobs.WriteJSON(w, http.StatusOK, map[string]int{"rain_raw": *req.RainRaw, "level_raw": *req.LevelRaw})
	}
}

func validRaw(v *int) bool {
	return v != nil && *v >= 0 && *v <= domain.ADCMax
}

func handleDisplay(frames FrameSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(frames.Frame())) //nolint:errcheck // best-effort debug view
	}
}
