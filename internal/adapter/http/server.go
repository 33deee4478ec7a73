package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agropredict/agropredict/internal/domain"
)

// Predictor answers crop predictions.
type Predictor interface {
	sharedobs.ReadinessChecker
	Predict(ctx context.Context, features domain.Features) (domain.Prediction, error)
	Crops() []string
}

// BaselineLookup finds the climate baseline of a region by name.
type BaselineLookup interface {
	Lookup(region string) (domain.Baseline, bool)
}

// Server exposes the prediction API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Readiness follows the predictor.
func NewServer(addr string, predictor Predictor, baselines BaselineLookup, locations domain.LocationSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(predictor))
	mux.Handle("GET /metrics", promhttp.Handler())

	api := &apiHandlers{predictor: predictor, baselines: baselines, locations: locations, logger: logger}
	mux.HandleFunc("POST /api/v1/predict", api.handlePredict)
	mux.HandleFunc("GET /api/v1/crops", api.handleCrops)
	mux.HandleFunc("GET /api/v1/baselines/{region}", api.handleBaseline)
	mux.HandleFunc("GET /api/v1/states", api.handleStates)
	mux.HandleFunc("GET /api/v1/districts/{state}", api.handleDistricts)

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

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
