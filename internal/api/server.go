// Package api exposes the HTTP surface: analyze, health, and the two
// checkout endpoints. It is the only layer that maps fault kinds to
// HTTP statuses.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/aurascan/aurascan/internal/analysis"
	"github.com/aurascan/aurascan/internal/checkout"
	"github.com/aurascan/aurascan/internal/config"
	"github.com/aurascan/aurascan/internal/telemetry"
)

// Analyzer is the vision dependency of the server. Satisfied by
// *vision.Client; faked in tests.
type Analyzer interface {
	Configured() bool
	Analyze(ctx context.Context, imageDataURL string) (analysis.FaceAnalysis, error)
}

// CheckoutProvider is the payment dependency of the server. Satisfied by
// *checkout.Client; faked in tests.
type CheckoutProvider interface {
	Configured() bool
	CreateSession(ctx context.Context, origin string) (checkout.Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (checkout.Session, error)
}

type Server struct {
	cfg      *config.Config
	vision   Analyzer
	checkout CheckoutProvider
}

func NewServer(cfg *config.Config, vision Analyzer, provider CheckoutProvider) *Server {
	return &Server{cfg: cfg, vision: vision, checkout: provider}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(telemetry.Middleware)
	// Upstream calls are bounded at 15s each; give the handler headroom
	// above that rather than the usual few seconds.
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitPerIP, time.Minute))
		r.Post("/api/analyze", s.handleAnalyze)
	})

	r.Post("/api/checkout/sessions", s.handleCreateCheckout)
	r.Get("/api/checkout/verify", s.handleVerifyCheckout)

	return r
}

type healthResponse struct {
	VisionConfigured bool `json:"vision_configured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{VisionConfigured: s.vision.Configured()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
