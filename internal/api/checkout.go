package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/aurascan/aurascan/internal/telemetry"
)

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type verifySessionResponse struct {
	Paid          bool   `json:"paid"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

// handleCreateCheckout opens a fresh checkout session for one unlock
// attempt and returns the provider-hosted redirect URL. A new session
// supersedes any earlier one on retry.
func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	origin := requestOrigin(r)

	session, err := s.checkout.CreateSession(r.Context(), origin)
	if err != nil {
		log.Error().Err(err).Str("origin", origin).Msg("checkout session creation failed")
		telemetry.CheckoutSessions.WithLabelValues("create", "error").Inc()
		writeFault(w, r, err)
		return
	}

	telemetry.CheckoutSessions.WithLabelValues("create", "ok").Inc()
	writeJSON(w, http.StatusOK, createSessionResponse{ID: session.ID, URL: session.URL})
}

// handleVerifyCheckout reports whether a session is actually paid for.
// Payment status and overall status must both be final; the UI only
// unlocks the report on paid=true.
func (s *Server) handleVerifyCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "session_id is required")
		return
	}

	session, err := s.checkout.RetrieveSession(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("checkout session verification failed")
		telemetry.CheckoutSessions.WithLabelValues("verify", "error").Inc()
		writeFault(w, r, err)
		return
	}

	telemetry.CheckoutSessions.WithLabelValues("verify", "ok").Inc()
	writeJSON(w, http.StatusOK, verifySessionResponse{
		Paid:          session.Paid(),
		PaymentStatus: session.PaymentStatus,
		Status:        session.Status,
	})
}

// requestOrigin derives the externally visible origin for redirect URLs.
// Forwarded headers win so the provider sends users back through the
// proxy they arrived by; otherwise the request's own host is used.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	if host := r.Header.Get("X-Forwarded-Host"); host != "" {
		return scheme + "://" + host
	}
	return scheme + "://" + r.Host
}
