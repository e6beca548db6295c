package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/aurascan/aurascan/internal/fault"
)

// ErrorCode represents machine-readable error codes
type ErrorCode string

const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotConfigured   ErrorCode = "SERVICE_NOT_CONFIGURED"
	ErrCodeUpstream        ErrorCode = "UPSTREAM_ERROR"
	ErrCodeUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeBadUpstreamData ErrorCode = "MALFORMED_UPSTREAM_RESPONSE"
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"
)

// ErrorResponse is the structured error body. The human-readable message
// lives in "error" so browser code can display it directly; "code" is
// for machines.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
}

// writeError writes a structured error response, attaching the request id
// from the chi middleware when available.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code ErrorCode, message string) {
	resp := ErrorResponse{Error: message, Code: code}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		resp.RequestID = reqID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeFault maps a kinded error onto an HTTP status. The mapping is
// exhaustive over fault kinds: configuration faults are 503, validation
// 400, upstream failures and timeouts 502, unparsable upstream replies
// 500. Errors with no kind are treated as internal and their message is
// not exposed.
func writeFault(w http.ResponseWriter, r *http.Request, err error) {
	switch fault.KindOf(err) {
	case fault.KindConfiguration:
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeNotConfigured, err.Error())
	case fault.KindValidation:
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case fault.KindTimeout:
		writeError(w, r, http.StatusBadGateway, ErrCodeUpstreamTimeout, err.Error())
	case fault.KindUpstream:
		writeError(w, r, http.StatusBadGateway, ErrCodeUpstream, err.Error())
	case fault.KindMalformedResponse:
		writeError(w, r, http.StatusInternalServerError, ErrCodeBadUpstreamData, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
