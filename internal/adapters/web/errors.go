package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"construction-ledger/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps business errors to HTTP responses. Validation
// failures and missing references are client errors; unknown resources are
// 404; state conflicts are 409. Anything else is a persistence failure:
// the wrapped error is logged here with the request ID, and the client
// gets an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		writeError(w, r, ve.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var re *core.ReferenceNotFoundError
	if errors.As(err, &re) {
		writeError(w, r, re.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, r, nf.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	var ce *core.ConflictError
	if errors.As(err, &ce) {
		writeError(w, r, ce.Error(), "CONFLICT", http.StatusConflict)
		return
	}
	httpLog.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", requestIDFromContext(r.Context())).
		Msg("persistence failure")
	writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
}
