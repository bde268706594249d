package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/switchyard-cloud/switchyard/internal/auth"
	"github.com/switchyard-cloud/switchyard/internal/directory"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeServiceError maps a relay error onto the wire.
//
// Every authentication and authorisation failure collapses into one 401
// body so callers cannot distinguish an unknown device from a wrong secret
// (no device-existence oracle via the auth path).
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case auth.IsAuthError(err):
		writeUnauthorized(w, "unauthorised")
	case errors.Is(err, directory.ErrDeviceNotFound):
		writeNotFound(w, "device not found")
	case errors.Is(err, directory.ErrValidation):
		writeBadRequest(w, err.Error())
	case errors.Is(err, directory.ErrQueueFull):
		writeError(w, http.StatusConflict, ErrCodeConflict, "command queue is full")
	default:
		writeInternalError(w, "internal server error")
	}
}
