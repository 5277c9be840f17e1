package http

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse is the standard API error body.
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable message
	Code    string `json:"code"`              // Machine-readable error code
	Timeout *int64 `json:"timeout,omitempty"` // Seconds to wait before retrying
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	writeErrorResponse(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteRateLimited writes a 429 response carrying the remaining wait in
// seconds, both in the body and as a Retry-After header.
func WriteRateLimited(w http.ResponseWriter, code, message string, seconds int64) {
	w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	writeErrorResponse(w, http.StatusTooManyRequests, ErrorResponse{
		Error:   message,
		Code:    code,
		Timeout: &seconds,
	})
}

// WriteUnauthorizedWithTimeout writes a 401 response that carries the
// throttle's backoff hint for the next attempt.
func WriteUnauthorizedWithTimeout(w http.ResponseWriter, code, message string, seconds int64) {
	writeErrorResponse(w, http.StatusUnauthorized, ErrorResponse{
		Error:   message,
		Code:    code,
		Timeout: &seconds,
	})
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Log-free best effort; encoding a flat struct cannot realistically fail.
	_ = json.NewEncoder(w).Encode(resp)
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, code, message string) {
	WriteError(w, http.StatusBadRequest, code, message)
}

func WriteUnauthorized(w http.ResponseWriter, code, message string) {
	WriteError(w, http.StatusUnauthorized, code, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "FORBIDDEN", message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "NOT_FOUND", message)
}

func WriteConflict(w http.ResponseWriter, code, message string) {
	WriteError(w, http.StatusConflict, code, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "IO_ERROR", message)
}

// WriteJSON writes a JSON success response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
