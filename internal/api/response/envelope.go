package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard API response wrapper. Every endpoint, success or
// failure, returns this shape. Code mirrors the HTTP status code.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a JSON response with the given status code and envelope.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// OK writes a 200 response with the given payload.
func OK(w http.ResponseWriter, data any) {
	Success(w, http.StatusOK, "success", data)
}

// Success writes a successful JSON response.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// Err writes an error JSON response. Data is always omitted on errors.
func Err(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Code:    status,
		Message: message,
	})
}

// ErrWithDetails writes an error JSON response carrying structured details,
// such as per-field validation failures.
func ErrWithDetails(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, Envelope{
		Code:    status,
		Message: message,
		Data:    details,
	})
}
