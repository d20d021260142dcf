// Package response defines the JSON envelope shared by every endpoint and
// helpers for writing it from plain net/http handlers and middleware.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
)

// Envelope wraps successful responses.
type Envelope[T any] struct {
	Success bool   `json:"success" doc:"Always true for successful responses"`
	Message string `json:"message" doc:"Human-readable summary"`
	Data    T      `json:"data" doc:"Response payload"`
}

// OK returns a success envelope.
func OK[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Success: true, Message: message, Data: data}
}

// ErrorBody is the body of every failed response.
type ErrorBody struct {
	Success bool   `json:"success" doc:"Always false for errors"`
	Message string `json:"message" doc:"Human-readable error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error kind"`
	Details any    `json:"details,omitempty" doc:"Per-field validation details"`
}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err, "status", status)
	}
}

// Success writes a 200 envelope.
func Success(w http.ResponseWriter, message string, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, OK(message, data), logger)
}

// Error writes an error body whose kind is derived from status.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, ErrorBody{
		Message: message,
		Code:    string(domainerrors.CodeForStatus(status)),
	}, logger)
}

// Unauthorized writes a 401 error.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, message, logger)
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, message, logger)
}

// MethodNotAllowed writes a 405 error.
func MethodNotAllowed(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, message, logger)
}

// TooManyRequests writes a 429 error.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, message, logger)
}

// InternalError writes a 500 error.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, message, logger)
}

// HandleError maps a domain error to its status; anything else is a 500 whose
// text is logged and withheld from the client.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) && domainErr.Code != domainerrors.CodeInternal {
		JSON(w, domainErr.HTTPStatus(), ErrorBody{
			Message: domainErr.Message,
			Code:    string(domainErr.Code),
			Details: domainErr.Details,
		}, logger)
		return
	}

	if logger != nil {
		logger.Error("request failed", "error", err)
	}
	InternalError(w, "internal server error", logger)
}
