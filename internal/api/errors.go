package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

// APIError is the error envelope. It implements huma.StatusError.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Success bool   `json:"success" doc:"Always false for errors"`
	Message string `json:"message" doc:"Human-readable error message"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

func newAPIError(status int, code domainerrors.Code, message string, details any) *APIError {
	return &APIError{
		status:  status,
		Message: message,
		Code:    string(code),
		Details: details,
	}
}

// RegisterErrorHandler configures huma to render domain errors. Internal
// failures are logged with their full chain and hidden from the client.
// Call this after creating the huma.API but before serving requests.
func RegisterErrorHandler(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				if domainErr.Code == domainerrors.CodeInternal {
					logger.Error(domainErr.Message, "error", err)
					return internalError()
				}
				return newAPIError(domainErr.HTTPStatus(), domainErr.Code, domainErr.Message, domainErr.Details)
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) && storeErr.HTTPCode() < http.StatusInternalServerError {
				code := domainerrors.CodeForStatus(storeErr.HTTPCode())
				return newAPIError(code.HTTPStatus(), code, storeErr.Message, nil)
			}
		}

		// Request validation failures from huma itself.
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
			return newAPIError(http.StatusBadRequest, domainerrors.CodeValidation, validationMessage(message, errs), validationDetails(errs))
		}

		if status >= http.StatusInternalServerError {
			logger.Error("unhandled error", "status", status, "message", message, "error", errors.Join(errs...))
			return internalError()
		}

		return newAPIError(status, domainerrors.CodeForStatus(status), message, nil)
	}
}

func internalError() *APIError {
	return newAPIError(http.StatusInternalServerError, domainerrors.CodeInternal, "internal server error", nil)
}

// validationMessage prefers the first field-level message over huma's generic one.
func validationMessage(fallback string, errs []error) string {
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) && detail.Message != "" {
			if detail.Location != "" {
				return detail.Location + ": " + detail.Message
			}
			return detail.Message
		}
	}
	return fallback
}

func validationDetails(errs []error) any {
	details := make(map[string]string)
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) && detail.Location != "" {
			details[detail.Location] = detail.Message
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// register wraps huma.Register so every handler error leaves as a StatusError
// produced by the handler installed in RegisterErrorHandler.
func register[I, O any](api huma.API, op huma.Operation, handler func(context.Context, *I) (*O, error)) {
	huma.Register(api, op, func(ctx context.Context, input *I) (*O, error) {
		out, err := handler(ctx, input)
		if err != nil {
			return nil, toStatusError(err)
		}
		return out, nil
	})
}

func toStatusError(err error) huma.StatusError {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}
	return huma.NewError(http.StatusInternalServerError, "internal server error", err)
}
