// Package common provides shared utilities used across all features
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Swap pipeline error taxonomy. "No route" is deliberately absent: an empty
// candidate list is a result, not an error.
var (
	ErrInputValidation         = errors.New("invalid amount input")
	ErrConversionOverflow      = errors.New("amount exceeds representable range")
	ErrSigningFailure          = errors.New("wallet refused to sign transaction batch")
	ErrSubmissionFailure       = errors.New("transaction submission failed")
	ErrCollaboratorUnavailable = errors.New("required collaborator unavailable")
	ErrNotReady                = errors.New("swap inputs not ready")
)

// HttpError represents an HTTP error with status code and message
type HttpError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s %s", e.StatusCode, e.Code, e.Message)
}

func messageOrDefault(msg string, defaultMsg string) string {
	if msg != "" {
		return msg
	}
	return defaultMsg
}

func HTTPErrorBadRequest(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    messageOrDefault(msg, "Bad request"),
	}
}

func HTTPErrorInternalError(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    messageOrDefault(msg, "Internal server error"),
	}
}

func HTTPErrorServiceUnavailable(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "SERVICE_UNAVAILABLE",
		Message:    messageOrDefault(msg, "Service unavailable"),
	}
}

func HTTPErrorUnprocessable(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       "UNPROCESSABLE_ENTITY",
		Message:    messageOrDefault(msg, "Unprocessable entity"),
	}
}

// ToHTTPError maps pipeline errors onto HTTP errors.
func ToHTTPError(err error) *HttpError {
	var httpErr *HttpError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, ErrInputValidation), errors.Is(err, ErrNotReady):
		return HTTPErrorBadRequest(err.Error())
	case errors.Is(err, ErrConversionOverflow), errors.Is(err, ErrSigningFailure):
		return HTTPErrorUnprocessable(err.Error())
	case errors.Is(err, ErrCollaboratorUnavailable):
		return HTTPErrorServiceUnavailable(err.Error())
	default:
		return HTTPErrorInternalError(err.Error())
	}
}
