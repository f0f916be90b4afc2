// Package apierror renders the relay's closed set of failure kinds as JSON
// HTTP responses.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindConfigurationMissing  Kind = "configuration_missing"
	KindValidationFailed      Kind = "validation_failed"
	KindDownstreamFailure     Kind = "downstream_failure"
	KindUnexpectedServerError Kind = "unexpected_server_error"
)

// Error carries everything needed to render a failure response.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Details is rendered under "details" when non-nil. It may be a string
	// or an upstream JSON body.
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ConfigurationMissing reports an unset required setting.
func ConfigurationMissing(message string) *Error {
	return &Error{Kind: KindConfigurationMissing, Status: http.StatusInternalServerError, Message: message}
}

// ValidationFailed reports bad caller input.
func ValidationFailed(message string) *Error {
	return &Error{Kind: KindValidationFailed, Status: http.StatusBadRequest, Message: message}
}

// DownstreamFailure reports a failed forward. status is the HTTP status sent
// to the caller.
func DownstreamFailure(status int, message string, details any, err error) *Error {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: KindDownstreamFailure, Status: status, Message: message, Details: details, Err: err}
}

// UnexpectedServerError wraps anything else.
func UnexpectedServerError(message string, err error) *Error {
	var details any
	if err != nil {
		details = err.Error()
	}
	return &Error{Kind: KindUnexpectedServerError, Status: http.StatusInternalServerError, Message: message, Details: details, Err: err}
}

// Body is the JSON error envelope.
type Body struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// As returns err as an *Error, wrapping unknown errors as unexpected ones.
func As(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return UnexpectedServerError("Server error", err)
}

// Write renders err to w.
func Write(w http.ResponseWriter, err error) {
	apiErr := As(err)
	WriteJSON(w, apiErr.Status, Body{Error: apiErr.Message, Details: apiErr.Details})
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
