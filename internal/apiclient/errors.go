package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel categories for API failures. Callers match with errors.Is.
var (
	ErrTransport       = errors.New("network unreachable")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNotFound        = errors.New("not found")
	ErrServer          = errors.New("server error")
)

// APIError is the single normalized failure shape for every request.
// Status is 0 for transport failures. Message carries the server's JSON
// error body when present, else the HTTP status text.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// classify maps an HTTP status to its sentinel category. Statuses outside
// the taxonomy (403, 409, ...) carry no category and match no sentinel.
func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusBadRequest:
		return ErrInvalidRequest
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return nil
	}
}

func newAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message, kind: classify(status)}
}

func newTransportError(err error) *APIError {
	return &APIError{Message: err.Error(), kind: ErrTransport}
}
