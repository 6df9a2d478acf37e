package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
	Method  string
	Path    string
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// AuthFailure reports whether the response counts as an authentication
// failure. The backend contract treats every status from 401 up as one.
func (e *Error) AuthFailure() bool {
	return e.Status >= http.StatusUnauthorized
}

// IsAuthFailure reports whether err is an api.Error counted as an auth
// failure.
func IsAuthFailure(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.AuthFailure()
}

type requestIDKey struct{}

// WithRequestID returns a context carrying a request id, sent as
// X-Request-ID on outgoing calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request id, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
