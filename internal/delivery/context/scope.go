// Package context carries request-scoped values from the delivery layer into usecases.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is the HTTP header that carries the request id in both directions.
const HeaderXRequestID = "X-Request-Id"

const (
	echoRequestIDKey   = "request_id"
	maxRequestIDLength = 128
)

type scopeKey struct{}

// Scope is the per-request state attached by the request id middleware.
type Scope struct {
	RequestID string
	Logger    *slog.Logger
	// Subject is the authenticated username, empty until the access gate admits the request.
	Subject string
}

// NewScope returns ctx carrying a scope for requestID whose logger is tagged with the id.
func NewScope(ctx context.Context, requestID string, base *slog.Logger) context.Context {
	return context.WithValue(ctx, scopeKey{}, &Scope{
		RequestID: requestID,
		Logger:    base.With(slog.String("request_id", requestID)),
	})
}

// FromContext returns the scope stored by NewScope.
func FromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*Scope)

	return scope, ok && scope != nil
}

// WithSubject records the authenticated subject for the access log.
// The parent scope is left untouched.
func WithSubject(ctx context.Context, subject string) context.Context {
	scope, ok := FromContext(ctx)
	if !ok {
		return ctx
	}

	return context.WithValue(ctx, scopeKey{}, &Scope{
		RequestID: scope.RequestID,
		Logger:    scope.Logger,
		Subject:   subject,
	})
}

// GetRequestIDFromContext returns the scope's request id, or "" outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	if scope, ok := FromContext(ctx); ok {
		return scope.RequestID
	}

	return ""
}

// GetSubjectFromContext returns the authenticated subject, or "" before authentication.
func GetSubjectFromContext(ctx context.Context) string {
	if scope, ok := FromContext(ctx); ok {
		return scope.Subject
	}

	return ""
}

// GetLogger returns the request-scoped logger, or nil outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	if scope, ok := FromContext(ctx); ok {
		return scope.Logger
	}

	return nil
}

// GetLoggerOrDefault returns the request-scoped logger, falling back to fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// SetRequestID stores the request id on the echo context for response envelopes.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestIDKey, requestID)
}

// GetRequestID returns the id stored by SetRequestID, generating one if absent.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(echoRequestIDKey).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

// SanitizeRequestID returns raw if it is safe to echo back and log, otherwise "".
// Accepted ids are at most 128 printable ASCII characters without spaces.
func SanitizeRequestID(raw string) string {
	if raw == "" || len(raw) > maxRequestIDLength {
		return ""
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] <= ' ' || raw[i] > '~' {
			return ""
		}
	}

	return raw
}
