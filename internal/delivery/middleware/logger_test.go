package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"credgate/config"
	deliverycontext "credgate/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoggerMiddleware(buf *bytes.Buffer, debug bool) (*LoggerMiddleware, *slog.Logger) {
	cfg := &config.Config{}
	cfg.Env.Debug = debug
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	return NewLoggerMiddleware(logger, cfg), logger
}

// serveLogged runs handler behind the request scope and the access log, the way the API server chains them.
func serveLogged(t *testing.T, m *LoggerMiddleware, logger *slog.Logger, handler echo.HandlerFunc) {
	t.Helper()

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process, m.Handle)
	e.GET("/users/:id", handler)

	req := httptest.NewRequest(http.MethodGet, "/users/42?token=secret", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-1")
	e.ServeHTTP(httptest.NewRecorder(), req)
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	return line
}

func TestLoggerMiddleware_LogsAuthenticatedSubject(t *testing.T) {
	var buf bytes.Buffer
	m, logger := newTestLoggerMiddleware(&buf, true)

	serveLogged(t, m, logger, func(c echo.Context) error {
		c.SetRequest(c.Request().WithContext(deliverycontext.WithSubject(c.Request().Context(), "alice")))

		return c.NoContent(http.StatusNoContent)
	})

	line := decodeLogLine(t, &buf)
	assert.Equal(t, "HTTP Request", line["msg"])
	assert.Equal(t, "alice", line["subject"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "/users/:id", line["route"])
	assert.EqualValues(t, http.StatusNoContent, line["status"])
	assert.NotContains(t, buf.String(), "secret")
}

func TestLoggerMiddleware_OmitsSubjectBeforeAuthentication(t *testing.T) {
	var buf bytes.Buffer
	m, logger := newTestLoggerMiddleware(&buf, true)

	serveLogged(t, m, logger, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	line := decodeLogLine(t, &buf)
	assert.NotContains(t, line, "subject")
	assert.Equal(t, "req-1", line["request_id"])
}

func TestLoggerMiddleware_LogsOnlyServerErrorsWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	m, logger := newTestLoggerMiddleware(&buf, false)

	serveLogged(t, m, logger, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Empty(t, buf.String())

	serveLogged(t, m, logger, func(echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable)
	})
	line := decodeLogLine(t, &buf)
	assert.Equal(t, "ERROR", line["level"])
	assert.EqualValues(t, http.StatusServiceUnavailable, line["status"])
}
