package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/dhis2-sre/im-calendar/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var b bytes.Buffer
	logger := slog.New(New(slog.NewJSONHandler(&b, nil)))

	r := gin.New()
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())

	t.Run("ContainCorrelationID", func(t *testing.T) {
		b.Reset()
		var correlationID string
		r.GET("/test1/:id", func(c *gin.Context) {
			correlationID, _ = middleware.GetCorrelationID(c.Request.Context())
			// middleware.RequestLogger() and our call to InfoContext should add log lines with
			// attribute correlationId=<correlationID>
			logger.InfoContext(c.Request.Context(), "info")
			c.String(http.StatusOK, "success")
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest("GET", "/test1/100", nil)
		require.NoError(t, err)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, correlationID, w.Header().Get(middleware.CorrelationIDHeader))

		lines := 0
		forEachLogLine(t, &b, func(got map[string]any) {
			lines++
			assertLogAttributeEquals(t, got, "correlationId", correlationID)
		})
		assert.Equal(t, 2, lines)
	})

	t.Run("ContainsQueryAndURLParameters", func(t *testing.T) {
		b.Reset()
		r.GET("/test2/:urlParam", func(c *gin.Context) {
			c.String(http.StatusOK, "success")
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest("GET", "/test2/100", nil)
		require.NoError(t, err)
		q := req.URL.Query()
		q.Add("query1", "true")
		req.URL.RawQuery = q.Encode()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		forEachLogLine(t, &b, func(got map[string]any) {
			v := assertLogAttributeKey(t, got, "request")
			gotRequest, ok := v.(map[string]any)
			assert.True(t, ok, "want log line to have key `request` of type map[string]any")

			assertLogAttributeEquals(t, gotRequest, "path", "/test2/100")
			assertLogAttributeEquals(t, gotRequest, "route", "/test2/:urlParam")
			assertLogAttributeEquals(t, gotRequest, "query", "query1=true")
			assertLogAttributeEquals(t, gotRequest, "params", map[string]any{"urlParam": "100"})
		})
	})

	t.Run("UseLogLevelInfoByDefault", func(t *testing.T) {
		b.Reset()
		r.GET("/test3", func(c *gin.Context) {
			c.String(http.StatusOK, "success")
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest("GET", "/test3", nil)
		require.NoError(t, err)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		forEachLogLine(t, &b, func(got map[string]any) {
			assertLogAttributeEquals(t, got, "level", "INFO")
			_, ok := got["error"]
			assert.False(t, ok, "want no key `error` for non warn/error levels")
		})
	})

	t.Run("UseLogLevelWarningOnClientError", func(t *testing.T) {
		b.Reset()
		r.GET("/test4", func(c *gin.Context) {
			_ = c.Error(errdef.NewNotFound("event not found with id: 1"))
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest("GET", "/test4", nil)
		require.NoError(t, err)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNotFound, w.Code)

		forEachLogLine(t, &b, func(got map[string]any) {
			assertLogAttributeEquals(t, got, "level", "WARN")
			assertLogAttributeContains(t, got, "error", "event not found with id: 1")
		})
	})

	t.Run("UseLogLevelErrorOnServerError", func(t *testing.T) {
		b.Reset()
		r.GET("/test5", func(c *gin.Context) {
			_ = c.Error(errors.New("unknown error"))
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest("GET", "/test5", nil)
		require.NoError(t, err)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "unknown error")

		forEachLogLine(t, &b, func(got map[string]any) {
			assertLogAttributeEquals(t, got, "level", "ERROR")
			assertLogAttributeContains(t, got, "error", "unknown error")
		})
	})
}

func TestContextHandler_TraceID(t *testing.T) {
	var b bytes.Buffer
	logger := slog.New(New(slog.NewJSONHandler(&b, nil)))
	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanContext := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanContext)

	logger.InfoContext(ctx, "info")
	logger.Info("no trace")

	var lines []map[string]any
	forEachLogLine(t, &b, func(got map[string]any) {
		lines = append(lines, got)
	})
	require.Len(t, lines, 2)
	assertLogAttributeEquals(t, lines[0], "traceId", traceID.String())
	_, ok := lines[1]["traceId"]
	assert.False(t, ok, "want no key `traceId` outside of a trace")
	_, ok = lines[1]["correlationId"]
	assert.False(t, ok, "want no key `correlationId` outside of a request")
}

func forEachLogLine(t *testing.T, b *bytes.Buffer, f func(got map[string]any)) {
	sc := bufio.NewScanner(b)
	for sc.Scan() {
		line := sc.Text()
		got := make(map[string]any)

		err := json.Unmarshal([]byte(line), &got)

		require.NoError(t, err)
		t.Log("log line:", line)
		f(got)
	}
}

func assertLogAttributeEquals(t *testing.T, got map[string]any, wantKey string, wantValue any) {
	v := assertLogAttributeKey(t, got, wantKey)
	assert.EqualValuesf(t, wantValue, v, "want log line to have key %q", wantKey)
}

func assertLogAttributeContains(t *testing.T, got map[string]any, wantKey string, wantValue any) {
	v := assertLogAttributeKey(t, got, wantKey)
	assert.Containsf(t, v, wantValue, "want log line to have key %q", wantKey)
}

func assertLogAttributeKey(t *testing.T, got map[string]any, wantKey string) any {
	v, ok := got[wantKey]
	assert.Truef(t, ok, "want log line to have key %q", wantKey)
	return v
}
