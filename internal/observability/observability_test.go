package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func bufferLogger(buf *bytes.Buffer) *zap.Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(buf), zapcore.DebugLevel)
	return zap.New(core)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger("nonsense")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	debug, err := NewLogger("DEBUG")
	require.NoError(t, err)
	require.True(t, debug.Core().Enabled(zapcore.DebugLevel))
}

func TestRequestLoggerMiddlewareLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(InjectLoggerMiddleware(bufferLogger(&buf)), RequestLoggerMiddleware())
	r.Get("/tests/{name}/book", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodGet, "/tests/CBC/book", nil)
	req.Header.Set("HX-Request", "true")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := decodeLines(t, &buf)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	require.Equal(t, "request completed", last["message"])
	require.Equal(t, "INFO", last["severity"])
	require.Equal(t, "/tests/{name}/book", last["route"])
	require.Equal(t, float64(http.StatusAccepted), last["status"])
	require.Equal(t, true, last["htmx"])
}

func TestRecoveryMiddlewareWrites500(t *testing.T) {
	var buf bytes.Buffer
	handler := RecoveryMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, buf.String(), "panic recovered")
}

func TestFromContextDefaultsToNoop(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveComposed("booking")
	m.ObserveComposed("booking")
	m.ObserveFallback("feedback")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	require.Equal(t, 2.0, testutil.ToFloat64(m.composed.WithLabelValues("booking")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("feedback")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.liveSessions))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), "lab_compose_messages_total")
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveComposed("booking")
	m.ObserveValidationFailure("booking")
	m.SessionOpened()
	m.SessionClosed()
	require.Nil(t, m.Registry())
}
