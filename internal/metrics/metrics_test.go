package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompletion(t *testing.T) {
	m := New()
	m.ObserveCompletion("summarize_text", "ok", 120*time.Millisecond)
	m.ObserveCompletion("summarize_text", "ok", 80*time.Millisecond)
	m.ObserveCompletion("freeform", "upstream_error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.completionsTotal.WithLabelValues("summarize_text", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completionsTotal.WithLabelValues("freeform", "upstream_error")))
}

func TestRecordClear(t *testing.T) {
	m := New()
	m.RecordClear()
	m.RecordClear()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.historyClears))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveCompletion("draft_letter", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `taskpad_completions_total{outcome="ok",task="draft_letter"} 1`)
	assert.Contains(t, string(body), "taskpad_completion_duration_seconds_bucket")
}
