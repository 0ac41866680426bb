package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveSnapshot("cart", 3)
	m.ObserveSnapshot("cart", 5)
	m.ObserveDecision("cart", "open")
	m.ObserveStateWrite("open", nil)
	m.ObserveStateWrite("closed", errors.New("unavailable"))
	m.SetPendingCloses(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.snapshots.WithLabelValues("cart")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.lastSize.WithLabelValues("cart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("cart", "open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stateWrites.WithLabelValues("closed", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pendingCloses))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/items", http.StatusOK, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cartserver_http_requests_total{method="GET",route="/items",status="200"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSnapshot("cart", 1)
	m.ObserveDecision("cart", "seed")
	m.ObserveStateWrite("open", nil)
	m.SetPendingCloses(0)
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
