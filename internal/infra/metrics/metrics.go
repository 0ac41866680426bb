// internal/infra/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cartserver"

// Metrics owns a private registry so tests can build as many as they like.
// All methods are safe on a nil receiver.
type Metrics struct {
	Registry *prometheus.Registry

	snapshots     *prometheus.CounterVec
	lastSize      *prometheus.GaugeVec
	decisions     *prometheus.CounterVec
	stateWrites   *prometheus.CounterVec
	pendingCloses prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		snapshots: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "snapshots_total",
			Help:      "Snapshots received per watched collection",
		}, []string{"watch"}),
		lastSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "snapshot_size",
			Help:      "Size of the most recent snapshot per watched collection",
		}, []string{"watch"}),
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "decisions_total",
			Help:      "Comparator decisions per watched collection",
		}, []string{"watch", "decision"}),
		stateWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actuator",
			Name:      "state_writes_total",
			Help:      "Cart state writes by target state and result",
		}, []string{"state", "result"}),
		pendingCloses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "actuator",
			Name:      "pending_closes",
			Help:      "Scheduled close writes not yet fired",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) ObserveSnapshot(watch string, size int) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(watch).Inc()
	m.lastSize.WithLabelValues(watch).Set(float64(size))
}

func (m *Metrics) ObserveDecision(watch, decision string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(watch, decision).Inc()
}

func (m *Metrics) ObserveStateWrite(state string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.stateWrites.WithLabelValues(state, result).Inc()
}

func (m *Metrics) SetPendingCloses(n int) {
	if m == nil {
		return
	}
	m.pendingCloses.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
