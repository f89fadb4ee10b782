package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the application's Prometheus collectors. A nil *Manager is
// valid and records nothing.
type Manager struct {
	// counters
	CounterActions          *prometheus.CounterVec
	CounterStorageOps       *prometheus.CounterVec
	CounterStorageFallbacks prometheus.Counter
	CounterRequests         *prometheus.CounterVec

	// histograms
	HistRenderDuration       prometheus.Histogram
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("caltracker", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterActions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "actions_total",
			Help:      "Dispatched UI actions by name and result",
		}, []string{"action", "result"}),
		CounterStorageOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_operations_total",
			Help:      "Storage operations by kind, backend and result",
		}, []string{"op", "backend", "result"}),
		CounterStorageFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_fallbacks_total",
			Help:      "Times the primary storage backend failed to open",
		}),
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		HistRenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "render_duration_seconds",
			Help:      "Time to render the current view",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ActionDispatched counts one dispatched action.
func (m *Manager) ActionDispatched(action string, err error) {
	if m == nil {
		return
	}
	m.CounterActions.WithLabelValues(action, result(err)).Inc()
}

// StorageOp implements storage.Observer.
func (m *Manager) StorageOp(op, backend string, err error) {
	if m == nil {
		return
	}
	m.CounterStorageOps.WithLabelValues(op, backend, result(err)).Inc()
}

// StorageFallback implements storage.Observer.
func (m *Manager) StorageFallback(_, _ string) {
	if m == nil {
		return
	}
	m.CounterStorageFallbacks.Inc()
}

// Rendered records how long a view render took.
func (m *Manager) Rendered(d time.Duration) {
	if m == nil {
		return
	}
	m.HistRenderDuration.Observe(d.Seconds())
}

// Request records one served HTTP request.
func (m *Manager) Request(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.CounterRequests.WithLabelValues(method, code).Inc()
	m.HistogramRequestDuration.WithLabelValues(route, method, code).Observe(d.Seconds())
}
