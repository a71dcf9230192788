// internal/app/system/metrics/metrics.go
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "primementor"

// Metrics owns a private registry and the counters recorded by the booking
// flow. All methods are safe on a nil *Metrics.
type Metrics struct {
	reg *prometheus.Registry

	bookingsCreated      *prometheus.CounterVec
	transitions          *prometheus.CounterVec
	syncFailures         *prometheus.CounterVec
	provisionerFallbacks prometheus.Counter
	httpDuration         *prometheus.HistogramVec
}

// New builds the registry with process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created, by purchase type.",
		}, []string{"purchase_type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Class request state changes, by operation.",
		}, []string{"op"}),
		syncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_sync_failures_total",
			Help:      "Course entry reconciliations that failed, by where they ran.",
		}, []string{"source"}),
		provisionerFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meeting_provisioner_fallbacks_total",
			Help:      "Bookings that used the fallback meeting URL.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.bookingsCreated,
		m.transitions,
		m.syncFailures,
		m.provisionerFallbacks,
		m.httpDuration,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// BookingCreated counts one created booking.
func (m *Metrics) BookingCreated(purchaseType string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(purchaseType).Inc()
}

// Transition counts one class request state change (assign, link, accept).
func (m *Metrics) Transition(op string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op).Inc()
}

// SyncFailed counts one failed reconciliation. source is "inline" or "worker".
func (m *Metrics) SyncFailed(source string) {
	if m == nil {
		return
	}
	m.syncFailures.WithLabelValues(source).Inc()
}

// ProvisionerFallback counts one booking that fell back to the placeholder link.
func (m *Metrics) ProvisionerFallback() {
	if m == nil {
		return
	}
	m.provisionerFallbacks.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware records request latency labelled by chi route pattern, so
// path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// CountsFunc returns marketplace totals keyed by gauge name.
type CountsFunc func(ctx context.Context) (map[string]float64, error)

// RegisterCounts adds a collector that calls fn on every scrape and
// exports each entry as primementor_<name>. A failing fn exports nothing.
func (m *Metrics) RegisterCounts(fn CountsFunc, names []string, timeout time.Duration) {
	if m == nil {
		return
	}
	descs := make(map[string]*prometheus.Desc, len(names))
	for _, n := range names {
		descs[n] = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", n), "Current "+n+".", nil, nil)
	}
	m.reg.MustRegister(&countsCollector{fn: fn, descs: descs, timeout: timeout})
}

type countsCollector struct {
	fn      CountsFunc
	descs   map[string]*prometheus.Desc
	timeout time.Duration
}

func (c *countsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

func (c *countsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	vals, err := c.fn(ctx)
	if err != nil {
		return
	}
	for name, d := range c.descs {
		v, ok := vals[name]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
}
