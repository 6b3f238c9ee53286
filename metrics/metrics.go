// Package metrics instruments HTTP traffic and authentication with Prometheus.
// Everything is registered on the registry passed to New; nothing touches the global
// default registry.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/jobtrack-go/db"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	inflight     prometheus.Gauge
	authFailures *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime and process
// collectors, on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "HTTP requests currently being served",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobtrack_auth_failures_total",
			Help: "Rejected authentication attempts by reason",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{
		m.requests, m.duration, m.inflight, m.authFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registerCollector(registry, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerCollector registers c, ignoring collectors that are already registered.
func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// RegisterDB exposes connection pool statistics for d.
func (m *Metrics) RegisterDB(d *db.DB) error {
	if d.SQL != nil {
		return registerCollector(m.registry, collectors.NewDBStatsCollector(d.SQL.DB, "jobtrack"))
	}
	if d.Pool != nil {
		return registerCollector(m.registry, newPoolCollector(d.Pool))
	}
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// AuthFailure counts a rejected authentication attempt. It matches auth.FailureFunc.
func (m *Metrics) AuthFailure(reason string) {
	m.authFailures.WithLabelValues(reason).Inc()
}

// Middleware records count, latency and in-flight requests. Requests are labelled with the
// chi route pattern so ids in paths do not create new series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inflight.Inc()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			m.inflight.Dec()
			method := strings.ToUpper(r.Method)
			route := routeLabel(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(ww, r)
	})
}

func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

var uuidSegmentRE = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// normalizePath replaces id-like segments with ":param" for requests chi did not route.
func normalizePath(p string) string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		if len(seg) > 48 || uuidSegmentRE.MatchString(seg) {
			seg = ":param"
		} else if _, err := strconv.Atoi(seg); err == nil {
			seg = ":param"
		}
		out = append(out, seg)
	}
	return "/" + strings.Join(out, "/")
}

// poolCollector reports pgxpool connection counts.
type poolCollector struct {
	pool *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("jobtrack_pgxpool_acquired_conns", "Connections currently acquired", nil, nil),
		idleDesc:     prometheus.NewDesc("jobtrack_pgxpool_idle_conns", "Idle connections", nil, nil),
		totalDesc:    prometheus.NewDesc("jobtrack_pgxpool_total_conns", "Total connections", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}
