// Package metrics holds the Prometheus collectors of the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	cartSyncFailures prometheus.Counter
	coupons          *prometheus.CounterVec
	ordersPlaced     *prometheus.CounterVec
	sessions         prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the upstream backend.",
		}, []string{"method", "route", "code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cartSyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_sync_failures_total",
			Help:      "Cart snapshots that could not be pushed upstream.",
		}),
		coupons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "coupon_applications_total",
			Help:      "Coupon apply attempts by result.",
		}, []string{"result"}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_placed_total",
			Help:      "Orders created by payment method.",
		}, []string{"payment_method"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Name:      "sessions_cached",
			Help:      "Sessions held in memory.",
		}),
	}
	m.registry.MustRegister(
		m.upstreamRequests,
		m.upstreamLatency,
		m.cartSyncFailures,
		m.coupons,
		m.ordersPlaced,
		m.sessions,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The methods below are nil-safe so instrumented packages can run without a
// registry in tests.

func (m *Metrics) ObserveUpstream(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(method, route, code).Inc()
	m.upstreamLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) CartSyncFailed() {
	if m == nil {
		return
	}
	m.cartSyncFailures.Inc()
}

func (m *Metrics) CouponResult(result string) {
	if m == nil {
		return
	}
	m.coupons.WithLabelValues(result).Inc()
}

func (m *Metrics) OrderPlaced(method string) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(method).Inc()
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
