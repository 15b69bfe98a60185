package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the service's Prometheus collectors on a private registry.
type Manager struct {
	Registry                  *prometheus.Registry
	OrdersPlacedTotal         prometheus.Counter
	OrdersCancelledTotal      prometheus.Counter
	OrderStatusUpdatesTotal   *prometheus.CounterVec
	InventoryAdjustmentsTotal *prometheus.CounterVec
	AuthRejectionsTotal       *prometheus.CounterVec
	NotificationsTotal        *prometheus.CounterVec
	HTTPRequestDuration       *prometheus.HistogramVec
}

func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	m := &Manager{
		Registry: registry,
		OrdersPlacedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Total number of orders placed.",
		}),
		OrdersCancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Total number of orders removed through cancellation.",
		}),
		OrderStatusUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_updates_total",
			Help:      "Order status overwrites by target status.",
		}, []string{"status"}),
		InventoryAdjustmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_adjustments_total",
			Help:      "Plant quantity adjustments by direction and outcome.",
		}, []string{"direction", "outcome"}),
		AuthRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_rejections_total",
			Help:      "Requests rejected by the authorization gate.",
		}, []string{"reason"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Email notifications by result.",
		}, []string{"result"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.OrdersPlacedTotal,
		m.OrdersCancelledTotal,
		m.OrderStatusUpdatesTotal,
		m.InventoryAdjustmentsTotal,
		m.AuthRejectionsTotal,
		m.NotificationsTotal,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
