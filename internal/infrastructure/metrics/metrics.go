// Package metrics métricas Prometheus del servicio, expuestas en /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/lux-ventas/internal/application/ports"
)

const namespace = "lux"

var _ ports.Metrics = (*Registry)(nil)

// Registry agrupa los colectores en un registro propio (no el global).
type Registry struct {
	reg *prometheus.Registry

	recordsCreated *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New crea el registro con los colectores de runtime de Go y de proceso.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Registry{
		reg: reg,
		recordsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Registros creados por tipo (visita, oportunidad, venta).",
		}, []string{"kind"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Avisos de WhatsApp por resultado.",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP atendidos.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de los requests HTTP en segundos.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// RecordCreated cuenta un alta.
func (r *Registry) RecordCreated(kind string) {
	r.recordsCreated.WithLabelValues(kind).Inc()
}

// RecordNotification cuenta un aviso según su resultado.
func (r *Registry) RecordNotification(result string) {
	r.notifications.WithLabelValues(result).Inc()
}

// ObserveHTTP registra un request. route es el patrón (/api/ventas/:id), no la URL.
func (r *Registry) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, status).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposición en formato Prometheus.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer acceso al registro (tests).
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
