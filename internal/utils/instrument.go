package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Instruments agrupa las métricas Prometheus del servicio. Un *Instruments
// nil es válido y no registra nada.
type Instruments struct {
	Requests    *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	SyncRuns    *prometheus.CounterVec
	SyncRecords *prometheus.CounterVec
	Efficiency  *prometheus.GaugeVec

	reg *prometheus.Registry
}

func NewInstruments(namespace string, reg *prometheus.Registry) *Instruments {
	f := promauto.With(reg)
	return &Instruments{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		Latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
		SyncRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_runs_total",
				Help:      "Upstream sync runs by source and outcome",
			},
			[]string{"source", "status"},
		),
		SyncRecords: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_records_total",
				Help:      "Records stored by upstream syncs",
			},
			[]string{"source"},
		),
		Efficiency: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "efficiency_status",
				Help:      "1 for the status of the last computed efficiency report",
			},
			[]string{"status"},
		),
		reg: reg,
	}
}

// NewRegistry incluye los collectors de runtime y proceso.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (m *Instruments) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware etiqueta por patrón de ruta chi para no explotar la cardinalidad.
func (m *Instruments) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(status(ww))).Inc()
		m.Latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Instruments) RecordSync(source string, records int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SyncRuns.WithLabelValues(source, "error").Inc()
		return
	}
	m.SyncRuns.WithLabelValues(source, "success").Inc()
	m.SyncRecords.WithLabelValues(source).Add(float64(records))
}

var efficiencyStatuses = []string{"green", "yellow", "red"}

func (m *Instruments) SetEfficiency(status string) {
	if m == nil {
		return
	}
	for _, s := range efficiencyStatuses {
		v := 0.0
		if s == status {
			v = 1
		}
		m.Efficiency.WithLabelValues(s).Set(v)
	}
}
