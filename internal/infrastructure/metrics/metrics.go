// Package metrics expone métricas Prometheus de la API de pedidos.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pedidos"

// Metrics agrupa los collectors en un registry propio (no el global).
// Un *Metrics nil es válido: todos los métodos son no-op.
type Metrics struct {
	registry      *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	orderWrites   *prometheus.CounterVec
	uploadBatches prometheus.Counter
	uploadFiles   prometheus.Counter
	uploadBytes   prometheus.Counter
	uploadReject  *prometheus.CounterVec
}

// New registra los collectors, incluidos los de runtime Go y proceso.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Peticiones HTTP atendidas por método, ruta y estado.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Duración de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		orderWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "writes_total",
			Help: "Escrituras de pedidos confirmadas por operación.",
		}, []string{"op"}),
		uploadBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "uploads", Name: "batches_total",
			Help: "Lotes de archivos guardados.",
		}),
		uploadFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "uploads", Name: "files_total",
			Help: "Archivos guardados.",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "uploads", Name: "bytes_total",
			Help: "Bytes de adjuntos guardados.",
		}),
		uploadReject: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "uploads", Name: "rejected_total",
			Help: "Lotes rechazados por límite excedido.",
		}, []string{"limit"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.orderWrites,
		m.uploadBatches, m.uploadFiles, m.uploadBytes, m.uploadReject,
	)
	return m
}

// Registry devuelve el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware mide cada petición. La etiqueta de ruta es el patrón registrado, no la URL,
// para no disparar la cardinalidad con IDs.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		method := c.Method()
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registry en formato de exposición Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	}))
}

// OrderWritten cuenta una escritura confirmada (op: create, update o delete).
func (m *Metrics) OrderWritten(op string) {
	if m == nil {
		return
	}
	m.orderWrites.WithLabelValues(op).Inc()
}

// UploadStored cuenta un lote guardado con sus archivos y bytes.
func (m *Metrics) UploadStored(files int, bytes int64) {
	if m == nil {
		return
	}
	m.uploadBatches.Inc()
	m.uploadFiles.Add(float64(files))
	m.uploadBytes.Add(float64(bytes))
}

// UploadRejected cuenta un lote rechazado por el límite indicado.
func (m *Metrics) UploadRejected(limit string) {
	if m == nil {
		return
	}
	m.uploadReject.WithLabelValues(limit).Inc()
}
