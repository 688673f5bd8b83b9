package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relaypage"

// Resultados posibles de una petición paginada.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid_arguments"
	OutcomeFailed   = "error"
	OutcomeNotFound = "not_found"
)

var (
	paginationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pagination_requests_total",
		Help:      "Total number of paginated list requests",
	}, []string{"entity", "direction", "outcome"})

	paginationPageSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pagination_page_size",
		Help:      "Number of edges returned per page",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	}, []string{"entity"})

	countCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "count_cache_lookups_total",
		Help:      "Total count cache lookups by result",
	}, []string{"result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// ObservePage registra una petición paginada. direction puede ir vacío si los argumentos no validaron.
func ObservePage(entity, direction, outcome string, edges int) {
	if direction == "" {
		direction = "unknown"
	}
	paginationRequests.WithLabelValues(entity, direction, outcome).Inc()
	if outcome == OutcomeOK {
		paginationPageSize.WithLabelValues(entity).Observe(float64(edges))
	}
}

// ObserveCountCache registra un acierto o fallo de la caché de conteos.
func ObserveCountCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	countCacheLookups.WithLabelValues(result).Inc()
}

// Middleware registra métricas HTTP por ruta (la plantilla de gin, no la URL concreta).
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler expone el endpoint estándar de Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
