package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// RunnerExecutions 沙箱执行结果：ok / compile_error / timeout / rejected / error
	RunnerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_runner_executions_total",
			Help: "Sandboxed code executions by language and outcome",
		},
		[]string{"language", "outcome"},
	)

	GeminiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gemini_requests_total",
			Help: "Calls to the Gemini API by kind and resulting status",
		},
		[]string{"kind", "status"},
	)

	PlayersConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "players_ws_connections",
			Help: "Open player presence websocket connections",
		},
	)

	ResetTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reset_tokens_total",
			Help: "Password reset token lifecycle events",
		},
		[]string{"event"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(RunnerExecutions)
		prometheus.MustRegister(GeminiRequests)
		prometheus.MustRegister(ResetTokens)
		prometheus.MustRegister(PlayersConnected)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
