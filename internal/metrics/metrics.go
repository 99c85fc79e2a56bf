// Package metrics provides Prometheus instrumentation for the scoring service.
package metrics

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "returnguard",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "returnguard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ScoresTotal counts single scoring decisions by outcome.
	ScoresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "returnguard",
			Name:      "scores_total",
			Help:      "Total scoring decisions by outcome (flagged or clear).",
		},
		[]string{"decision"},
	)

	// ScoreValue observes the distribution of raw risk scores.
	ScoreValue = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "returnguard",
		Name:      "score_value",
		Help:      "Distribution of raw risk scores.",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
	})

	// ScoringErrorsTotal counts scoring failures by kind.
	ScoringErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "returnguard",
			Name:      "scoring_errors_total",
			Help:      "Total scoring failures by error kind.",
		},
		[]string{"kind"},
	)

	// BatchRequestsTotal counts batch scoring calls by result.
	BatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "returnguard",
			Name:      "batch_requests_total",
			Help:      "Total batch scoring calls by result.",
		},
		[]string{"result"},
	)

	// BatchSize observes how many records each batch call carries.
	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "returnguard",
		Name:      "batch_size",
		Help:      "Number of records per batch scoring call.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})

	// FeatureDefaultsTotal counts silent default substitutions during
	// vectorization, per feature name. A non-zero rate means the request
	// schema has drifted from the model's training layout.
	FeatureDefaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "returnguard",
			Name:      "feature_defaults_total",
			Help:      "Silent default substitutions during vectorization, per feature.",
		},
		[]string{"feature"},
	)

	// ModelLoaded reports whether a scorer is loaded (1) or not (0).
	ModelLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "returnguard",
		Name:      "model_loaded",
		Help:      "Whether a model artifact is currently loaded.",
	})

	// DBOpenConnections tracks open database connections.
	DBOpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "returnguard", Name: "db_open_connections",
		Help: "Number of open database connections.",
	})
	// DBInUseConnections tracks in-use database connections.
	DBInUseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "returnguard", Name: "db_in_use_connections",
		Help: "Number of in-use database connections.",
	})
	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "returnguard", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ScoresTotal,
		ScoreValue,
		ScoringErrorsTotal,
		BatchRequestsTotal,
		BatchSize,
		FeatureDefaultsTotal,
		ModelLoaded,
		DBOpenConnections,
		DBInUseConnections,
		GoroutineCount,
	)
}

// StartDBStatsCollector periodically samples sql.DBStats and runtime goroutine
// count into Prometheus gauges. Call in a goroutine; exits when ctx is done.
func StartDBStatsCollector(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			DBOpenConnections.Set(float64(stats.OpenConnections))
			DBInUseConnections.Set(float64(stats.InUse))
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // Uses route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
