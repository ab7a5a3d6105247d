package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPリクエスト総数
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPリクエスト処理時間(ヒストグラム)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// 処理中のHTTPリクエスト数
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// 学習プラン生成数
	planGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_generation_total",
			Help: "Total number of daily plan generations",
		},
		[]string{"status"},
	)

	// フラッシュカード回答数
	reviewOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_outcome_total",
			Help: "Total number of recorded flashcard outcomes",
		},
		[]string{"correct"},
	)

	// ストーリー生成呼び出し数
	storyGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_generation_total",
			Help: "Total number of story generation calls",
		},
		[]string{"status"},
	)

	// ストーリー生成応答時間
	storyGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "story_generation_duration_seconds",
			Help:    "Story generation call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
)

// MetricsMiddlewareはHTTPリクエストのPrometheusメトリクスを収集します。
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordPlanGenerationはプラン生成メトリクスを記録します。
func RecordPlanGeneration(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	planGenerationTotal.WithLabelValues(status).Inc()
}

// RecordReviewOutcomeはフラッシュカード回答メトリクスを記録します。
func RecordReviewOutcome(correct bool) {
	reviewOutcomeTotal.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// RecordStoryGenerationはストーリー生成メトリクスを記録します。
func RecordStoryGeneration(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	storyGenerationTotal.WithLabelValues(status).Inc()
	storyGenerationDuration.Observe(duration.Seconds())
}
