package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	itemsScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspection_items_scored_total",
			Help: "Inspection items scored, by urgency level",
		},
		[]string{"level"},
	)

	inspectionsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspections_completed_total",
			Help: "Inspections completed, by aggregate urgency level",
		},
		[]string{"level"},
	)

	smsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_messages_total",
			Help: "SMS notifications by outcome",
		},
		[]string{"outcome"},
	)

	shortLinksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "short_links_created_total",
			Help: "Short links created",
		},
	)

	notifyJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_jobs_total",
			Help: "Notification jobs handled by the worker, by outcome",
		},
		[]string{"outcome"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// IncItemScored records one scored item.
func IncItemScored(level string) {
	itemsScoredTotal.WithLabelValues(level).Inc()
}

// IncInspectionCompleted records a completed inspection.
func IncInspectionCompleted(level string) {
	inspectionsCompletedTotal.WithLabelValues(level).Inc()
}

// IncSMSSent records a delivered SMS.
func IncSMSSent() {
	smsTotal.WithLabelValues("sent").Inc()
}

// IncSMSFailed records a failed SMS.
func IncSMSFailed() {
	smsTotal.WithLabelValues("failed").Inc()
}

// IncSMSQueued records an SMS handed to the queue.
func IncSMSQueued() {
	smsTotal.WithLabelValues("queued").Inc()
}

// IncShortLinkCreated records a new short link.
func IncShortLinkCreated() {
	shortLinksCreatedTotal.Inc()
}

// IncNotifyJobsReceived records a worker receive.
func IncNotifyJobsReceived() {
	notifyJobsTotal.WithLabelValues("received").Inc()
}

// IncNotifyJobsCompleted records a delivered and deleted job.
func IncNotifyJobsCompleted() {
	notifyJobsTotal.WithLabelValues("completed").Inc()
}

// IncNotifyJobsFailed records a job left on the queue for retry.
func IncNotifyJobsFailed() {
	notifyJobsTotal.WithLabelValues("failed").Inc()
}

// IncNotifyJobsDropped records an unrecoverable job deleted without delivery.
func IncNotifyJobsDropped() {
	notifyJobsTotal.WithLabelValues("dropped").Inc()
}

// ObserveHTTP records one request's latency.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
