package lib

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "travl_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travl_bookings_total",
		Help: "Booking lifecycle transitions.",
	}, []string{"event"})

	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travl_payments_total",
		Help: "Payment operations by kind and outcome.",
	}, []string{"kind", "outcome"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travl_stripe_webhook_events_total",
		Help: "Verified Stripe webhook events by type.",
	}, []string{"type"})
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func MetricsMiddleware(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()
	route := ctx.FullPath()
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.
		WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).
		Observe(time.Since(start).Seconds())
}
