package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "route"})

	gatewayEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_gateway_events_total",
		Help: "Inbound gateway events by type and outcome",
	}, []string{"type", "outcome"})

	gatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_gateway_calls_total",
		Help: "Outbound gateway calls by operation and result",
	}, []string{"operation", "result"})

	riskRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_risk_rejections_total",
		Help: "Rejected submissions by reason",
	}, []string{"reason"})

	feedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_calendar_feed_failures_total",
		Help: "External calendar feed fetch or parse failures",
	})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_lifecycle_transitions_total",
		Help: "Applied booking status transitions",
	}, []string{"from", "to"})

	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_scheduled_job_runs_total",
		Help: "Scheduled job runs by job and result",
	}, []string{"job", "result"})
)

func ObserveHTTP(method, route string, status int, seconds float64) {
	httpReqTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(seconds)
}

func GatewayEvent(eventType, outcome string) {
	gatewayEvents.WithLabelValues(eventType, outcome).Inc()
}

func GatewayCall(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	gatewayCalls.WithLabelValues(operation, result).Inc()
}

func RiskRejection(reason string) {
	riskRejections.WithLabelValues(reason).Inc()
}

func FeedFailure() {
	feedFailures.Inc()
}

func Transition(from, to string) {
	transitions.WithLabelValues(from, to).Inc()
}

func JobRun(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	jobRuns.WithLabelValues(job, result).Inc()
}
