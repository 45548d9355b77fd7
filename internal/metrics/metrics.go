package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractpro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contractpro_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// SchedulerTicks counts tick outcomes of the SLA scheduler.
	SchedulerTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractpro_sla_ticks_total",
			Help: "Number of SLA scheduler ticks by outcome",
		},
		[]string{"outcome"},
	)

	// RemindersSent counts reminder/escalation dispatches by kind.
	RemindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractpro_sla_reminders_sent_total",
			Help: "Number of SLA reminders and escalations dispatched",
		},
		[]string{"kind"},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contractpro_sla_tick_duration_seconds",
			Help:    "Duration of SLA scheduler ticks",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Init() {
	prometheus.MustRegister(HTTPRequests, RequestDuration, SchedulerTicks, RemindersSent, TickDuration)
}
