package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	PlayersRegistered  prometheus.Counter
	PlayersRemoved     prometheus.Counter
	BookingsCreated    prometheus.Counter
	BookingsCancelled  prometheus.Counter
	LoginFailures      prometheus.Counter
	AdvisorRequests    prometheus.Counter
	AdvisorFailures    prometheus.Counter
	AdvisorDuration    prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
