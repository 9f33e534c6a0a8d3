package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncPlayersRegistered()
	IncPlayersRemoved()
	IncBookingsCreated()
	IncBookingsCancelled()
	IncLoginFailures()
	IncAdvisorRequests()
	IncAdvisorFailures()
	ObserveAdvisorDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
