package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PlayersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_players_registered_total",
			Help: "The total number of players added to the roster.",
		}),
		PlayersRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_players_removed_total",
			Help: "The total number of players removed from the roster.",
		}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_bookings_created_total",
			Help: "The total number of slot bookings created.",
		}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_bookings_cancelled_total",
			Help: "The total number of slot bookings deleted, including cascades.",
		}),
		LoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_login_failures_total",
			Help: "The total number of rejected phone or password submissions.",
		}),
		AdvisorRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_advisor_requests_total",
			Help: "The total number of match suggestions requested from the advisor.",
		}),
		AdvisorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_advisor_failures_total",
			Help: "The total number of advisor calls that failed or returned malformed data.",
		}),
		AdvisorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "padel_advisor_duration_seconds",
			Help:    "The duration of advisor calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "padel_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PlayersRegistered,
		s.PlayersRemoved,
		s.BookingsCreated,
		s.BookingsCancelled,
		s.LoginFailures,
		s.AdvisorRequests,
		s.AdvisorFailures,
		s.AdvisorDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPlayersRegistered() {
	s.PlayersRegistered.Inc()
}

func (s *Service) IncPlayersRemoved() {
	s.PlayersRemoved.Inc()
}

func (s *Service) IncBookingsCreated() {
	s.BookingsCreated.Inc()
}

func (s *Service) IncBookingsCancelled() {
	s.BookingsCancelled.Inc()
}

func (s *Service) IncLoginFailures() {
	s.LoginFailures.Inc()
}

func (s *Service) IncAdvisorRequests() {
	s.AdvisorRequests.Inc()
}

func (s *Service) IncAdvisorFailures() {
	s.AdvisorFailures.Inc()
}

func (s *Service) ObserveAdvisorDuration(duration float64) {
	s.AdvisorDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
