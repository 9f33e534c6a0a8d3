package http

import (
	"net/http"

	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/config"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/JocaCola1972/LevelUP-Connect/internal/notifier"
	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/JocaCola1972/LevelUP-Connect/internal/session"
)

func NewServer(store club.ClubStore, sessions *session.Service, advisor advisor.Advisor, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Session:        sessions,
		Advisor:        advisor,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	authed := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, s.requireSession)
	}
	admin := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, s.requireSession, requireAdmin)
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /session", Chain(s.SessionHandler(), paramsMiddleware))
	s.Router.Handle("POST /session/phone", Chain(s.SubmitPhoneHandler(), paramsMiddleware))
	s.Router.Handle("POST /session/password", Chain(s.SubmitPasswordHandler(), paramsMiddleware))
	s.Router.Handle("POST /session/setup", Chain(s.SubmitSetupHandler(), paramsMiddleware))
	s.Router.Handle("POST /session/logout", Chain(s.LogoutHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", authed(s.ListPlayersHandler()))
	s.Router.Handle("POST /players", admin(s.AddPlayerHandler()))
	s.Router.Handle("PUT /players/{id}", authed(s.UpdatePlayerHandler()))
	s.Router.Handle("DELETE /players/{id}", authed(s.DeletePlayerHandler()))
	s.Router.Handle("PUT /me", authed(s.UpdateProfileHandler()))
	s.Router.Handle("POST /me/password", authed(s.ChangePasswordHandler()))

	s.Router.Handle("GET /slots", authed(s.ListSlotsHandler()))
	s.Router.Handle("GET /bookings", authed(s.ListBookingsHandler()))
	s.Router.Handle("POST /bookings/enroll", authed(s.EnrollHandler()))
	s.Router.Handle("POST /bookings", admin(s.CreateBookingHandler()))
	s.Router.Handle("POST /bookings/{id}/partner", admin(s.AddPartnerHandler()))
	s.Router.Handle("POST /bookings/{id}/leave", authed(s.LeaveHandler()))
	s.Router.Handle("DELETE /bookings/{id}", authed(s.CancelBookingHandler()))

	s.Router.Handle("POST /matchmaking", authed(s.MatchmakingHandler()))

	s.Router.Handle("POST /pubsub/club-events", Chain(s.ClubEventHandler(), paramsMiddleware, s.requirePushToken))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
