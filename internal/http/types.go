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

type Server struct {
	Store          club.ClubStore
	Session        *session.Service
	Advisor        advisor.Advisor
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type stateResponse struct {
	State session.State `json:"state"`
}

// playerRequest carries the editable profile fields.
type playerRequest struct {
	Name   string     `json:"name"`
	Phone  string     `json:"phone"`
	Level  club.Level `json:"level"`
	Side   club.Side  `json:"side"`
	Avatar string     `json:"avatar,omitempty"`
	Role   club.Role  `json:"role,omitempty"`
}

type deletePlayerResponse struct {
	Deleted           bool `json:"deleted"`
	AffectedBookings  int  `json:"affectedBookings"`
	CancelledBookings int  `json:"cancelledBookings"`
}

type slotView struct {
	SlotTime  club.SlotTime `json:"slotTime"`
	Bookings  []bookingView `json:"bookings"`
	Available []club.Player `json:"available,omitempty"`
}

// bookingView carries the controls the logged-in player gets for a booking.
type bookingView struct {
	club.Booking
	CanCancel bool     `json:"canCancel"`
	Removable []string `json:"removable"`
}

type enrollRequest struct {
	SlotTime club.SlotTime `json:"slotTime"`
}

type createBookingRequest struct {
	SlotTime  club.SlotTime `json:"slotTime"`
	PlayerIDs []string      `json:"playerIds"`
	Mode      club.Mode     `json:"mode"`
}

type partnerRequest struct {
	PlayerIDs []string `json:"playerIds"`
}

type leaveRequest struct {
	PlayerID string           `json:"playerId"`
	Action   club.LeaveAction `json:"action"`
}

type leaveResponse struct {
	Booking *club.Booking `json:"booking"`
}

// pushMessage is the envelope of a Pub/Sub push delivery.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}

// matchPlayer is what a non-admin sees of the players in a suggestion.
type matchPlayer struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Level      club.Level `json:"level"`
	LevelLabel string     `json:"levelLabel"`
	Side       club.Side  `json:"side"`
}

type suggestionResponse struct {
	Team1        []matchPlayer `json:"team1"`
	Team2        []matchPlayer `json:"team2"`
	Reasoning    string        `json:"reasoning"`
	BalanceScore float64       `json:"balanceScore"`
}
