package club

import (
	"context"
	"sync"
	"time"

	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
)

// Store owns the roster and the day's bookings. All mutations go through it.
type Store struct {
	kv        kv.Store
	metrics   metrics.Metrics
	publisher pubsub.PubSubClient
	now       func() time.Time

	mu       sync.RWMutex
	players  []Player
	bookings []Booking
	closed   bool
	outbox   []pubsub.ClubEvent

	listenersMu sync.Mutex
	listeners   []RemovalListener
}

// RemovalListener is called after a player has been deleted and persisted.
type RemovalListener func(ctx context.Context, playerID string)

// State is the full persisted state of the club.
type State struct {
	Players  []Player
	Bookings []Booking
}

// Level is a skill tier, 1 being the strongest.
type Level int

const (
	LevelElite             Level = 1
	LevelAdvanced          Level = 2
	LevelUpperIntermediate Level = 3
	LevelIntermediate      Level = 4
	LevelLowerIntermediate Level = 5
	LevelBeginner          Level = 6
)

var levelLabels = map[Level]string{
	LevelElite:             "Elite",
	LevelAdvanced:          "Advanced",
	LevelUpperIntermediate: "Upper intermediate",
	LevelIntermediate:      "Intermediate",
	LevelLowerIntermediate: "Lower intermediate",
	LevelBeginner:          "Beginner",
}

func (l Level) Valid() bool {
	return l >= LevelElite && l <= LevelBeginner
}

// Label returns the display name of the tier.
func (l Level) Label() string {
	return levelLabels[l]
}

// Side is the court side a player prefers.
type Side string

const (
	SideForehand Side = "forehand"
	SideBackhand Side = "backhand"
	SideBoth     Side = "both"
)

func (s Side) Valid() bool {
	return s == SideForehand || s == SideBackhand || s == SideBoth
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePlayer
}

// SlotTime identifies one of the fixed court slots of the day.
type SlotTime string

const (
	SlotEarly SlotTime = "08:00-09:30"
	SlotMid   SlotTime = "09:30-11:00"
	SlotLate  SlotTime = "11:00-13:00"
)

// Slots lists the bookable slots in chronological order.
var Slots = []SlotTime{SlotEarly, SlotMid, SlotLate}

func (s SlotTime) Valid() bool {
	for _, slot := range Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Player is a club member.
type Player struct {
	ID            string `json:"id" msgpack:"id"`
	Name          string `json:"name" msgpack:"name"`
	Phone         string `json:"phone" msgpack:"phone"`
	Level         Level  `json:"level" msgpack:"level"`
	Side          Side   `json:"side" msgpack:"side"`
	MatchesPlayed int    `json:"matchesPlayed" msgpack:"matches_played"`
	Avatar        string `json:"avatar,omitempty" msgpack:"avatar,omitempty"`
	Role          Role   `json:"role" msgpack:"role"`
	PasswordHash  string `json:"-" msgpack:"password_hash,omitempty"`
}

// HasPassword reports whether the player has completed first-login setup.
func (p Player) HasPassword() bool {
	return p.PasswordHash != ""
}

// Actor returns the identity used for permission checks.
func (p Player) Actor() Actor {
	return Actor{ID: p.ID, Role: p.Role}
}

// PlayerDraft holds the fields supplied when registering a player.
type PlayerDraft struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Level  Level  `json:"level"`
	Side   Side   `json:"side"`
	Avatar string `json:"avatar,omitempty"`
}

// Booking is an enrollment of one or two players in a slot.
type Booking struct {
	ID        string   `json:"id" msgpack:"id"`
	SlotTime  SlotTime `json:"slotTime" msgpack:"slot_time"`
	PlayerIDs []string `json:"playerIds" msgpack:"player_ids"`
}

// Has reports whether playerID is a member of the booking.
func (b Booking) Has(playerID string) bool {
	for _, id := range b.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Mode selects how many players an admin-created booking may hold.
type Mode string

const (
	ModeSolo    Mode = "solo"
	ModeDoubles Mode = "doubles"
)

// LeaveAction decides what happens to a doubles booking when a member leaves.
type LeaveAction string

const (
	LeaveDropMember    LeaveAction = "drop_member"
	LeaveCancelBooking LeaveAction = "cancel_booking"
)

// Actor is the identity on whose behalf an operation runs.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
