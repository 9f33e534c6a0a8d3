package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// logClient encodes events like the real client but only logs them.
// Used when no GCP project is configured.
type logClient struct{}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventPlayerRegistered EventType = "player-registered"
	EventPlayerRemoved    EventType = "player-removed"
	EventBookingCreated   EventType = "booking-created"
	EventBookingUpdated   EventType = "booking-updated"
	EventBookingCancelled EventType = "booking-cancelled"
)

// ClubEvent is the payload published for every roster or schedule change.
type ClubEvent struct {
	Type      EventType `msgpack:"type" json:"type"`
	PlayerID  string    `msgpack:"player_id,omitempty" json:"playerId,omitempty"`
	BookingID string    `msgpack:"booking_id,omitempty" json:"bookingId,omitempty"`
	SlotTime  string    `msgpack:"slot_time,omitempty" json:"slotTime,omitempty"`
	PlayerIDs []string  `msgpack:"player_ids,omitempty" json:"playerIds,omitempty"`
	At        int64     `msgpack:"at" json:"at"`
}
