package kv

import "errors"

// Logical buckets.
const (
	KeyPlayers      = "players"
	KeyBookings     = "bookings"
	KeyLoggedPlayer = "logged_player"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")
