package club

import "context"

// ClubStore defines the interface for interacting with the club's roster and schedule.
type ClubStore interface {
	AddPlayer(ctx context.Context, draft PlayerDraft) (Player, error)
	UpdatePlayer(ctx context.Context, actor Actor, updated Player) (Player, error)
	DeletePlayer(ctx context.Context, id string, requestedBy Actor) error
	EnsureAdmin(ctx context.Context, name, phone string) (Player, error)
	SetPassword(ctx context.Context, playerID, hash string) error
	Players() []Player
	Player(id string) (Player, error)
	PlayerByPhone(phone string) (Player, error)
	HasBookings(playerID string) bool
	BookingsOf(playerID string) []Booking

	SelfEnroll(ctx context.Context, actor Actor, slot SlotTime) (Booking, error)
	CreateBooking(ctx context.Context, actor Actor, slot SlotTime, selectedIDs []string, mode Mode) (Booking, error)
	AddPartner(ctx context.Context, actor Actor, bookingID string, selectedIDs []string) (Booking, error)
	Leave(ctx context.Context, actor Actor, bookingID, playerID string, action LeaveAction) (*Booking, error)
	Cancel(ctx context.Context, actor Actor, bookingID string) error
	BusyPlayers(slot SlotTime, excludeBookingID string) []string
	AvailablePlayers(slot SlotTime, excludeBookingID string) []Player
	Bookings() []Booking
	Booking(id string) (Booking, error)
	BookingsForSlot(slot SlotTime) []Booking

	OnPlayerRemoved(listener RemovalListener)
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}
