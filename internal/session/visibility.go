package session

import "github.com/JocaCola1972/LevelUP-Connect/internal/club"

// VisibleRosterFor returns the players the actor may see: everyone for an
// admin, only their own record otherwise.
func VisibleRosterFor(actor club.Actor, players []club.Player) []club.Player {
	if actor.IsAdmin() {
		return players
	}
	out := make([]club.Player, 0, 1)
	for _, p := range players {
		if p.ID == actor.ID {
			out = append(out, p)
		}
	}
	return out
}

// VisibleBookingsFor returns every booking for an admin and the bookings that
// include the actor otherwise. Co-members stay listed.
func VisibleBookingsFor(actor club.Actor, bookings []club.Booking) []club.Booking {
	if actor.IsAdmin() {
		return bookings
	}
	out := make([]club.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Has(actor.ID) {
			out = append(out, b)
		}
	}
	return out
}

// CanManageMember reports whether the actor may remove memberID from the booking.
func CanManageMember(actor club.Actor, booking club.Booking, memberID string) bool {
	if !booking.Has(memberID) {
		return false
	}
	return actor.IsAdmin() || actor.ID == memberID
}

func CanCancel(actor club.Actor, booking club.Booking) bool {
	return actor.IsAdmin() || booking.Has(actor.ID)
}
