package club

import (
	"context"
	"fmt"

	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// SelfEnroll creates a solo booking for the actor in slot.
func (s *Store) SelfEnroll(ctx context.Context, actor Actor, slot SlotTime) (Booking, error) {
	if !slot.Valid() {
		return Booking{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}

	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return Booking{}, ErrClosed
	}
	if s.findPlayer(actor.ID) < 0 {
		return Booking{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, actor.ID)
	}
	if s.isBusy(slot, "", actor.ID) {
		return Booking{}, ErrAlreadyEnrolled
	}
	return s.insertBooking(ctx, slot, []string{actor.ID}, actor)
}

// CreateBooking lets an admin enroll one player (solo) or up to two (doubles).
func (s *Store) CreateBooking(ctx context.Context, actor Actor, slot SlotTime, selectedIDs []string, mode Mode) (Booking, error) {
	if !actor.IsAdmin() {
		return Booking{}, ErrForbidden
	}
	if !slot.Valid() {
		return Booking{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	switch mode {
	case ModeSolo:
		if len(selectedIDs) != 1 {
			return Booking{}, fmt.Errorf("%w: solo takes exactly one player", ErrInvalidSelection)
		}
	case ModeDoubles:
		if len(selectedIDs) == 0 || len(selectedIDs) > 2 {
			return Booking{}, fmt.Errorf("%w: doubles takes one or two players", ErrInvalidSelection)
		}
	default:
		return Booking{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidSelection, mode)
	}
	if hasDuplicates(selectedIDs) {
		return Booking{}, fmt.Errorf("%w: repeated player", ErrInvalidSelection)
	}

	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return Booking{}, ErrClosed
	}
	if err := s.checkSelectable(slot, "", selectedIDs); err != nil {
		return Booking{}, err
	}
	return s.insertBooking(ctx, slot, selectedIDs, actor)
}

// AddPartner turns a solo booking into a doubles booking with the selected pair.
// The booking keeps its id.
func (s *Store) AddPartner(ctx context.Context, actor Actor, bookingID string, selectedIDs []string) (Booking, error) {
	if !actor.IsAdmin() {
		return Booking{}, ErrForbidden
	}
	if len(selectedIDs) != 2 || hasDuplicates(selectedIDs) {
		return Booking{}, fmt.Errorf("%w: a pair needs two different players", ErrInvalidSelection)
	}

	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return Booking{}, ErrClosed
	}
	idx := s.findBooking(bookingID)
	if idx < 0 {
		return Booking{}, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	target := copyBooking(s.bookings[idx])
	if len(target.PlayerIDs) != 1 {
		return Booking{}, fmt.Errorf("%w: booking already has a partner", ErrInvalidSelection)
	}
	if err := s.checkSelectable(target.SlotTime, target.ID, selectedIDs); err != nil {
		return Booking{}, err
	}

	target.PlayerIDs = append([]string(nil), selectedIDs...)
	next := copyBookings(s.bookings)
	next[idx] = target
	if err := s.saveBookings(ctx, next); err != nil {
		return Booking{}, err
	}
	s.bookings = next

	s.publish(pubsub.ClubEvent{Type: pubsub.EventBookingUpdated, BookingID: target.ID, SlotTime: string(target.SlotTime), PlayerIDs: target.PlayerIDs})
	log.Info("Added partner to booking", "id", target.ID, "slot", target.SlotTime, "players", target.PlayerIDs)
	return copyBooking(target), nil
}

// Leave removes playerID from a booking. A doubles booking either keeps the
// remaining member or is cancelled, depending on action. A solo booking is
// always cancelled. The surviving booking is returned, or nil.
func (s *Store) Leave(ctx context.Context, actor Actor, bookingID, playerID string, action LeaveAction) (*Booking, error) {
	if !actor.IsAdmin() && actor.ID != playerID {
		return nil, ErrForbidden
	}

	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return nil, ErrClosed
	}
	idx := s.findBooking(bookingID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	target := copyBooking(s.bookings[idx])
	if !target.Has(playerID) {
		return nil, ErrNotAMember
	}

	if len(target.PlayerIDs) == 1 {
		return nil, s.removeBooking(ctx, idx, actor)
	}
	switch action {
	case LeaveCancelBooking:
		return nil, s.removeBooking(ctx, idx, actor)
	case LeaveDropMember:
	default:
		return nil, fmt.Errorf("%w: unknown leave action %q", ErrInvalidSelection, action)
	}

	target.PlayerIDs = without(target.PlayerIDs, playerID)
	next := copyBookings(s.bookings)
	next[idx] = target
	if err := s.saveBookings(ctx, next); err != nil {
		return nil, err
	}
	s.bookings = next

	s.publish(pubsub.ClubEvent{Type: pubsub.EventBookingUpdated, BookingID: target.ID, SlotTime: string(target.SlotTime), PlayerIDs: target.PlayerIDs})
	log.Info("Player left booking", "id", target.ID, "player", playerID, "by", actor.ID)
	survivor := copyBooking(target)
	return &survivor, nil
}

// Cancel deletes a booking. Allowed for admins and for members of the booking.
func (s *Store) Cancel(ctx context.Context, actor Actor, bookingID string) error {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return ErrClosed
	}
	idx := s.findBooking(bookingID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	if !actor.IsAdmin() && !s.bookings[idx].Has(actor.ID) {
		return ErrForbidden
	}
	return s.removeBooking(ctx, idx, actor)
}

// BusyPlayers returns the ids enrolled in slot, ignoring excludeBookingID.
func (s *Store) BusyPlayers(slot SlotTime, excludeBookingID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy(slot, excludeBookingID)
}

// AvailablePlayers returns the roster minus the players busy in slot.
func (s *Store) AvailablePlayers(slot SlotTime, excludeBookingID string) []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	busy := make(map[string]struct{})
	for _, id := range s.busy(slot, excludeBookingID) {
		busy[id] = struct{}{}
	}
	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		if _, ok := busy[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Bookings returns a copy of every booking of the day.
func (s *Store) Bookings() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBookings(s.bookings)
}

func (s *Store) Booking(id string) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.findBooking(id)
	if idx < 0 {
		return Booking{}, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	return copyBooking(s.bookings[idx]), nil
}

func (s *Store) BookingsForSlot(slot SlotTime) []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Booking
	for _, b := range s.bookings {
		if b.SlotTime == slot {
			out = append(out, copyBooking(b))
		}
	}
	return out
}

// insertBooking must be called with the write lock held.
func (s *Store) insertBooking(ctx context.Context, slot SlotTime, ids []string, actor Actor) (Booking, error) {
	b := Booking{
		ID:        uuid.NewString(),
		SlotTime:  slot,
		PlayerIDs: append([]string(nil), ids...),
	}
	next := append(copyBookings(s.bookings), b)
	if err := s.saveBookings(ctx, next); err != nil {
		return Booking{}, err
	}
	s.bookings = next

	s.metrics.IncBookingsCreated()
	s.publish(pubsub.ClubEvent{Type: pubsub.EventBookingCreated, BookingID: b.ID, SlotTime: string(slot), PlayerIDs: b.PlayerIDs})
	log.Info("Created booking", "id", b.ID, "slot", slot, "players", b.PlayerIDs, "by", actor.ID)
	return copyBooking(b), nil
}

// removeBooking must be called with the write lock held.
func (s *Store) removeBooking(ctx context.Context, idx int, actor Actor) error {
	removed := s.bookings[idx]
	next := make([]Booking, 0, len(s.bookings)-1)
	next = append(next, copyBookings(s.bookings[:idx])...)
	next = append(next, copyBookings(s.bookings[idx+1:])...)
	if err := s.saveBookings(ctx, next); err != nil {
		return err
	}
	s.bookings = next

	s.metrics.IncBookingsCancelled()
	s.publish(pubsub.ClubEvent{Type: pubsub.EventBookingCancelled, BookingID: removed.ID, SlotTime: string(removed.SlotTime)})
	log.Info("Cancelled booking", "id", removed.ID, "slot", removed.SlotTime, "by", actor.ID)
	return nil
}

// checkSelectable verifies that every id is a live player free in slot.
func (s *Store) checkSelectable(slot SlotTime, excludeBookingID string, ids []string) error {
	for _, id := range ids {
		if s.findPlayer(id) < 0 {
			return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		if s.isBusy(slot, excludeBookingID, id) {
			return fmt.Errorf("%w: %s", ErrAlreadyEnrolled, id)
		}
	}
	return nil
}

func (s *Store) busy(slot SlotTime, excludeBookingID string) []string {
	ids := []string{}
	for _, b := range s.bookings {
		if b.SlotTime != slot || b.ID == excludeBookingID {
			continue
		}
		ids = append(ids, b.PlayerIDs...)
	}
	return ids
}

func (s *Store) isBusy(slot SlotTime, excludeBookingID, playerID string) bool {
	for _, id := range s.busy(slot, excludeBookingID) {
		if id == playerID {
			return true
		}
	}
	return false
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
