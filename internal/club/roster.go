package club

import (
	"context"
	"fmt"
	"strings"

	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// AddPlayer registers a new player with the player role and no password.
func (s *Store) AddPlayer(ctx context.Context, draft PlayerDraft) (Player, error) {
	p := Player{
		Name:   strings.TrimSpace(draft.Name),
		Phone:  strings.TrimSpace(draft.Phone),
		Level:  draft.Level,
		Side:   draft.Side,
		Avatar: draft.Avatar,
		Role:   RolePlayer,
	}
	if err := normalizePlayer(&p); err != nil {
		return Player{}, err
	}

	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return Player{}, ErrClosed
	}
	if s.findPhone(p.Phone) >= 0 {
		return Player{}, fmt.Errorf("%w: %s", ErrDuplicatePhone, p.Phone)
	}

	p.ID = uuid.NewString()
	next := append(copyPlayers(s.players), p)
	if err := s.savePlayers(ctx, next); err != nil {
		return Player{}, err
	}
	s.players = next

	s.metrics.IncPlayersRegistered()
	s.publish(pubsub.ClubEvent{Type: pubsub.EventPlayerRegistered, PlayerID: p.ID})
	log.Info("Registered player", "id", p.ID, "name", p.Name, "level", p.Level)
	return p, nil
}

// UpdatePlayer replaces the profile fields of an existing player.
// The password hash and match count are kept from the stored record.
func (s *Store) UpdatePlayer(ctx context.Context, actor Actor, updated Player) (Player, error) {
	updated.Name = strings.TrimSpace(updated.Name)
	updated.Phone = strings.TrimSpace(updated.Phone)

	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return Player{}, ErrClosed
	}
	idx := s.findPlayer(updated.ID)
	if idx < 0 {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, updated.ID)
	}
	if !actor.IsAdmin() && actor.ID != updated.ID {
		return Player{}, ErrForbidden
	}

	current := s.players[idx]
	if updated.Role == "" {
		updated.Role = current.Role
	}
	if updated.Role != current.Role && !actor.IsAdmin() {
		return Player{}, fmt.Errorf("%w: only an admin can change roles", ErrForbidden)
	}
	if err := normalizePlayer(&updated); err != nil {
		return Player{}, err
	}
	if other := s.findPhone(updated.Phone); other >= 0 && other != idx {
		return Player{}, fmt.Errorf("%w: %s", ErrDuplicatePhone, updated.Phone)
	}

	updated.PasswordHash = current.PasswordHash
	updated.MatchesPlayed = current.MatchesPlayed
	next := copyPlayers(s.players)
	next[idx] = updated
	if err := s.savePlayers(ctx, next); err != nil {
		return Player{}, err
	}
	s.players = next

	log.Info("Updated player", "id", updated.ID, "by", actor.ID)
	return updated, nil
}

// DeletePlayer removes a player and drops them from every booking.
// Bookings left without members are deleted. Deleting an unknown id is a no-op.
func (s *Store) DeletePlayer(ctx context.Context, id string, requestedBy Actor) error {
	if !requestedBy.IsAdmin() && requestedBy.ID != id {
		return ErrForbidden
	}

	s.mu.Lock()
	if s.closed {
		s.unlock()
		return ErrClosed
	}
	idx := s.findPlayer(id)
	if idx < 0 {
		s.unlock()
		log.Debug("Delete of unknown player ignored", "id", id)
		return nil
	}

	nextPlayers := make([]Player, 0, len(s.players)-1)
	nextPlayers = append(nextPlayers, s.players[:idx]...)
	nextPlayers = append(nextPlayers, s.players[idx+1:]...)

	var events []pubsub.ClubEvent
	nextBookings := make([]Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if !b.Has(id) {
			nextBookings = append(nextBookings, copyBooking(b))
			continue
		}
		remaining := without(b.PlayerIDs, id)
		if len(remaining) == 0 {
			events = append(events, pubsub.ClubEvent{Type: pubsub.EventBookingCancelled, BookingID: b.ID, SlotTime: string(b.SlotTime)})
			continue
		}
		b.PlayerIDs = remaining
		nextBookings = append(nextBookings, b)
		events = append(events, pubsub.ClubEvent{Type: pubsub.EventBookingUpdated, BookingID: b.ID, SlotTime: string(b.SlotTime), PlayerIDs: remaining})
	}

	if len(events) > 0 {
		if err := s.saveBookings(ctx, nextBookings); err != nil {
			s.unlock()
			return err
		}
	}
	if err := s.savePlayers(ctx, nextPlayers); err != nil {
		s.unlock()
		return err
	}
	s.players = nextPlayers
	s.bookings = nextBookings

	s.metrics.IncPlayersRemoved()
	for _, e := range events {
		if e.Type == pubsub.EventBookingCancelled {
			s.metrics.IncBookingsCancelled()
		}
		s.publish(e)
	}
	s.publish(pubsub.ClubEvent{Type: pubsub.EventPlayerRemoved, PlayerID: id})
	s.unlock()

	log.Info("Removed player", "id", id, "by", requestedBy.ID, "affectedBookings", len(events))
	s.notifyRemoved(ctx, id)
	return nil
}

// EnsureAdmin makes sure the player registered with phone is an admin,
// creating a password-less admin when nobody uses that phone yet.
func (s *Store) EnsureAdmin(ctx context.Context, name, phone string) (Player, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return Player{}, ErrBlankField
	}

	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return Player{}, ErrClosed
	}

	if idx := s.findPhone(phone); idx >= 0 {
		existing := s.players[idx]
		if existing.Role == RoleAdmin {
			return existing, nil
		}
		existing.Role = RoleAdmin
		next := copyPlayers(s.players)
		next[idx] = existing
		if err := s.savePlayers(ctx, next); err != nil {
			return Player{}, err
		}
		s.players = next
		log.Info("Promoted player to admin", "id", existing.ID)
		return existing, nil
	}

	admin := Player{
		ID:    uuid.NewString(),
		Name:  name,
		Phone: phone,
		Level: LevelBeginner,
		Side:  SideBoth,
		Role:  RoleAdmin,
	}
	next := append(copyPlayers(s.players), admin)
	if err := s.savePlayers(ctx, next); err != nil {
		return Player{}, err
	}
	s.players = next

	s.metrics.IncPlayersRegistered()
	s.publish(pubsub.ClubEvent{Type: pubsub.EventPlayerRegistered, PlayerID: admin.ID})
	log.Info("Seeded admin", "id", admin.ID, "name", admin.Name)
	return admin, nil
}

// SetPassword stores a new password hash for the player.
func (s *Store) SetPassword(ctx context.Context, playerID, hash string) error {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return ErrClosed
	}
	idx := s.findPlayer(playerID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	next := copyPlayers(s.players)
	next[idx].PasswordHash = hash
	if err := s.savePlayers(ctx, next); err != nil {
		return err
	}
	s.players = next
	log.Debug("Password updated", "id", playerID)
	return nil
}

// Players returns a copy of the roster in registration order.
func (s *Store) Players() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPlayers(s.players)
}

func (s *Store) Player(id string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.findPlayer(id)
	if idx < 0 {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return s.players[idx], nil
}

func (s *Store) PlayerByPhone(phone string) (Player, error) {
	phone = strings.TrimSpace(phone)
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.findPhone(phone)
	if idx < 0 {
		return Player{}, fmt.Errorf("%w: phone %s", ErrPlayerNotFound, phone)
	}
	return s.players[idx], nil
}

// HasBookings reports whether the player is enrolled in any slot.
func (s *Store) HasBookings(playerID string) bool {
	return len(s.BookingsOf(playerID)) > 0
}

// BookingsOf returns the bookings that include playerID.
func (s *Store) BookingsOf(playerID string) []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Booking
	for _, b := range s.bookings {
		if b.Has(playerID) {
			out = append(out, copyBooking(b))
		}
	}
	return out
}

// normalizePlayer applies defaults and checks the required and enumerated fields.
func normalizePlayer(p *Player) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name", ErrBlankField)
	}
	if p.Phone == "" {
		return fmt.Errorf("%w: phone", ErrBlankField)
	}
	if p.Level == 0 {
		p.Level = LevelBeginner
	}
	if !p.Level.Valid() {
		return fmt.Errorf("%w: level %d", ErrInvalidField, p.Level)
	}
	if p.Side == "" {
		p.Side = SideBoth
	}
	if !p.Side.Valid() {
		return fmt.Errorf("%w: side %q", ErrInvalidField, p.Side)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidField, p.Role)
	}
	return nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
