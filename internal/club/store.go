package club

import (
	"context"
	"fmt"
	"time"

	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/charmbracelet/log"
)

var _ ClubStore = (*Store)(nil)

// Load reads the roster and bookings snapshots. Missing keys yield empty collections.
func Load(ctx context.Context, store kv.Store) (State, error) {
	state := State{Players: []Player{}, Bookings: []Booking{}}
	if _, err := kv.Load(ctx, store, kv.KeyPlayers, &state.Players); err != nil {
		return State{}, fmt.Errorf("failed to load players: %w", err)
	}
	if _, err := kv.Load(ctx, store, kv.KeyBookings, &state.Bookings); err != nil {
		return State{}, fmt.Errorf("failed to load bookings: %w", err)
	}
	if state.Players == nil {
		state.Players = []Player{}
	}
	if state.Bookings == nil {
		state.Bookings = []Booking{}
	}
	log.Debug("Loaded club state", "players", len(state.Players), "bookings", len(state.Bookings))
	return state, nil
}

// New creates a store seeded with the given state.
func New(store kv.Store, state State, metrics metrics.Metrics, publisher pubsub.PubSubClient) *Store {
	return &Store{
		kv:        store,
		metrics:   metrics,
		publisher: publisher,
		now:       time.Now,
		players:   copyPlayers(state.Players),
		bookings:  copyBookings(state.Bookings),
	}
}

// OnPlayerRemoved registers a listener invoked after every successful player deletion.
func (s *Store) OnPlayerRemoved(listener RemovalListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Flush writes both snapshots.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.savePlayers(ctx, s.players); err != nil {
		return err
	}
	return s.saveBookings(ctx, s.bookings)
}

// Close flushes the state and rejects any further mutation.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.savePlayers(ctx, s.players); err != nil {
		return err
	}
	if err := s.saveBookings(ctx, s.bookings); err != nil {
		return err
	}
	log.Info("Club store closed", "players", len(s.players), "bookings", len(s.bookings))
	return nil
}

func (s *Store) savePlayers(ctx context.Context, players []Player) error {
	if err := kv.Save(ctx, s.kv, kv.KeyPlayers, players); err != nil {
		return fmt.Errorf("failed to persist players: %w", err)
	}
	return nil
}

func (s *Store) saveBookings(ctx context.Context, bookings []Booking) error {
	if err := kv.Save(ctx, s.kv, kv.KeyBookings, bookings); err != nil {
		return fmt.Errorf("failed to persist bookings: %w", err)
	}
	return nil
}

// publish queues a club event. It must be called with the write lock held;
// the event is sent by unlock.
func (s *Store) publish(event pubsub.ClubEvent) {
	event.At = s.now().Unix()
	s.outbox = append(s.outbox, event)
}

// unlock releases the write lock, then sends the events queued while it was held.
// Failures are logged, the changes are already persisted.
func (s *Store) unlock() {
	events := s.outbox
	s.outbox = nil
	s.mu.Unlock()
	for _, event := range events {
		if err := s.publisher.SendMessage(event.Type, event); err != nil {
			log.Warn("Failed to publish club event", "type", event.Type, "error", err)
		}
	}
}

func (s *Store) notifyRemoved(ctx context.Context, playerID string) {
	s.listenersMu.Lock()
	listeners := append([]RemovalListener(nil), s.listeners...)
	s.listenersMu.Unlock()
	for _, l := range listeners {
		l(ctx, playerID)
	}
}

func (s *Store) findPlayer(id string) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findPhone(phone string) int {
	for i, p := range s.players {
		if p.Phone == phone {
			return i
		}
	}
	return -1
}

func (s *Store) findBooking(id string) int {
	for i, b := range s.bookings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func copyPlayers(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	return out
}

func copyBooking(b Booking) Booking {
	b.PlayerIDs = append([]string(nil), b.PlayerIDs...)
	return b
}

func copyBookings(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, copyBooking(b))
	}
	return out
}
