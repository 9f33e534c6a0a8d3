package session

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
)

// New creates the session service, restoring a persisted login when the
// player still exists, and subscribes to player removals.
func New(ctx context.Context, roster club.ClubStore, store kv.Store, metrics metrics.Metrics) (*Service, error) {
	s := &Service{
		roster:   roster,
		kv:       store,
		metrics:  metrics,
		hashCost: bcrypt.DefaultCost,
		state:    StateAwaitingPhone,
	}

	var loggedID string
	found, err := kv.Load(ctx, store, kv.KeyLoggedPlayer, &loggedID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if found {
		if p, err := roster.Player(loggedID); err == nil {
			s.state = StateAuthenticated
			s.currentID = p.ID
			log.Info("Restored session", "player", p.ID)
		} else {
			log.Warn("Persisted session refers to a removed player", "player", loggedID)
			if err := store.Remove(ctx, kv.KeyLoggedPlayer); err != nil {
				return nil, fmt.Errorf("failed to clear stale session: %w", err)
			}
		}
	}

	roster.OnPlayerRemoved(s.playerRemoved)
	return s, nil
}

// SubmitPhone identifies the player and moves to the password or setup step.
func (s *Service) SubmitPhone(ctx context.Context, phone string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingPhone {
		return s.state, ErrInvalidTransition
	}

	p, err := s.roster.PlayerByPhone(phone)
	if err != nil {
		if errors.Is(err, club.ErrPlayerNotFound) {
			s.metrics.IncLoginFailures()
			log.Info("Login attempt with unknown phone")
			return s.state, ErrUnknownPhone
		}
		return s.state, err
	}

	s.pendingID = p.ID
	if p.HasPassword() {
		s.state = StateAwaitingPassword
	} else {
		s.state = StateAwaitingSetup
	}
	log.Debug("Phone accepted", "player", p.ID, "next", s.state)
	return s.state, nil
}

// SubmitPassword checks the password of the player identified by phone.
func (s *Service) SubmitPassword(ctx context.Context, password string) (club.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingPassword {
		return club.Player{}, ErrInvalidTransition
	}

	p, err := s.roster.Player(s.pendingID)
	if err != nil {
		s.reset()
		return club.Player{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.metrics.IncLoginFailures()
		log.Info("Wrong password", "player", p.ID)
		return club.Player{}, ErrWrongPassword
	}

	if err := s.authenticate(ctx, p.ID); err != nil {
		return club.Player{}, err
	}
	return p, nil
}

// SubmitSetup sets the first password of the player and logs them in.
func (s *Service) SubmitSetup(ctx context.Context, newPassword string) (club.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingSetup {
		return club.Player{}, ErrInvalidTransition
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return club.Player{}, err
	}
	if err := s.roster.SetPassword(ctx, s.pendingID, hash); err != nil {
		return club.Player{}, err
	}
	if err := s.authenticate(ctx, s.pendingID); err != nil {
		return club.Player{}, err
	}
	p, err := s.roster.Player(s.currentID)
	if err != nil {
		return club.Player{}, err
	}
	log.Info("Password set on first login", "player", p.ID)
	return p, nil
}

// ChangePassword replaces the password of the logged-in player.
func (s *Service) ChangePassword(ctx context.Context, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return ErrNotAuthenticated
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.roster.SetPassword(ctx, s.currentID, hash); err != nil {
		return err
	}
	log.Info("Password changed", "player", s.currentID)
	return nil
}

// Logout returns to the phone step from any state.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.currentID
	s.reset()
	if err := s.kv.Remove(ctx, kv.KeyLoggedPlayer); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if previous != "" {
		log.Info("Logged out", "player", previous)
	}
	return nil
}

// State returns the current login step.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the logged-in player as currently stored in the roster.
func (s *Service) Current() (club.Player, error) {
	s.mu.Lock()
	id, state := s.currentID, s.state
	s.mu.Unlock()
	if state != StateAuthenticated {
		return club.Player{}, ErrNotAuthenticated
	}
	p, err := s.roster.Player(id)
	if err != nil {
		return club.Player{}, ErrNotAuthenticated
	}
	return p, nil
}

// Actor returns the identity used for permission checks.
func (s *Service) Actor() (club.Actor, error) {
	p, err := s.Current()
	if err != nil {
		return club.Actor{}, err
	}
	return p.Actor(), nil
}

func (s *Service) Snapshot() Snapshot {
	p, err := s.Current()
	if err != nil {
		return Snapshot{State: s.State()}
	}
	return Snapshot{State: StateAuthenticated, Player: &p}
}

func (s *Service) authenticate(ctx context.Context, playerID string) error {
	if err := kv.Save(ctx, s.kv, kv.KeyLoggedPlayer, playerID); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.state = StateAuthenticated
	s.currentID = playerID
	s.pendingID = ""
	log.Info("Logged in", "player", playerID)
	return nil
}

func (s *Service) hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", club.ErrValidation, err)
	}
	return string(hash), nil
}

// reset must be called with mu held.
func (s *Service) reset() {
	s.state = StateAwaitingPhone
	s.pendingID = ""
	s.currentID = ""
}

func (s *Service) playerRemoved(ctx context.Context, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID != playerID && s.pendingID != playerID {
		return
	}
	s.reset()
	if err := s.kv.Remove(ctx, kv.KeyLoggedPlayer); err != nil {
		log.Error("Failed to clear session of removed player", "player", playerID, "error", err)
		return
	}
	log.Info("Session ended because the player was removed", "player", playerID)
}
