package session

import (
	"fmt"
	"sync"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
)

// State is a step of the login flow.
type State string

const (
	StateAwaitingPhone    State = "awaiting_phone"
	StateAwaitingPassword State = "awaiting_password"
	StateAwaitingSetup    State = "awaiting_setup"
	StateAuthenticated    State = "authenticated"
)

// MinPasswordLength is the shortest password accepted at setup or change.
const MinPasswordLength = 4

var (
	ErrUnknownPhone      = fmt.Errorf("%w: unknown phone number", club.ErrAuth)
	ErrWrongPassword     = fmt.Errorf("%w: wrong password", club.ErrAuth)
	ErrNotAuthenticated  = fmt.Errorf("%w: not logged in", club.ErrAuth)
	ErrPasswordTooShort  = fmt.Errorf("%w: password must have at least %d characters", club.ErrValidation, MinPasswordLength)
	ErrInvalidTransition = fmt.Errorf("%w: action not available in the current login step", club.ErrValidation)
)

// Service holds the single login session of the kiosk.
type Service struct {
	roster   club.ClubStore
	kv       kv.Store
	metrics  metrics.Metrics
	hashCost int

	mu        sync.Mutex
	state     State
	pendingID string
	currentID string
}

// Snapshot is the externally visible view of the session.
type Snapshot struct {
	State  State        `json:"state"`
	Player *club.Player `json:"player,omitempty"`
}
