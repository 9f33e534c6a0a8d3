package advisor

import (
	"errors"
	"time"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
)

// MinPlayers is the smallest roster a 2v2 suggestion can be made for.
const MinPlayers = 4

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 30 * time.Second

var (
	ErrAdvisor          = errors.New("matchmaking advisor failed")
	ErrNotEnoughPlayers = errors.New("at least 4 players are needed for a suggestion")
)

// Suggestion is display data only. Nothing in the club is changed by it.
type Suggestion struct {
	Team1        []club.Player `json:"team1"`
	Team2        []club.Player `json:"team2"`
	Reasoning    string        `json:"reasoning"`
	BalanceScore float64       `json:"balanceScore"`
}

// Service calls the generator once per suggestion, without retries.
type Service struct {
	generator Generator
	metrics   metrics.Metrics
	timeout   time.Duration
}

// promptPlayer is the projection of a player sent to the model.
type promptPlayer struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Level         club.Level `json:"level"`
	LevelLabel    string     `json:"levelLabel"`
	Side          club.Side  `json:"side"`
	MatchesPlayed int        `json:"matchesPlayed"`
}

// payload is the JSON shape the model must answer with.
// Pointers tell a missing field from an empty one.
type payload struct {
	Team1IDs     *[]string `json:"team1Ids"`
	Team2IDs     *[]string `json:"team2Ids"`
	Reasoning    *string   `json:"reasoning"`
	BalanceScore *float64  `json:"balanceScore"`
}
