package advisor

import (
	"context"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
)

// Generator turns a prompt into the raw JSON text of a team split.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor suggests a balanced 2v2 split of the given players.
type Advisor interface {
	Suggest(ctx context.Context, players []club.Player) (*Suggestion, error)
}
