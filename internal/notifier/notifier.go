package notifier

import (
	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
)

// Notifier defines a high-level interface for announcing club events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendMatchSuggestion announces a suggested 2v2 split.
	SendMatchSuggestion(suggestion *advisor.Suggestion, dryRun bool) error
	// SendSlotLineup posts who is enrolled in a slot, one entry per booking.
	SendSlotLineup(slot club.SlotTime, lineup [][]club.Player, dryRun bool) error
}
