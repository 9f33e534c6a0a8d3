package notifier

import (
	"sync"

	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchSuggestionFunc func(suggestion *advisor.Suggestion, dryRun bool) error
	SendSlotLineupFunc      func(slot club.SlotTime, lineup [][]club.Player, dryRun bool) error

	// Call records
	SendMatchSuggestionCalls []SendMatchSuggestionCall
	SendSlotLineupCalls      []SendSlotLineupCall
}

type SendMatchSuggestionCall struct {
	Suggestion *advisor.Suggestion
	DryRun     bool
}

type SendSlotLineupCall struct {
	Slot   club.SlotTime
	Lineup [][]club.Player
	DryRun bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSuggestionCalls = nil
	m.SendSlotLineupCalls = nil
}

func (m *Mock) SendMatchSuggestion(suggestion *advisor.Suggestion, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSuggestionCalls = append(m.SendMatchSuggestionCalls, SendMatchSuggestionCall{Suggestion: suggestion, DryRun: dryRun})
	if m.SendMatchSuggestionFunc != nil {
		return m.SendMatchSuggestionFunc(suggestion, dryRun)
	}
	return nil
}

func (m *Mock) SendSlotLineup(slot club.SlotTime, lineup [][]club.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSlotLineupCalls = append(m.SendSlotLineupCalls, SendSlotLineupCall{Slot: slot, Lineup: lineup, DryRun: dryRun})
	if m.SendSlotLineupFunc != nil {
		return m.SendSlotLineupFunc(slot, lineup, dryRun)
	}
	return nil
}
