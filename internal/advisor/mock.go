package advisor

import (
	"context"
	"sync"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
)

// MockGenerator is a mock implementation of Generator for testing.
// It is safe for concurrent use.
type MockGenerator struct {
	mu sync.Mutex

	GenerateFunc  func(ctx context.Context, prompt string) (string, error)
	GenerateCalls []string
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, prompt)
	fn := m.GenerateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, prompt)
	}
	return `{"team1Ids":[],"team2Ids":[],"reasoning":"","balanceScore":0}`, nil
}

// Calls returns the number of Generate invocations.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// Mock is a mock implementation of Advisor.
type Mock struct {
	mu sync.Mutex

	SuggestFunc  func(ctx context.Context, players []club.Player) (*Suggestion, error)
	SuggestCalls [][]club.Player
}

func (m *Mock) Suggest(ctx context.Context, players []club.Player) (*Suggestion, error) {
	m.mu.Lock()
	m.SuggestCalls = append(m.SuggestCalls, players)
	fn := m.SuggestFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, players)
	}
	return &Suggestion{}, nil
}
