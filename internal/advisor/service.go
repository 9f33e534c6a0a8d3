package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/charmbracelet/log"
)

var _ Advisor = (*Service)(nil)

// NewService creates an advisor. A zero timeout means DefaultTimeout.
func NewService(generator Generator, metrics metrics.Metrics, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		generator: generator,
		metrics:   metrics,
		timeout:   timeout,
	}
}

// Suggest asks the generator for a balanced split of players.
func (s *Service) Suggest(ctx context.Context, players []club.Player) (*Suggestion, error) {
	if len(players) < MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	prompt, err := BuildPrompt(players)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdvisor, err)
	}

	s.metrics.IncAdvisorRequests()
	start := time.Now()
	raw, err := s.generate(ctx, prompt)
	s.metrics.ObserveAdvisorDuration(time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncAdvisorFailures()
		log.Error("Advisor call failed", "error", err, "players", len(players))
		return nil, fmt.Errorf("%w: %w", ErrAdvisor, err)
	}

	suggestion, err := parseSuggestion(raw, players)
	if err != nil {
		s.metrics.IncAdvisorFailures()
		log.Error("Advisor returned malformed data", "error", err)
		log.Debug("Raw advisor response", "response", raw)
		return nil, fmt.Errorf("%w: %w", ErrAdvisor, err)
	}

	log.Info("Match suggestion ready", "team1", len(suggestion.Team1), "team2", len(suggestion.Team2), "balance", suggestion.BalanceScore)
	return suggestion, nil
}

// generate runs the generator under the service timeout, even if the
// generator itself ignores its context.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.generator.Generate(ctx, prompt)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("generator did not answer: %w", ctx.Err())
	}
}

// BuildPrompt renders the instruction and the roster as JSON.
func BuildPrompt(players []club.Player) (string, error) {
	roster := make([]promptPlayer, 0, len(players))
	for _, p := range players {
		roster = append(roster, promptPlayer{
			ID:            p.ID,
			Name:          p.Name,
			Level:         p.Level,
			LevelLabel:    p.Level.Label(),
			Side:          p.Side,
			MatchesPlayed: p.MatchesPlayed,
		})
	}
	data, err := json.Marshal(roster)
	if err != nil {
		return "", fmt.Errorf("failed to encode roster: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a padel coach organising a doubles match at a club.\n")
	b.WriteString("Pick four of the players below and split them into two teams of two so that the match is as balanced as possible. ")
	b.WriteString("Level 1 is the strongest tier and level 6 the weakest. ")
	b.WriteString("Prefer pairs where one player covers the forehand side and the other the backhand side.\n")
	b.WriteString("Answer with JSON only: {\"team1Ids\": [string], \"team2Ids\": [string], \"reasoning\": string, \"balanceScore\": number between 0 and 100}.\n")
	b.WriteString("Players:\n")
	b.Write(data)
	return b.String(), nil
}

func parseSuggestion(raw string, players []club.Player) (*Suggestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	switch {
	case p.Team1IDs == nil:
		return nil, fmt.Errorf("response is missing team1Ids")
	case p.Team2IDs == nil:
		return nil, fmt.Errorf("response is missing team2Ids")
	case p.Reasoning == nil:
		return nil, fmt.Errorf("response is missing reasoning")
	case p.BalanceScore == nil:
		return nil, fmt.Errorf("response is missing balanceScore")
	}

	return &Suggestion{
		Team1:        resolve(players, *p.Team1IDs),
		Team2:        resolve(players, *p.Team2IDs),
		Reasoning:    *p.Reasoning,
		BalanceScore: *p.BalanceScore,
	}, nil
}

// resolve keeps the players whose id is listed, in roster order. Unknown ids are dropped.
func resolve(players []club.Player, ids []string) []club.Player {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	team := make([]club.Player, 0, len(ids))
	for _, p := range players {
		if _, ok := wanted[p.ID]; ok {
			team = append(team, p)
		}
	}
	return team
}
