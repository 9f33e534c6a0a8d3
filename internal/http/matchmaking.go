package http

import (
	"net/http"

	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/charmbracelet/log"
)

// MatchmakingHandler asks the advisor for a balanced split of the whole roster.
// With ?announce=true the suggestion is also posted to Slack.
func (s *Server) MatchmakingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players := s.Store.Players()
		if len(players) < advisor.MinPlayers {
			writeError(w, advisor.ErrNotEnoughPlayers)
			return
		}

		suggestion, err := s.Advisor.Suggest(r.Context(), players)
		if err != nil {
			writeError(w, err)
			return
		}

		if r.URL.Query().Get("announce") == "true" {
			if err := s.Notifier.SendMatchSuggestion(suggestion, isDryRunFromContext(r)); err != nil {
				log.Warn("Failed to announce match suggestion", "error", err)
			}
		}
		if !actorFromContext(r).IsAdmin() {
			writeJSON(w, http.StatusOK, publicSuggestion(suggestion))
			return
		}
		writeJSON(w, http.StatusOK, suggestion)
	}
}

// publicSuggestion strips the contact and account fields of every player.
func publicSuggestion(s *advisor.Suggestion) suggestionResponse {
	project := func(players []club.Player) []matchPlayer {
		out := make([]matchPlayer, 0, len(players))
		for _, p := range players {
			out = append(out, matchPlayer{ID: p.ID, Name: p.Name, Level: p.Level, LevelLabel: p.Level.Label(), Side: p.Side})
		}
		return out
	}
	return suggestionResponse{
		Team1:        project(s.Team1),
		Team2:        project(s.Team2),
		Reasoning:    s.Reasoning,
		BalanceScore: s.BalanceScore,
	}
}
