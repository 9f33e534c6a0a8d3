package club

import "strings"

// FilterPlayers returns the players whose name, level label or phone contains
// query, ignoring case. An empty query matches everyone.
func FilterPlayers(players []Player, query string) []Player {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return players
	}
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Level.Label()), q) ||
			strings.Contains(p.Phone, q) {
			out = append(out, p)
		}
	}
	return out
}
