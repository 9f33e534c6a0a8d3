package http

import (
	"net/http"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/session"
	"github.com/charmbracelet/log"
)

// ListPlayersHandler returns the roster visible to the logged-in player,
// optionally narrowed by ?q=.
func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visible := session.VisibleRosterFor(actorFromContext(r), s.Store.Players())
		players := club.FilterPlayers(visible, r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		p, err := s.Store.AddPlayer(r.Context(), club.PlayerDraft{
			Name:   req.Name,
			Phone:  req.Phone,
			Level:  req.Level,
			Side:   req.Side,
			Avatar: req.Avatar,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.updatePlayer(w, r, r.PathValue("id"))
	}
}

// UpdateProfileHandler edits the logged-in player's own record.
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.updatePlayer(w, r, actorFromContext(r).ID)
	}
}

func (s *Server) updatePlayer(w http.ResponseWriter, r *http.Request, id string) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.Store.UpdatePlayer(r.Context(), actorFromContext(r), club.Player{
		ID:     id,
		Name:   req.Name,
		Phone:  req.Phone,
		Level:  req.Level,
		Side:   req.Side,
		Avatar: req.Avatar,
		Role:   req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePlayerHandler removes a player and reports the bookings that were
// shortened or cancelled along with them.
func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		actor := actorFromContext(r)

		var affected []club.Booking
		if s.Store.HasBookings(id) {
			affected = s.Store.BookingsOf(id)
		}
		if err := s.Store.DeletePlayer(r.Context(), id, actor); err != nil {
			writeError(w, err)
			return
		}

		resp := deletePlayerResponse{Deleted: true, AffectedBookings: len(affected)}
		for _, b := range affected {
			if len(b.PlayerIDs) == 1 {
				resp.CancelledBookings++
			}
		}
		if resp.AffectedBookings > 0 {
			log.Info("Player deleted with active bookings", "id", id, "affected", resp.AffectedBookings, "cancelled", resp.CancelledBookings)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Session.ChangePassword(r.Context(), req.Password); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
