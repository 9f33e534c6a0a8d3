package http

import (
	"net/http"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/session"
)

// ListSlotsHandler returns the three slots with the bookings the player may
// see. Admins also get the players still free in each slot.
func (s *Server) ListSlotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorFromContext(r)
		views := make([]slotView, 0, len(club.Slots))
		for _, slot := range club.Slots {
			view := slotView{SlotTime: slot, Bookings: []bookingView{}}
			for _, b := range session.VisibleBookingsFor(actor, s.Store.BookingsForSlot(slot)) {
				view.Bookings = append(view.Bookings, controlsFor(actor, b))
			}
			if actor.IsAdmin() {
				view.Available = s.Store.AvailablePlayers(slot, "")
			}
			views = append(views, view)
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func (s *Server) ListBookingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, session.VisibleBookingsFor(actorFromContext(r), s.Store.Bookings()))
	}
}

func (s *Server) EnrollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrollRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		b, err := s.Store.SelfEnroll(r.Context(), actorFromContext(r), req.SlotTime)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func (s *Server) CreateBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		b, err := s.Store.CreateBooking(r.Context(), actorFromContext(r), req.SlotTime, req.PlayerIDs, req.Mode)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func (s *Server) AddPartnerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req partnerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		b, err := s.Store.AddPartner(r.Context(), actorFromContext(r), r.PathValue("id"), req.PlayerIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// LeaveHandler removes a member from a booking. Without a playerId the
// logged-in player leaves. A doubles booking needs an explicit action.
func (s *Server) LeaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leaveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		actor := actorFromContext(r)
		if req.PlayerID == "" {
			req.PlayerID = actor.ID
		}
		survivor, err := s.Store.Leave(r.Context(), actor, r.PathValue("id"), req.PlayerID, req.Action)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, leaveResponse{Booking: survivor})
	}
}

func (s *Server) CancelBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.Cancel(r.Context(), actorFromContext(r), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func controlsFor(actor club.Actor, b club.Booking) bookingView {
	view := bookingView{Booking: b, CanCancel: session.CanCancel(actor, b), Removable: []string{}}
	for _, id := range b.PlayerIDs {
		if session.CanManageMember(actor, b, id) {
			view.Removable = append(view.Removable, id)
		}
	}
	return view
}
