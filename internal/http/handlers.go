package http

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Session.Snapshot())
	}
}

func (s *Server) SubmitPhoneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req phoneRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		state, err := s.Session.SubmitPhone(r.Context(), req.Phone)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stateResponse{State: state})
	}
}

func (s *Server) SubmitPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if _, err := s.Session.SubmitPassword(r.Context(), req.Password); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Session.Snapshot())
	}
}

func (s *Server) SubmitSetupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if _, err := s.Session.SubmitSetup(r.Context(), req.Password); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Session.Snapshot())
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Session.Logout(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Session.Snapshot())
	}
}
