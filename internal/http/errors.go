package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/charmbracelet/log"
)

// Error codes returned in the error body.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeConflict            = "CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeAdvisorFailed       = "ADVISOR_FAILED"
	CodeUnavailable         = "UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

var errPushToken = fmt.Errorf("%w: invalid push token", club.ErrAuth)

// writeError maps a domain error onto a status code and writes the error body.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Debug("Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: err.Error()}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, advisor.ErrNotEnoughPlayers):
		return http.StatusUnprocessableEntity, CodeInsufficientPlayers
	case errors.Is(err, advisor.ErrAdvisor):
		return http.StatusBadGateway, CodeAdvisorFailed
	case errors.Is(err, club.ErrValidation):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, club.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, club.ErrAuth):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, club.ErrPermission):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, club.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, club.ErrClosed):
		return http.StatusServiceUnavailable, CodeUnavailable
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// decodeJSON reads the request body into v. Failures are validation errors.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(club.ErrValidation, err)
	}
	return nil
}
