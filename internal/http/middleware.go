package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/charmbracelet/log"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
	playerKey contextKey = "player"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		// Call the next handler with the modified context.
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// requireSession rejects requests unless a player is logged in and puts
// that player in the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Session.Current()
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), playerKey, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin must run after requireSession.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFromContext(r).IsAdmin() {
			writeError(w, club.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func playerFromContext(r *http.Request) club.Player {
	p, _ := r.Context().Value(playerKey).(club.Player)
	return p
}

func actorFromContext(r *http.Request) club.Actor {
	return playerFromContext(r).Actor()
}

// requirePushToken rejects push deliveries that do not carry the configured
// token. Without a configured token every delivery is accepted.
func (s *Server) requirePushToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := s.Cfg.PushToken
		if want != "" {
			got := r.URL.Query().Get("token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
				log.Warn("Rejected push delivery with a bad token", "remote", r.RemoteAddr)
				writeError(w, errPushToken)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
