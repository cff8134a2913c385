package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fortytwohn/kickerboard/internal/intra"
	"github.com/fortytwohn/kickerboard/internal/players"
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
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware resolves the bearer token to an intra user and provisions
// the matching player record. The resolved player is placed in the request
// context for handlers to pick up via playerFromContext.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		user, err := s.IntraClient.GetCurrentUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, intra.ErrInvalidToken) {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			log.Error("Failed to resolve intra user", "error", err)
			http.Error(w, "Identity lookup failed", http.StatusBadGateway)
			return
		}

		if s.Cfg.Intra.RequiredCampus != "" && user.PrimaryCampus() != s.Cfg.Intra.RequiredCampus {
			log.Warn("Rejected user from foreign campus", "login", user.Login, "campus", user.PrimaryCampus())
			http.Error(w, "Campus not allowed", http.StatusForbidden)
			return
		}

		player, err := s.Players.Upsert(players.Player{
			IntraID:   user.ID,
			Login:     user.Login,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			ImageURL:  user.Image.Link,
			Campus:    user.PrimaryCampus(),
		})
		if err != nil {
			log.Error("Failed to provision player", "login", user.Login, "error", err)
			http.Error(w, "Failed to provision player", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), playerKey, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// playerFromContext retrieves the authenticated player placed there by
// authMiddleware.
func playerFromContext(r *http.Request) (*players.Player, bool) {
	player, ok := r.Context().Value(playerKey).(*players.Player)
	return player, ok
}
