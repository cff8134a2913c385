package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/players"
	"github.com/fortytwohn/kickerboard/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// writeJSON encodes v to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeWorkflowError maps the workflow's sentinel errors to HTTP status
// codes. Anything unrecognized is an internal error.
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, match.ErrNotFound), errors.Is(err, players.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, match.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, match.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, match.ErrAlreadyResolved):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error("Unexpected workflow error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) SubmitMatchHandler() http.HandlerFunc {
	type submitRequest struct {
		OpponentLogin string `json:"opponent_login"`
		Sport         string `json:"sport"`
		Score         string `json:"score"`
		IWon          bool   `json:"i_won"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		player, ok := playerFromContext(r)
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		m, err := s.Matches.Submit(player.ID, req.OpponentLogin, req.Sport, req.Score, req.IWon)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}

		log.Info("Match submitted", "matchID", m.ID, "submitter", player.Login, "opponent", req.OpponentLogin)
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) ConfirmMatchHandler() http.HandlerFunc {
	type confirmRequest struct {
		Confirmed bool `json:"confirmed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		player, ok := playerFromContext(r)
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		matchID := r.PathValue("id")

		var req confirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		m, err := s.Matches.Confirm(matchID, player.ID, req.Confirmed)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}

		if m.Status == match.StatusConfirmed {
			if err := s.pubsub.SendMessage(pubsub.EventNotifyResult, pubsub.ResultEvent{MatchID: m.ID}); err != nil {
				// The confirmation is already committed, the notification
				// is best effort.
				log.Error("Failed to publish result event", "matchID", m.ID, "error", err)
			}
		}

		log.Info("Match resolved", "matchID", m.ID, "status", m.Status, "by", player.Login)
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) PendingMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, ok := playerFromContext(r)
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		matches, err := s.Matches.ListPending(player.ID)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) MatchHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, ok := playerFromContext(r)
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		matches, err := s.Matches.ListHistory(player.ID)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sport, err := players.ParseSport(r.URL.Query().Get("sport"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		entries, err := s.Leaderboard.Rank(sport)
		if err != nil {
			log.Error("Failed to build leaderboard", "sport", sport, "error", err)
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) SearchPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if len(query) < 2 {
			http.Error(w, "Query must be at least 2 characters", http.StatusBadRequest)
			return
		}

		results, err := s.Players.Search(query)
		if err != nil {
			log.Error("Failed to search players", "query", query, "error", err)
			http.Error(w, "Failed to search players", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login := r.PathValue("login")

		stats, err := s.Leaderboard.PlayerStats(login)
		if err != nil {
			if errors.Is(err, players.ErrNotFound) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to get player stats", "login", login, "error", err)
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, ok := playerFromContext(r)
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

// decodePushMessage unwraps a pubsub push delivery: the JSON envelope
// carries the base64-encoded MessagePack payload.
func decodePushMessage(r *http.Request) ([]byte, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	log.Debug("Received push message", "body", string(bodyBytes))

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"`
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wrapper JSON: %w", err)
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	return rawData, nil
}

func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		var event pubsub.ResultEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			log.Error("Failed to decode result event", "error", err)
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}

		m, err := s.Matches.GetByID(event.MatchID)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		player1, err := s.Players.GetByID(m.Player1ID)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		player2, err := s.Players.GetByID(m.Player2ID)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}

		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendResultNotification(m, *player1, *player2, isDryRun); err != nil {
			log.Error("Failed to notify result", "matchID", m.ID, "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) PostLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		var event pubsub.LeaderboardEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			log.Error("Failed to decode leaderboard event", "error", err)
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}

		sport, err := players.ParseSport(event.Sport)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		entries, err := s.Leaderboard.Rank(sport)
		if err != nil {
			log.Error("Failed to build leaderboard", "sport", sport, "error", err)
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			return
		}

		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendLeaderboard(sport, entries, isDryRun); err != nil {
			log.Error("Failed to post leaderboard", "sport", sport, "error", err)
			http.Error(w, "Failed to post leaderboard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
