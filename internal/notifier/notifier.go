package notifier

import (
	"github.com/fortytwohn/kickerboard/internal/leaderboard"
	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/players"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendResultNotification announces a confirmed match and the rating
	// movement of both players.
	SendResultNotification(m *match.Match, player1, player2 players.Player, dryRun bool) error
	// SendLeaderboard posts the current standings for a sport.
	SendLeaderboard(sport players.Sport, entries []leaderboard.Entry, dryRun bool) error
}
