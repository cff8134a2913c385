package leaderboard

import "github.com/fortytwohn/kickerboard/internal/players"

// Projector derives ranked standings from current ratings and the
// accumulated confirmed-match history.
type Projector interface {
	// Rank returns the full leaderboard for a sport: every player,
	// ordered by rating descending with ties broken by player id
	// ascending. Ranks are 1-based and never shared, even at equal
	// rating.
	Rank(sport players.Sport) ([]Entry, error)
	// PlayerStats returns one player's record across all sports.
	PlayerStats(login string) (*PlayerStats, error)
}
