package notifier

import (
	"sync"

	"github.com/fortytwohn/kickerboard/internal/leaderboard"
	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/players"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc func(m *match.Match, player1, player2 players.Player, dryRun bool) error
	SendLeaderboardFunc        func(sport players.Sport, entries []leaderboard.Entry, dryRun bool) error

	// Call records
	ResultNotifications []*match.Match
	LeaderboardPosts    []players.Sport
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendResultNotification(mt *match.Match, player1, player2 players.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultNotifications = append(m.ResultNotifications, mt)
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(mt, player1, player2, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(sport players.Sport, entries []leaderboard.Entry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaderboardPosts = append(m.LeaderboardPosts, sport)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(sport, entries, dryRun)
	}
	return nil
}
