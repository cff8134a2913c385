package match

import (
	"database/sql"
	"sync"

	"github.com/fortytwohn/kickerboard/internal/elo"
	"github.com/fortytwohn/kickerboard/internal/metrics"
	"github.com/fortytwohn/kickerboard/internal/players"
)

// Status is the lifecycle state of a match. Pending is the only
// non-terminal state; a confirmed or denied match is immutable.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDenied    Status = "denied"
)

// Match is one reported game between two players. The submitter (player1)
// declares the winner; the opponent (player2) confirms or denies the whole
// report. Rating snapshots are populated only once the match is confirmed.
type Match struct {
	ID        string        `json:"id"`
	Player1ID string        `json:"player1_id"`
	Player2ID string        `json:"player2_id"`
	WinnerID  string        `json:"winner_id"`
	Sport     players.Sport `json:"sport"`
	Score     string        `json:"score"`
	Status    Status        `json:"status"`

	Player1EloBefore *int `json:"player1_elo_before,omitempty"`
	Player2EloBefore *int `json:"player2_elo_before,omitempty"`
	Player1EloAfter  *int `json:"player1_elo_after,omitempty"`
	Player2EloAfter  *int `json:"player2_elo_after,omitempty"`

	SubmittedAt int64  `json:"submitted_at"`
	ConfirmedAt *int64 `json:"confirmed_at,omitempty"`
}

// store handles all database operations for the match workflow.
type store struct {
	db      *sql.DB
	mu      sync.RWMutex
	players players.PlayerStore
	engine  elo.Engine
	metrics metrics.Metrics
}
