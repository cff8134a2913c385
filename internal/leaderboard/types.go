package leaderboard

import (
	"database/sql"
	"sync"

	"github.com/fortytwohn/kickerboard/internal/players"
)

// Entry is one row of a per-sport leaderboard. It is derived on read from
// player ratings and the confirmed match history; nothing here is persisted.
type Entry struct {
	Player  players.Player `json:"player"`
	Elo     int            `json:"elo"`
	Wins    int            `json:"wins"`
	Losses  int            `json:"losses"`
	WinRate float64        `json:"win_rate"`
	Rank    int            `json:"rank"`
}

// SportStats summarizes a player's record in one sport.
type SportStats struct {
	Elo          int     `json:"elo"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	TotalMatches int     `json:"total_matches"`
	WinRate      float64 `json:"win_rate"`
}

// PlayerStats holds a player's record across all sports.
type PlayerStats struct {
	Player players.Player               `json:"player"`
	Stats  map[players.Sport]SportStats `json:"stats"`
}

// store derives standings from the shared database.
type store struct {
	db      *sql.DB
	mu      sync.RWMutex
	players players.PlayerStore
}
