package players

import (
	"database/sql"
	"fmt"
	"sync"
)

// Sport identifies one of the two tracked table sports. Each player carries
// an independent rating per sport.
type Sport string

const (
	TableSoccer   Sport = "table_soccer"
	TableFootball Sport = "table_football"
)

// Sports lists all recognized sports.
var Sports = []Sport{TableSoccer, TableFootball}

// ParseSport validates a raw sport string.
func ParseSport(raw string) (Sport, error) {
	switch Sport(raw) {
	case TableSoccer, TableFootball:
		return Sport(raw), nil
	}
	return "", fmt.Errorf("unrecognized sport %q", raw)
}

// Player represents a provisioned player and their current per-sport ratings.
// Players are created by the identity boundary and never deleted.
type Player struct {
	ID               string `json:"id"`
	IntraID          int    `json:"intra_id"`
	Login            string `json:"login"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	ImageURL         string `json:"image_url"`
	Campus           string `json:"campus"`
	TableSoccerElo   int    `json:"table_soccer_elo"`
	TableFootballElo int    `json:"table_football_elo"`
	CreatedAt        int64  `json:"created_at"`
	UpdatedAt        int64  `json:"updated_at"`
}

// Rating returns the player's current rating for the given sport.
func (p *Player) Rating(sport Sport) int {
	if sport == TableSoccer {
		return p.TableSoccerElo
	}
	return p.TableFootballElo
}

// store handles all database operations for players.
type store struct {
	db         *sql.DB
	mu         sync.RWMutex
	baseRating int
}
