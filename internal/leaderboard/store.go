package leaderboard

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/players"
)

// New creates a new Projector over the shared database.
func New(db *sql.DB, playerStore players.PlayerStore) Projector {
	return &store{
		db:      db,
		players: playerStore,
	}
}

// record tallies confirmed results for one player in one sport.
type record struct {
	wins   int
	losses int
}

func (s *store) Rank(sport players.Sport) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.players.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	records, err := s.tally(sport)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(all))
	for _, p := range all {
		rec := records[p.ID]
		entries = append(entries, Entry{
			Player:  p,
			Elo:     p.Rating(sport),
			Wins:    rec.wins,
			Losses:  rec.losses,
			WinRate: winRate(rec.wins, rec.losses),
		})
	}

	// Rating descending, ties broken by player id ascending. The order is
	// a strict total order, so two players never share a rank even at
	// equal rating.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Elo != entries[j].Elo {
			return entries[i].Elo > entries[j].Elo
		}
		return entries[i].Player.ID < entries[j].Player.ID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *store) PlayerStats(login string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.players.GetByLogin(login)
	if err != nil {
		return nil, err
	}

	stats := make(map[players.Sport]SportStats, len(players.Sports))
	for _, sport := range players.Sports {
		records, err := s.tally(sport)
		if err != nil {
			return nil, err
		}
		rec := records[p.ID]
		stats[sport] = SportStats{
			Elo:          p.Rating(sport),
			Wins:         rec.wins,
			Losses:       rec.losses,
			TotalMatches: rec.wins + rec.losses,
			WinRate:      winRate(rec.wins, rec.losses),
		}
	}
	return &PlayerStats{Player: *p, Stats: stats}, nil
}

// tally replays the confirmed matches of a sport into per-player win/loss
// counts. Recomputing on read is fine at club scale; if histories grow
// large this becomes a counter maintained inside the confirm transaction.
func (s *store) tally(sport players.Sport) (map[string]record, error) {
	rows, err := s.db.Query(`
		SELECT player1_id, player2_id, winner_id
		FROM matches
		WHERE sport = ? AND status = ?`, sport, match.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmed matches: %w", err)
	}
	defer rows.Close()

	records := make(map[string]record)
	for rows.Next() {
		var player1, player2, winner string
		if err := rows.Scan(&player1, &player2, &winner); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		loser := player1
		if winner == player1 {
			loser = player2
		}
		w := records[winner]
		w.wins++
		records[winner] = w
		l := records[loser]
		l.losses++
		records[loser] = l
	}
	return records, rows.Err()
}

func winRate(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}
