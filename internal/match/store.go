package match

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fortytwohn/kickerboard/internal/elo"
	"github.com/fortytwohn/kickerboard/internal/metrics"
	"github.com/fortytwohn/kickerboard/internal/players"
)

// New creates a new match Workflow backed by the given database. The player
// store is used to resolve opponents; rating writes happen directly inside
// the confirm transaction so that they commit atomically with the status
// transition.
func New(db *sql.DB, playerStore players.PlayerStore, engine elo.Engine, metricsSvc metrics.Metrics) Workflow {
	return &store{
		db:      db,
		players: playerStore,
		engine:  engine,
		metrics: metricsSvc,
	}
}

func (s *store) Submit(submitterID, opponentLogin, sport, score string, submitterWon bool) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsedSport, err := players.ParseSport(sport)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}
	if strings.TrimSpace(score) == "" {
		return nil, fmt.Errorf("%w: score must not be blank", ErrInvalidArgument)
	}

	opponent, err := s.players.GetByLogin(opponentLogin)
	if err == players.ErrNotFound {
		return nil, fmt.Errorf("%w: opponent %q", ErrNotFound, opponentLogin)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve opponent: %w", err)
	}
	if opponent.ID == submitterID {
		return nil, fmt.Errorf("%w: cannot play against yourself", ErrInvalidArgument)
	}

	winnerID := submitterID
	if !submitterWon {
		winnerID = opponent.ID
	}

	m := Match{
		ID:          uuid.New().String(),
		Player1ID:   submitterID,
		Player2ID:   opponent.ID,
		WinnerID:    winnerID,
		Sport:       parsedSport,
		Score:       score,
		Status:      StatusPending,
		SubmittedAt: time.Now().Unix(),
	}

	_, err = s.db.Exec(`
		INSERT INTO matches (id, player1_id, player2_id, winner_id, sport, score, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Player1ID, m.Player2ID, m.WinnerID, m.Sport, m.Score, m.Status, m.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.metrics.IncMatchesSubmitted()
	log.Info("Match submitted", "matchID", m.ID, "submitter", submitterID, "opponent", opponent.ID, "sport", m.Sport)
	return &m, nil
}

func (s *store) Confirm(matchID, actingPlayerID string, accept bool) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	m, err := scanMatch(tx.QueryRow(selectMatch+" WHERE id = ?", matchID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: match %q", ErrNotFound, matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}

	// Only the opponent resolves a match; the submitter cannot confirm
	// their own claim.
	if actingPlayerID != m.Player2ID {
		return nil, fmt.Errorf("%w: only the opponent may resolve this match", ErrUnauthorized)
	}
	if m.Status != StatusPending {
		return nil, ErrAlreadyResolved
	}

	now := time.Now().Unix()

	if !accept {
		if err := s.transition(tx, matchID, `
			UPDATE matches SET status = ?, confirmed_at = ? WHERE id = ? AND status = ?`,
			StatusDenied, now, matchID, StatusPending); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit denial: %w", err)
		}
		s.metrics.IncMatchesDenied()
		log.Info("Match denied", "matchID", matchID, "by", actingPlayerID)
		return s.getByIDLocked(matchID)
	}

	ratingCol := players.RatingColumn(m.Sport)

	var rating1, rating2 int
	if err := tx.QueryRow("SELECT "+ratingCol+" FROM players WHERE id = ?", m.Player1ID).Scan(&rating1); err != nil {
		return nil, fmt.Errorf("failed to read rating for %s: %w", m.Player1ID, err)
	}
	if err := tx.QueryRow("SELECT "+ratingCol+" FROM players WHERE id = ?", m.Player2ID).Scan(&rating2); err != nil {
		return nil, fmt.Errorf("failed to read rating for %s: %w", m.Player2ID, err)
	}

	newRating1, newRating2 := s.engine.ApplyMatch(rating1, rating2, m.WinnerID == m.Player1ID)

	// The status flip is a conditional update on the pending state. Only
	// the first caller sees a row affected; all of the writes below
	// commit or roll back together with it.
	if err := s.transition(tx, matchID, `
		UPDATE matches
		SET status = ?, confirmed_at = ?,
			player1_elo_before = ?, player2_elo_before = ?,
			player1_elo_after = ?, player2_elo_after = ?
		WHERE id = ? AND status = ?`,
		StatusConfirmed, now, rating1, rating2, newRating1, newRating2, matchID, StatusPending); err != nil {
		return nil, err
	}

	if _, err := tx.Exec("UPDATE players SET "+ratingCol+" = ?, updated_at = ? WHERE id = ?", newRating1, now, m.Player1ID); err != nil {
		return nil, fmt.Errorf("failed to update rating for %s: %w", m.Player1ID, err)
	}
	if _, err := tx.Exec("UPDATE players SET "+ratingCol+" = ?, updated_at = ? WHERE id = ?", newRating2, now, m.Player2ID); err != nil {
		return nil, fmt.Errorf("failed to update rating for %s: %w", m.Player2ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirmation: %w", err)
	}

	s.metrics.IncMatchesConfirmed()
	s.metrics.ObserveConfirmDuration(time.Since(start).Seconds())
	log.Info("Match confirmed", "matchID", matchID, "by", actingPlayerID,
		"rating1", fmt.Sprintf("%d->%d", rating1, newRating1),
		"rating2", fmt.Sprintf("%d->%d", rating2, newRating2))
	return s.getByIDLocked(matchID)
}

// transition executes a conditional status update and translates "no rows
// affected" into ErrAlreadyResolved, covering confirm races.
func (s *store) transition(tx *sql.Tx, matchID, query string, args ...any) error {
	res, err := tx.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		log.Warn("Lost confirm race", "matchID", matchID)
		return ErrAlreadyResolved
	}
	return nil
}

func (s *store) ListPending(playerID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(selectMatch+`
		WHERE player2_id = ? AND status = ?
		ORDER BY submitted_at ASC, id ASC`, playerID, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (s *store) ListHistory(playerID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(selectMatch+`
		WHERE player1_id = ? OR player2_id = ?
		ORDER BY submitted_at DESC, id DESC`, playerID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (s *store) GetByID(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getByIDLocked(matchID)
}

func (s *store) getByIDLocked(matchID string) (*Match, error) {
	m, err := scanMatch(s.db.QueryRow(selectMatch+" WHERE id = ?", matchID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: match %q", ErrNotFound, matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	return m, nil
}

const selectMatch = `
	SELECT id, player1_id, player2_id, winner_id, sport, score, status,
		player1_elo_before, player2_elo_before, player1_elo_after, player2_elo_after,
		submitted_at, confirmed_at
	FROM matches`

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var before1, before2, after1, after2, confirmedAt sql.NullInt64

	err := scanner.Scan(
		&m.ID, &m.Player1ID, &m.Player2ID, &m.WinnerID, &m.Sport, &m.Score, &m.Status,
		&before1, &before2, &after1, &after2,
		&m.SubmittedAt, &confirmedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Player1EloBefore = nullableInt(before1)
	m.Player2EloBefore = nullableInt(before2)
	m.Player1EloAfter = nullableInt(after1)
	m.Player2EloAfter = nullableInt(after2)
	if confirmedAt.Valid {
		m.ConfirmedAt = &confirmedAt.Int64
	}
	return &m, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func collectMatches(rows *sql.Rows) ([]Match, error) {
	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}
