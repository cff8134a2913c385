package players

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new PlayerStore. baseRating is the rating assigned to both
// sports when a player is first provisioned.
func New(db *sql.DB, baseRating int) PlayerStore {
	return &store{
		db:         db,
		baseRating: baseRating,
	}
}

func (s *store) Upsert(p Player) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()

	existing, err := s.getBy("intra_id = ?", p.IntraID)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	if err == ErrNotFound {
		p.ID = uuid.New().String()
		p.TableSoccerElo = s.baseRating
		p.TableFootballElo = s.baseRating
		p.CreatedAt = now
		p.UpdatedAt = now

		_, err := s.db.Exec(`
			INSERT INTO players (id, intra_id, login, first_name, last_name, email, image_url, campus, table_soccer_elo, table_football_elo, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.IntraID, p.Login, p.FirstName, p.LastName, p.Email, p.ImageURL, p.Campus, p.TableSoccerElo, p.TableFootballElo, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		log.Info("Provisioned new player", "playerID", p.ID, "login", p.Login)
		return &p, nil
	}

	// Refresh identity fields only; ratings belong to the match workflow.
	_, err = s.db.Exec(`
		UPDATE players SET login = ?, first_name = ?, last_name = ?, email = ?, image_url = ?, campus = ?, updated_at = ?
		WHERE id = ?`,
		p.Login, p.FirstName, p.LastName, p.Email, p.ImageURL, p.Campus, now, existing.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return s.getBy("id = ?", existing.ID)
}

func (s *store) GetByID(id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBy("id = ?", id)
}

func (s *store) GetByLogin(login string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBy("login = ?", login)
}

func (s *store) GetByIntraID(intraID int) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBy("intra_id = ?", intraID)
}

func (s *store) getBy(where string, arg any) (*Player, error) {
	row := s.db.QueryRow(`
		SELECT id, intra_id, login, first_name, last_name, email, image_url, campus, table_soccer_elo, table_football_elo, created_at, updated_at
		FROM players WHERE `+where, arg)

	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player: %w", err)
	}
	return p, nil
}

func (s *store) Search(query string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, intra_id, login, first_name, last_name, email, image_url, campus, table_soccer_elo, table_football_elo, created_at, updated_at
		FROM players
		WHERE login LIKE ? COLLATE NOCASE OR first_name LIKE ? COLLATE NOCASE OR last_name LIKE ? COLLATE NOCASE
		ORDER BY login ASC
		LIMIT ?`, pattern, pattern, pattern, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

func (s *store) GetRating(playerID string, sport Sport) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rating int
	err := s.db.QueryRow("SELECT "+RatingColumn(sport)+" FROM players WHERE id = ?", playerID).Scan(&rating)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query rating: %w", err)
	}
	return rating, nil
}

func (s *store) All() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, intra_id, login, first_name, last_name, email, image_url, campus, table_soccer_elo, table_football_elo, created_at, updated_at
		FROM players ORDER BY login ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// RatingColumn maps a sport to its rating column. It is shared with the
// match workflow, which updates ratings inside its confirm transaction.
func RatingColumn(sport Sport) string {
	if sport == TableSoccer {
		return "table_soccer_elo"
	}
	return "table_football_elo"
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	err := scanner.Scan(
		&p.ID, &p.IntraID, &p.Login, &p.FirstName, &p.LastName, &p.Email,
		&p.ImageURL, &p.Campus, &p.TableSoccerElo, &p.TableFootballElo,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPlayers(rows *sql.Rows) ([]Player, error) {
	var result []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}
