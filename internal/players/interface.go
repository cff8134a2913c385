package players

import "errors"

// ErrNotFound is returned when a player does not exist.
var ErrNotFound = errors.New("player not found")

// MaxSearchResults bounds the size of a search response.
const MaxSearchResults = 20

// PlayerStore defines read/search access to player records and their
// ratings. Rating mutations happen only inside the match workflow's confirm
// transaction, never through this interface.
type PlayerStore interface {
	// Upsert provisions a player from the identity boundary, creating the
	// record with base ratings on first sight and refreshing identity
	// fields afterwards. Ratings are never touched by an upsert.
	Upsert(p Player) (*Player, error)
	GetByID(id string) (*Player, error)
	GetByLogin(login string) (*Player, error)
	// GetByIntraID looks a player up by their intra account id.
	GetByIntraID(intraID int) (*Player, error)
	// Search matches the query case-insensitively against login, first
	// name, or last name. Results are ordered by login ascending and
	// capped at MaxSearchResults.
	Search(query string) ([]Player, error)
	GetRating(playerID string, sport Sport) (int, error)
	All() ([]Player, error)
}
