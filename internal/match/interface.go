package match

import "errors"

// Stable error codes surfaced by the workflow. The HTTP layer maps them to
// status codes with errors.Is; anything else is treated as internal.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAlreadyResolved = errors.New("match already resolved")
)

// Workflow is the state machine governing submission, confirmation, and
// denial of matches. Confirming a match applies the rating update for both
// players exactly once, atomically with the status transition.
type Workflow interface {
	// Submit creates a pending match naming an opponent by login. No
	// rating mutation happens on submit.
	Submit(submitterID, opponentLogin, sport, score string, submitterWon bool) (*Match, error)
	// Confirm resolves a pending match. Only the named opponent may call
	// it; every caller after the first receives ErrAlreadyResolved.
	Confirm(matchID, actingPlayerID string, accept bool) (*Match, error)
	// ListPending returns the matches awaiting the given player's
	// decision, oldest first.
	ListPending(playerID string) ([]Match, error)
	// ListHistory returns all matches involving the given player,
	// newest first.
	ListHistory(playerID string) ([]Match, error)
	// GetByID loads a single match.
	GetByID(matchID string) (*Match, error)
}
