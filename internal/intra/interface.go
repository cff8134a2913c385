package intra

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when intra rejects the presented token.
var ErrInvalidToken = errors.New("invalid intra token")

// IntraClient resolves an OAuth bearer token to the intra user it belongs
// to. The core trusts the resolved identity as the acting player and
// performs no further credential validation.
type IntraClient interface {
	GetCurrentUser(ctx context.Context, token string) (*User, error)
}
