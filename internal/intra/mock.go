package intra

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the IntraClient interface for
// testing. It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetCurrentUserFunc func(ctx context.Context, token string) (*User, error)

	// Call records
	GetCurrentUserCalls []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GetCurrentUser(ctx context.Context, token string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCurrentUserCalls = append(m.GetCurrentUserCalls, token)
	if m.GetCurrentUserFunc != nil {
		return m.GetCurrentUserFunc(ctx, token)
	}
	return nil, ErrInvalidToken
}
