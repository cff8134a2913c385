package match

import "sync"

// MockWorkflow is a mock implementation of the Workflow interface for
// testing. It is safe for concurrent use.
type MockWorkflow struct {
	mu sync.Mutex

	// Spies for method calls
	SubmitFunc      func(submitterID, opponentLogin, sport, score string, submitterWon bool) (*Match, error)
	ConfirmFunc     func(matchID, actingPlayerID string, accept bool) (*Match, error)
	ListPendingFunc func(playerID string) ([]Match, error)
	ListHistoryFunc func(playerID string) ([]Match, error)
	GetByIDFunc     func(matchID string) (*Match, error)

	// Call records
	SubmitCalls  []SubmitCall
	ConfirmCalls []ConfirmCall
}

// SubmitCall holds the arguments for a call to Submit.
type SubmitCall struct {
	SubmitterID   string
	OpponentLogin string
	Sport         string
	Score         string
	SubmitterWon  bool
}

// ConfirmCall holds the arguments for a call to Confirm.
type ConfirmCall struct {
	MatchID        string
	ActingPlayerID string
	Accept         bool
}

// NewMock creates a new mock instance.
func NewMock() *MockWorkflow {
	return &MockWorkflow{}
}

func (m *MockWorkflow) Submit(submitterID, opponentLogin, sport, score string, submitterWon bool) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitCalls = append(m.SubmitCalls, SubmitCall{submitterID, opponentLogin, sport, score, submitterWon})
	if m.SubmitFunc != nil {
		return m.SubmitFunc(submitterID, opponentLogin, sport, score, submitterWon)
	}
	return &Match{}, nil
}

func (m *MockWorkflow) Confirm(matchID, actingPlayerID string, accept bool) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmCalls = append(m.ConfirmCalls, ConfirmCall{matchID, actingPlayerID, accept})
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(matchID, actingPlayerID, accept)
	}
	return &Match{}, nil
}

func (m *MockWorkflow) ListPending(playerID string) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(playerID)
	}
	return nil, nil
}

func (m *MockWorkflow) ListHistory(playerID string) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListHistoryFunc != nil {
		return m.ListHistoryFunc(playerID)
	}
	return nil, nil
}

func (m *MockWorkflow) GetByID(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(matchID)
	}
	return nil, ErrNotFound
}
