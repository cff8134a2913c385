package players

import "sync"

// MockStore is a mock implementation of the PlayerStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertFunc       func(p Player) (*Player, error)
	GetByIDFunc      func(id string) (*Player, error)
	GetByLoginFunc   func(login string) (*Player, error)
	GetByIntraIDFunc func(intraID int) (*Player, error)
	SearchFunc       func(query string) ([]Player, error)
	GetRatingFunc    func(playerID string, sport Sport) (int, error)
	AllFunc          func() ([]Player, error)

	// Call records
	UpsertCalls     []Player
	GetByIDCalls    []string
	GetByLoginCalls []string
	SearchCalls     []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Upsert(p Player) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, p)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(p)
	}
	return &p, nil
}

func (m *MockStore) GetByID(id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetByIDCalls = append(m.GetByIDCalls, id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetByLogin(login string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetByLoginCalls = append(m.GetByLoginCalls, login)
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(login)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetByIntraID(intraID int) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByIntraIDFunc != nil {
		return m.GetByIntraIDFunc(intraID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Search(query string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls = append(m.SearchCalls, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(query)
	}
	return nil, nil
}

func (m *MockStore) GetRating(playerID string, sport Sport) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRatingFunc != nil {
		return m.GetRatingFunc(playerID, sport)
	}
	return 0, ErrNotFound
}

func (m *MockStore) All() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AllFunc != nil {
		return m.AllFunc()
	}
	return nil, nil
}
