package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	matchesSubmitted int
	matchesConfirmed int
	matchesDenied    int
	confirmDurations []float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		confirmDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSubmitted++
}

func (m *Mock) IncMatchesConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesConfirmed++
}

func (m *Mock) IncMatchesDenied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDenied++
}

func (m *Mock) ObserveConfirmDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmDurations = append(m.confirmDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesSubmitted returns the number of times IncMatchesSubmitted was called.
func (m *Mock) MatchesSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSubmitted
}

// MatchesConfirmed returns the number of times IncMatchesConfirmed was called.
func (m *Mock) MatchesConfirmed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesConfirmed
}

// MatchesDenied returns the number of times IncMatchesDenied was called.
func (m *Mock) MatchesDenied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDenied
}

// ConfirmDurations returns the observed confirm durations.
func (m *Mock) ConfirmDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.confirmDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
