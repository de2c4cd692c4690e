package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	pollCycles       int
	pollDurations    []float64
	matchesDetected  int
	statsFetchFailed int
	notifSent        int
	notifFailed      int
	manualPosts      int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		pollDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPollCycles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollCycles++
}

func (m *Mock) ObservePollDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollDurations = append(m.pollDurations, seconds)
}

func (m *Mock) IncMatchesDetected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDetected++
}

func (m *Mock) IncStatsFetchFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsFetchFailed++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) IncManualPosts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manualPosts++
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

// PollCycles returns the number of times IncPollCycles was called.
func (m *Mock) PollCycles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollCycles
}

// MatchesDetected returns the number of times IncMatchesDetected was called.
func (m *Mock) MatchesDetected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDetected
}

// StatsFetchFailed returns the number of times IncStatsFetchFailed was called.
func (m *Mock) StatsFetchFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsFetchFailed
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}

// ManualPosts returns the number of times IncManualPosts was called.
func (m *Mock) ManualPosts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.manualPosts
}
