package fortnite

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the StatsClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spy for method calls
	GetLastMatchFunc func(handle string) (LastMatch, error)

	// Call records
	GetLastMatchCalls []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetLastMatchCalls = nil
}

func (m *MockClient) GetLastMatch(ctx context.Context, handle string) (LastMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetLastMatchCalls = append(m.GetLastMatchCalls, handle)
	if m.GetLastMatchFunc != nil {
		return m.GetLastMatchFunc(handle)
	}
	return LastMatch{}, ErrNoMatch
}
