package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/fortnite-tracker/internal/match"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchResultCalls []match.Result
	SendStatusCalls      []string

	// Spies
	SendMatchResultFunc func(result *match.Result) error
	SendStatusFunc      func(text string) error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendStatusCalls = nil
}

func (m *Mock) SendMatchResult(ctx context.Context, result *match.Result, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, *result)
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(result)
	}
	return nil
}

func (m *Mock) SendStatus(ctx context.Context, text string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStatusCalls = append(m.SendStatusCalls, text)
	if m.SendStatusFunc != nil {
		return m.SendStatusFunc(text)
	}
	return nil
}

// MatchResults returns a copy of the recorded match results.
func (m *Mock) MatchResults() []match.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]match.Result(nil), m.SendMatchResultCalls...)
}
