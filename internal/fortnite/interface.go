package fortnite

import "context"

// StatsClient defines the interface for reading player statistics.
// This allows for mock implementations to be used in tests.
type StatsClient interface {
	GetLastMatch(ctx context.Context, handle string) (LastMatch, error)
}
