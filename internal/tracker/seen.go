package tracker

import "sync"

// LastSeen maps an account id to the most recently reported match id.
// Entries are only ever added or replaced, never removed.
type LastSeen struct {
	mu  sync.RWMutex
	ids map[string]string
}

// NewLastSeen returns an empty table.
func NewLastSeen() *LastSeen {
	return &LastSeen{ids: make(map[string]string)}
}

// Get returns the last reported match id for the account.
func (s *LastSeen) Get(accountID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[accountID]
	return id, ok
}

// Record stores matchID for the account and reports whether it differs from
// the previous value. A false return means the match was already reported.
func (s *LastSeen) Record(accountID, matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.ids[accountID]; ok && prev == matchID {
		return false
	}
	s.ids[accountID] = matchID
	return true
}
