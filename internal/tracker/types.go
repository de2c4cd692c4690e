package tracker

import (
	"github.com/mauv0809/fortnite-tracker/internal/config"
	"github.com/mauv0809/fortnite-tracker/internal/fortnite"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
)

// Tracker polls the stats API for every configured player and posts a
// notification the first time a new last match is seen.
type Tracker struct {
	players  []config.Player
	seen     *LastSeen
	stats    fortnite.StatsClient
	notifier notifier.Notifier
	metrics  metrics.Metrics
}

// Cycle summarises one pass over all players.
type Cycle struct {
	ID       string  `json:"id"`
	Checked  int     `json:"checked"`
	New      int     `json:"new"`
	Skipped  int     `json:"skipped"`
	Failed   int     `json:"failed"`
	Duration float64 `json:"duration_seconds"`
}

// PlayerStatus is a player together with the last match reported for them.
type PlayerStatus struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	LastMatchID string `json:"last_match_id,omitempty"`
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeNew
)
