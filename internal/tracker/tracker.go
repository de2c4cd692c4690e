package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/fortnite-tracker/internal/config"
	"github.com/mauv0809/fortnite-tracker/internal/fortnite"
	"github.com/mauv0809/fortnite-tracker/internal/match"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
)

const (
	statusOnline    = "✅ **Fortnite Tracker Online!** 🚀"
	statusAPIOK     = "🌐 Connected to Fortnite API successfully!"
	statusAPIFailed = "⚠️ Failed to connect to Fortnite API."
	statusAPIError  = "❌ Fortnite API connection error."
)

// New creates a new Tracker with an empty last-seen table.
func New(players []config.Player, stats fortnite.StatsClient, notifier notifier.Notifier, metrics metrics.Metrics) *Tracker {
	return &Tracker{
		players:  players,
		seen:     NewLastSeen(),
		stats:    stats,
		notifier: notifier,
		metrics:  metrics,
	}
}

// Announce runs the startup phases once: post an online status, then check that
// the stats API answers for the first configured player and post the outcome.
// The returned error is the API check failure, if any.
func (t *Tracker) Announce(ctx context.Context, dryRun bool) error {
	if err := t.notifier.SendStatus(ctx, statusOnline, dryRun); err != nil {
		log.Error("Failed to announce startup", "error", err)
	}

	if len(t.players) == 0 {
		log.Warn("No players configured, skipping API check")
		return nil
	}

	first := t.players[0]
	_, err := t.stats.GetLastMatch(ctx, first.Handle)
	if err != nil && !isSoftMiss(err) {
		log.Error("Fortnite API connection failed", "handle", first.Handle, "error", err)
		status := statusAPIError
		if errors.Is(err, fortnite.ErrUnexpectedStatus) {
			status = statusAPIFailed
		}
		if sendErr := t.notifier.SendStatus(ctx, status, dryRun); sendErr != nil {
			log.Error("Failed to post API status", "error", sendErr)
		}
		return fmt.Errorf("stats API check failed: %w", err)
	}

	log.Info("Fortnite API connection successful", "handle", first.Handle)
	if err := t.notifier.SendStatus(ctx, statusAPIOK, dryRun); err != nil {
		log.Error("Failed to post API status", "error", err)
	}
	return nil
}

// Run polls all players, then waits interval before the next cycle. The wait
// starts after a cycle ends, so cycles drift by their own duration.
// Run returns when ctx is cancelled.
func (t *Tracker) Run(ctx context.Context, interval time.Duration, dryRun bool) {
	log.Info("Starting poller", "interval", interval, "players", len(t.players))
	for {
		t.PollOnce(ctx, dryRun)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Poller stopped (context cancelled)")
			return
		case <-timer.C:
		}
	}
}

// PollOnce checks every player once, in configuration order.
// A failure for one player is logged and never stops the cycle.
func (t *Tracker) PollOnce(ctx context.Context, dryRun bool) Cycle {
	startTime := time.Now()
	cycle := Cycle{ID: uuid.NewString()}
	t.metrics.IncPollCycles()
	log.Debug("Starting poll cycle", "cycleID", cycle.ID, "players", len(t.players))

	for _, player := range t.players {
		if ctx.Err() != nil {
			log.Warn("Poll cycle interrupted", "cycleID", cycle.ID, "error", ctx.Err())
			break
		}
		cycle.Checked++

		result, err := t.checkPlayer(ctx, player, dryRun)
		if err != nil {
			cycle.Failed++
			log.Error("Failed to process player", "cycleID", cycle.ID, "player", player.Handle, "error", err)
		}
		switch result {
		case outcomeNew:
			cycle.New++
		case outcomeSkipped:
			if err == nil {
				cycle.Skipped++
			}
		}
	}

	duration := time.Since(startTime).Seconds()
	cycle.Duration = duration
	t.metrics.ObservePollDuration(duration)
	log.Info("Poll cycle finished", "cycleID", cycle.ID, "checked", cycle.Checked, "new", cycle.New, "failed", cycle.Failed)
	return cycle
}

// checkPlayer fetches the player's last match and notifies when it is new.
// The match id is recorded before the notification is sent, so a failed
// delivery is not retried on the next cycle.
func (t *Tracker) checkPlayer(ctx context.Context, player config.Player, dryRun bool) (result outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while checking player %s: %v", player.Handle, r)
		}
	}()

	last, err := t.stats.GetLastMatch(ctx, player.Handle)
	if isSoftMiss(err) {
		log.Debug("No match data for player", "player", player.Handle, "reason", err)
		return outcomeSkipped, nil
	}
	if err != nil {
		t.metrics.IncStatsFetchFailed()
		return outcomeSkipped, fmt.Errorf("failed to fetch stats: %w", err)
	}

	if !t.seen.Record(player.ID, last.ID) {
		log.Debug("Match already reported", "player", player.Handle, "matchID", last.ID)
		return outcomeSkipped, nil
	}

	t.metrics.IncMatchesDetected()
	log.Info("New match detected", "player", player.Handle, "matchID", last.ID, "victory", last.Victory)

	res := &match.Result{
		PlayerID:  player.ID,
		Handle:    player.Handle,
		MatchID:   last.ID,
		Mode:      last.Mode,
		Type:      last.Type,
		Kills:     last.Kills,
		Placement: last.Placement,
		Victory:   last.Victory,
		SkinURL:   last.SkinURL,
	}
	if err := t.notifier.SendMatchResult(ctx, res, dryRun); err != nil {
		return outcomeNew, fmt.Errorf("failed to send notification for match %s: %w", last.ID, err)
	}
	return outcomeNew, nil
}

// Snapshot returns the configured players and the last match reported for each.
func (t *Tracker) Snapshot() []PlayerStatus {
	statuses := make([]PlayerStatus, 0, len(t.players))
	for _, p := range t.players {
		id, _ := t.seen.Get(p.ID)
		statuses = append(statuses, PlayerStatus{ID: p.ID, Handle: p.Handle, LastMatchID: id})
	}
	return statuses
}

func isSoftMiss(err error) bool {
	return errors.Is(err, fortnite.ErrNoStats) || errors.Is(err, fortnite.ErrNoMatch)
}
