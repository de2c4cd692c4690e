package notifier

import (
	"context"

	"github.com/mauv0809/fortnite-tracker/internal/match"
)

// Notifier defines a high-level interface for posting to the destination channel.
// This decouples the rest of the application from the chat platform behind the webhook.
type Notifier interface {
	// SendMatchResult renders a match result and posts it. Exactly one request per call.
	SendMatchResult(ctx context.Context, result *match.Result, dryRun bool) error
	// SendStatus posts a plain text status line, e.g. the startup announcement.
	SendStatus(ctx context.Context, text string, dryRun bool) error
}
