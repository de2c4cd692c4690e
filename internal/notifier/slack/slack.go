package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fortnite-tracker/internal/match"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
	"github.com/slack-go/slack"
)

// webhookClient contains the one call we make against Slack.
// This allows for easy mocking in tests.
type webhookClient interface {
	PostWebhookContext(ctx context.Context, msg *slack.WebhookMessage) error
}

// incomingWebhook posts to a Slack incoming webhook URL.
type incomingWebhook struct {
	url        string
	httpClient *http.Client
}

func (w *incomingWebhook) PostWebhookContext(ctx context.Context, msg *slack.WebhookMessage) error {
	return slack.PostWebhookCustomHTTPContext(ctx, w.url, w.httpClient, msg)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts match results to a Slack incoming webhook as attachments.
type Notifier struct {
	api     webhookClient
	metrics metrics.Metrics
	now     func() time.Time
}

// NewNotifier creates a new Notifier for the given webhook URL.
func NewNotifier(webhookURL string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(&incomingWebhook{
		url:        webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific webhook client.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api webhookClient, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:     api,
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *Notifier) SendMatchResult(ctx context.Context, result *match.Result, dryRun bool) error {
	msg := formatMatchResult(match.Render(*result, s.now()))
	return s.sendMessage(ctx, msg, dryRun)
}

func (s *Notifier) SendStatus(ctx context.Context, text string, dryRun bool) error {
	return s.sendMessage(ctx, &slack.WebhookMessage{Text: text}, dryRun)
}

func (s *Notifier) sendMessage(ctx context.Context, msg *slack.WebhookMessage, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(msg, "", "  ")
		log.Info("[Dry Run] Would send Slack webhook message", "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.api.PostWebhookContext(ctx, msg); err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack webhook message", "error", err)
		return fmt.Errorf("failed to post webhook: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack webhook message")
	return nil
}

// formatMatchResult maps the rendered message onto a single Slack attachment.
func formatMatchResult(msg match.Message) *slack.WebhookMessage {
	fields := make([]slack.AttachmentField, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, slack.AttachmentField{
			Title: f.Name,
			Value: f.Value,
			Short: f.Inline,
		})
	}

	attachment := slack.Attachment{
		Color:    fmt.Sprintf("#%06X", msg.Color),
		Fallback: msg.Description,
		Title:    msg.Title,
		Text:     msg.Description,
		Fields:   fields,
		ThumbURL: msg.ThumbnailURL,
		Footer:   msg.Footer,
		Ts:       json.Number(strconv.FormatInt(msg.Timestamp.Unix(), 10)),
	}

	return &slack.WebhookMessage{
		Text:        msg.Description,
		Attachments: []slack.Attachment{attachment},
	}
}
