package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/fortnite-tracker/internal/match"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
)

// httpDoer is the part of http.Client we use.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts match results to a Discord webhook as embeds.
type Notifier struct {
	httpClient httpDoer
	webhookURL string
	metrics    metrics.Metrics
	now        func() time.Time
}

// NewNotifier creates a new Notifier for the given webhook URL.
func NewNotifier(webhookURL string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithClient(&http.Client{Timeout: 10 * time.Second}, webhookURL, metrics)
}

// NewNotifierWithClient creates a new Notifier using a specific HTTP client.
func NewNotifierWithClient(client httpDoer, webhookURL string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		httpClient: client,
		webhookURL: webhookURL,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (d *Notifier) SendMatchResult(ctx context.Context, result *match.Result, dryRun bool) error {
	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{formatEmbed(match.Render(*result, d.now()))},
	}
	return d.sendMessage(ctx, params, dryRun)
}

func (d *Notifier) SendStatus(ctx context.Context, text string, dryRun bool) error {
	return d.sendMessage(ctx, &discordgo.WebhookParams{Content: text}, dryRun)
}

func (d *Notifier) sendMessage(ctx context.Context, params *discordgo.WebhookParams, dryRun bool) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	if dryRun {
		log.Info("[Dry Run] Would send Discord webhook message", "payload", string(body))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.metrics.IncNotifFailed()
		log.Error("Failed to send Discord webhook message", "error", err)
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		d.metrics.IncNotifFailed()
		log.Error("Discord webhook rejected message", "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	d.metrics.IncNotifSent()
	log.Info("Successfully sent Discord webhook message", "status", resp.StatusCode)
	return nil
}

// formatEmbed maps the rendered message onto a Discord embed.
func formatEmbed(msg match.Message) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
		Footer:      &discordgo.MessageEmbedFooter{Text: msg.Footer},
	}
	if !msg.Timestamp.IsZero() {
		embed.Timestamp = msg.Timestamp.Format(time.RFC3339)
	}
	if msg.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: msg.ThumbnailURL}
	}
	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}
