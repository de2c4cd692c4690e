package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/fortnite-tracker/internal/match"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
)

const (
	commandMatch = "cmatch"

	ackSent   = "✅ Match result sent via webhook!"
	ackFailed = "⚠️ Failed to send match result."
)

// Commands returns the slash command definitions.
func Commands() []*discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(match.Modes))
	for i, mode := range match.Modes {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: mode, Value: mode}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        commandMatch,
			Description: "Post a match result through the webhook",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player who played the match",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "won",
					Description: "Did they win?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Game mode",
					Required:    true,
					Choices:     choices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "Match type (e.g., Zero Build)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "kills",
					Description: "Number of eliminations",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "placement",
					Description: "Final placement",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "skin",
					Description: "Skin image URL",
				},
			},
		},
	}
}

// Responder answers an interaction. Respond sends the initial response and
// Edit replaces it once the outcome is known.
type Responder interface {
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	Edit(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error
}

// sessionResponder answers through a gateway session.
type sessionResponder struct {
	session *discordgo.Session
}

func (r sessionResponder) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(i, resp)
}

func (r sessionResponder) Edit(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := r.session.InteractionResponseEdit(i, edit)
	return err
}

// CommandHandler turns /cmatch invocations into notifications. Manual posts
// never touch the poller's last-seen table.
type CommandHandler struct {
	notifier notifier.Notifier
	metrics  metrics.Metrics
	dryRun   bool
}

func NewCommandHandler(notifier notifier.Notifier, metrics metrics.Metrics, dryRun bool) *CommandHandler {
	return &CommandHandler{notifier: notifier, metrics: metrics, dryRun: dryRun}
}

// Handle dispatches an interaction. Anything other than /cmatch is ignored.
// Discord drops interactions that are not answered within three seconds, so
// the reply is deferred before the webhook is called and edited afterwards.
func (h *CommandHandler) Handle(responder Responder, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandMatch {
		log.Warn("Unknown command", "command", data.Name)
		return
	}

	err := responder.Respond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Error("Failed to defer interaction response", "error", err)
		return
	}

	ack := h.sendMatch(data.Options)
	if err := responder.Edit(i.Interaction, &discordgo.WebhookEdit{Content: &ack}); err != nil {
		log.Error("Failed to edit interaction response", "error", err)
	}
}

// sendMatch posts the result described by the options and returns the
// acknowledgement to show the user.
func (h *CommandHandler) sendMatch(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	result, err := resultFromOptions(options)
	if err != nil {
		log.Error("Invalid /cmatch options", "error", err)
		return ackFailed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	h.metrics.IncManualPosts()
	if err := h.notifier.SendMatchResult(ctx, &result, h.dryRun); err != nil {
		log.Error("Failed to send manual match result", "player", result.PlayerID, "error", err)
		return ackFailed
	}
	log.Info("Manual match result sent", "player", result.PlayerID, "victory", result.Victory)
	return ackSent
}

// resultFromOptions maps /cmatch options onto a manual match result.
func resultFromOptions(options []*discordgo.ApplicationCommandInteractionDataOption) (match.Result, error) {
	result := match.Result{Manual: true}
	for _, opt := range options {
		switch opt.Name {
		case "user":
			result.PlayerID = opt.UserValue(nil).ID
		case "won":
			result.Victory = opt.BoolValue()
		case "mode":
			result.Mode = opt.StringValue()
		case "type":
			result.Type = opt.StringValue()
		case "kills":
			result.Kills = int(opt.IntValue())
		case "placement":
			result.Placement = int(opt.IntValue())
		case "skin":
			result.SkinURL = opt.StringValue()
		}
	}
	if err := result.Validate(); err != nil {
		return match.Result{}, fmt.Errorf("failed to build match result: %w", err)
	}
	return result, nil
}
