package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/fortnite-tracker/internal/config"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
)

// Bot serves the /cmatch slash command over a Discord gateway session.
type Bot struct {
	session  *discordgo.Session
	guildID  string
	handler  *CommandHandler
	commands []*discordgo.ApplicationCommand
}

// New creates a Bot. The gateway connection is opened by Start.
func New(cfg config.DiscordConfig, notifier notifier.Notifier, metrics metrics.Metrics, dryRun bool) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session: session,
		guildID: cfg.GuildID,
		handler: NewCommandHandler(notifier, metrics, dryRun),
	}
	session.AddHandler(b.handleInteraction)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("Discord bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	return b, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	appID := b.session.State.User.ID
	for _, cmd := range Commands() {
		registered, err := b.session.ApplicationCommandCreate(appID, b.guildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, registered)
	}
	log.Info("Slash commands registered", "count", len(b.commands), "guildID", b.guildID)
	return nil
}

// Stop removes guild scoped commands and closes the session. Global commands
// are kept since they take a while to propagate again.
func (b *Bot) Stop() error {
	if b.guildID != "" {
		for _, cmd := range b.commands {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.guildID, cmd.ID); err != nil {
				log.Error("Failed to remove command", "name", cmd.Name, "error", err)
			}
		}
	}
	return b.session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handler.Handle(sessionResponder{session: s}, i)
}
