package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultPort         = "8080"
	defaultLogLevel     = "info"
	defaultPollInterval = 60 * time.Second
	defaultFortniteURL  = "https://fortniteapi.io"
)

// Load reads configuration from a .env file, an optional JSON config file and
// environment variables. It exits the process if the configuration is invalid.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromLookup builds a Config from the given lookup function. Values found in the
// file named by CONFIG_FILE are used when the lookup has no value for a key.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	var file fileConfig
	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		Port:     get("PORT", orDefault(file.Port, defaultPort)),
		LogLevel: get("LOG_LEVEL", orDefault(file.LogLevel, defaultLogLevel)),
		Webhook: WebhookConfig{
			URL: get("WEBHOOK_URL", file.WebhookURL),
		},
		Fortnite: FortniteConfig{
			APIKey:  get("FORTNITE_API_KEY", file.FortniteAPIKey),
			BaseURL: strings.TrimRight(get("FORTNITE_API_URL", orDefault(file.FortniteAPIURL, defaultFortniteURL)), "/"),
		},
		Discord: DiscordConfig{
			Token:   get("DISCORD_BOT_TOKEN", file.DiscordBotToken),
			GuildID: get("DISCORD_GUILD_ID", file.DiscordGuildID),
		},
		Slack: SlackConfig{
			SigningSecret: get("SLACK_SIGNING_SECRET", file.SlackSigningSecret),
		},
	}

	if cfg.Webhook.URL == "" {
		return Config{}, errors.New("WEBHOOK_URL is required")
	}
	webhookURL, err := url.Parse(cfg.Webhook.URL)
	if err != nil || webhookURL.Scheme == "" || webhookURL.Host == "" {
		return Config{}, fmt.Errorf("WEBHOOK_URL is not a valid URL: %q", cfg.Webhook.URL)
	}
	if cfg.Fortnite.APIKey == "" {
		return Config{}, errors.New("FORTNITE_API_KEY is required")
	}

	platform, err := parsePlatform(get("WEBHOOK_PLATFORM", file.WebhookPlatform), webhookURL)
	if err != nil {
		return Config{}, err
	}
	cfg.Webhook.Platform = platform

	interval, err := time.ParseDuration(get("POLL_INTERVAL", orDefault(file.PollInterval, defaultPollInterval.String())))
	if err != nil {
		return Config{}, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive, got %s", interval)
	}
	cfg.PollInterval = interval

	if raw := get("DRY_RUN", ""); raw != "" {
		cfg.DryRun, err = strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DRY_RUN: %w", err)
		}
	}

	players := file.Players
	if raw := get("PLAYERS", ""); raw != "" {
		players, err = ParsePlayers(raw)
		if err != nil {
			return Config{}, err
		}
	}
	if err := validatePlayers(players); err != nil {
		return Config{}, err
	}
	cfg.Players = players

	return cfg, nil
}

// ParsePlayers parses a comma separated list of id=handle pairs, keeping their order.
func ParsePlayers(raw string) ([]Player, error) {
	var players []Player
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, handle, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid PLAYERS entry %q, expected id=handle", pair)
		}
		players = append(players, Player{ID: strings.TrimSpace(id), Handle: strings.TrimSpace(handle)})
	}
	return players, nil
}

func validatePlayers(players []Player) error {
	if len(players) == 0 {
		return errors.New("at least one player is required (PLAYERS or players in CONFIG_FILE)")
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.ID == "" || p.Handle == "" {
			return fmt.Errorf("player entry needs both id and handle: %+v", p)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func parsePlatform(raw string, webhookURL *url.URL) (Platform, error) {
	switch strings.ToLower(raw) {
	case string(PlatformDiscord):
		return PlatformDiscord, nil
	case string(PlatformSlack):
		return PlatformSlack, nil
	case "":
		if host := webhookURL.Hostname(); host == "slack.com" || strings.HasSuffix(host, ".slack.com") {
			return PlatformSlack, nil
		}
		return PlatformDiscord, nil
	default:
		return "", fmt.Errorf("unknown WEBHOOK_PLATFORM %q", raw)
	}
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
