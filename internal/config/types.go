package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Port         string
	LogLevel     string
	DryRun       bool
	PollInterval time.Duration
	Players      []Player
	Webhook      WebhookConfig
	Fortnite     FortniteConfig
	Discord      DiscordConfig
	Slack        SlackConfig
}

// Player maps an external account id (used for mentions) to the handle
// looked up on the statistics API.
type Player struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

type WebhookConfig struct {
	URL      string
	Platform Platform
}

type FortniteConfig struct {
	APIKey  string
	BaseURL string
}

type DiscordConfig struct {
	Token   string
	GuildID string
}

type SlackConfig struct {
	SigningSecret string
}

// Platform is the chat platform behind the webhook URL.
type Platform string

const (
	PlatformDiscord Platform = "discord"
	PlatformSlack   Platform = "slack"
)

// fileConfig is the shape of the optional JSON config file.
type fileConfig struct {
	WebhookURL         string   `json:"webhook_url"`
	WebhookPlatform    string   `json:"webhook_platform"`
	FortniteAPIKey     string   `json:"fortnite_api_key"`
	FortniteAPIURL     string   `json:"fortnite_api_url"`
	DiscordBotToken    string   `json:"discord_bot_token"`
	DiscordGuildID     string   `json:"discord_guild_id"`
	SlackSigningSecret string   `json:"slack_signing_secret"`
	Port               string   `json:"port"`
	PollInterval       string   `json:"poll_interval"`
	LogLevel           string   `json:"log_level"`
	Players            []Player `json:"players"`
}
