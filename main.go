package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fortnite-tracker/internal/config"
	"github.com/mauv0809/fortnite-tracker/internal/discord"
	"github.com/mauv0809/fortnite-tracker/internal/fortnite"
	server "github.com/mauv0809/fortnite-tracker/internal/http"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
	discordnotifier "github.com/mauv0809/fortnite-tracker/internal/notifier/discord"
	slacknotifier "github.com/mauv0809/fortnite-tracker/internal/notifier/slack"
	"github.com/mauv0809/fortnite-tracker/internal/tracker"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	statsClient := fortnite.NewClient(cfg.Fortnite.BaseURL, cfg.Fortnite.APIKey)
	notif := newNotifier(cfg, metricsSvc)
	matchTracker := tracker.New(cfg.Players, statsClient, notif, metricsSvc)
	s := server.NewServer(matchTracker, notif, metricsSvc, metricsHandler, cfg)

	var bot *discord.Bot
	if cfg.Discord.Token != "" {
		b, err := discord.New(cfg.Discord, notif, metricsSvc, cfg.DryRun)
		if err != nil {
			log.Fatalf("Failed to create Discord bot: %s", err)
		}
		if err := b.Start(); err != nil {
			log.Error("Discord bot failed to start, /cmatch is unavailable", "error", err)
		} else {
			bot = b
		}
	} else {
		log.Info("DISCORD_BOT_TOKEN not set, /cmatch is disabled")
	}

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := matchTracker.Announce(ctx, cfg.DryRun); err != nil {
			log.Warn("Startup API check failed, polling anyway", "error", err)
		}
		matchTracker.Run(ctx, cfg.PollInterval, cfg.DryRun)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	stop()
	<-pollerDone
	s.Wait()
	if bot != nil {
		if err := bot.Stop(); err != nil {
			log.Error("Failed to close Discord session", "error", err)
		}
	}
	log.Info("Server process shutting down")
}

func newNotifier(cfg config.Config, metricsSvc metrics.Metrics) notifier.Notifier {
	switch cfg.Webhook.Platform {
	case config.PlatformSlack:
		log.Info("Posting notifications to Slack")
		return slacknotifier.NewNotifier(cfg.Webhook.URL, metricsSvc)
	default:
		log.Info("Posting notifications to Discord")
		return discordnotifier.NewNotifier(cfg.Webhook.URL, metricsSvc)
	}
}
