package http

import (
	"net/http"
	"sync"

	"github.com/mauv0809/fortnite-tracker/internal/config"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
	"github.com/mauv0809/fortnite-tracker/internal/tracker"
)

type Server struct {
	Tracker        *tracker.Tracker
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	httpClient *http.Client
	pending    sync.WaitGroup
}

// ManualMatchRequest is the body of POST /matches.
type ManualMatchRequest struct {
	User      string `json:"user"`
	Won       bool   `json:"won"`
	Mode      string `json:"mode"`
	Type      string `json:"type"`
	Kills     int    `json:"kills"`
	Placement int    `json:"placement"`
	Skin      string `json:"skin"`
}

// ManualMatchResponse acknowledges a manual post.
type ManualMatchResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	aliveMessage = "Fortnite Tracker 🚀 is alive!"

	ackPending = "⏳ Posting match result..."
	ackSent    = "✅ Match result sent via webhook!"
	ackFailed  = "⚠️ Failed to send match result."
)
