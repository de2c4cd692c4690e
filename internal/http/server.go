package http

import (
	"net/http"
	"time"

	"github.com/mauv0809/fortnite-tracker/internal/config"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
	"github.com/mauv0809/fortnite-tracker/internal/tracker"
)

func NewServer(tracker *tracker.Tracker, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Tracker:        tracker,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// Handlers are wrapped with Chain so request scoped options apply uniformly.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /{$}", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /poll", Chain(s.PollHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.PostMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /slack/command/match", Chain(s.MatchCommandHandler(), paramsMiddleware, slackVerifier(s.Cfg.Slack.SigningSecret)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
