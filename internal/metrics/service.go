package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fortnite_poll_cycles_total",
			Help: "The total number of poll cycles run.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fortnite_poll_cycle_duration_seconds",
			Help:    "The duration of a full poll cycle over all players.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		MatchesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fortnite_matches_detected_total",
			Help: "The total number of new matches detected by the poller.",
		}),
		StatsFetchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fortnite_stats_fetch_failed_total",
			Help: "The total number of stats requests that failed.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fortnite_notifications_sent_total",
			Help: "The total number of webhook notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fortnite_notifications_failed_total",
			Help: "The total number of webhook notifications that failed to send.",
		}),
		ManualPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fortnite_manual_posts_total",
			Help: "The total number of match results posted through a command.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fortnite_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PollCycles,
		s.PollDuration,
		s.MatchesDetected,
		s.StatsFetchFailed,
		s.NotifSent,
		s.NotifFailed,
		s.ManualPosts,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPollCycles() {
	s.PollCycles.Inc()
}

func (s *Service) ObservePollDuration(seconds float64) {
	s.PollDuration.Observe(seconds)
}

func (s *Service) IncMatchesDetected() {
	s.MatchesDetected.Inc()
}

func (s *Service) IncStatsFetchFailed() {
	s.StatsFetchFailed.Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) IncManualPosts() {
	s.ManualPosts.Inc()
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
