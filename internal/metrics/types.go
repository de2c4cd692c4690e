package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	PollCycles         prometheus.Counter
	PollDuration       prometheus.Histogram
	MatchesDetected    prometheus.Counter
	StatsFetchFailed   prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	ManualPosts        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
