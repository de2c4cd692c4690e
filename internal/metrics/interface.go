package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncPollCycles()
	ObservePollDuration(seconds float64)
	IncMatchesDetected()
	IncStatsFetchFailed()
	IncNotifSent()
	IncNotifFailed()
	IncManualPosts()
	SetStartupTime(seconds float64)
}
