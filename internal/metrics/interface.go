package metrics

// Metrics defines the interface for collecting audit metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncAuditRuns()
	IncRoundsAnalyzed()
	IncRoundsFlagged()
	IncRoundFetchFailures()
	ObserveAnalysisDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncEventsPublished()
	SetStartupTime(duration float64)
}
