package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	AuditRuns          prometheus.Counter
	RoundsAnalyzed     prometheus.Counter
	RoundsFlagged      prometheus.Counter
	RoundFetchFailures prometheus.Counter
	AnalysisDuration   prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	EventsPublished    prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
