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
		AuditRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tga_audit_runs_total",
			Help: "The total number of completed audit runs.",
		}),
		RoundsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tga_audit_rounds_analyzed_total",
			Help: "The total number of rounds whose tee sheet was analyzed.",
		}),
		RoundsFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tga_audit_rounds_flagged_total",
			Help: "The total number of rounds flagged for manual review.",
		}),
		RoundFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tga_audit_round_fetch_failures_total",
			Help: "The total number of rounds or tee sheets that could not be retrieved.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tga_audit_round_duration_seconds",
			Help:    "Time to fetch and analyze a single round.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tga_audit_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tga_audit_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tga_audit_events_published_total",
			Help: "The total number of flagged-round events published.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tga_audit_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.AuditRuns,
		s.RoundsAnalyzed,
		s.RoundsFlagged,
		s.RoundFetchFailures,
		s.AnalysisDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.EventsPublished,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncAuditRuns() {
	s.AuditRuns.Inc()
}

func (s *Service) IncRoundsAnalyzed() {
	s.RoundsAnalyzed.Inc()
}

func (s *Service) IncRoundsFlagged() {
	s.RoundsFlagged.Inc()
}

func (s *Service) IncRoundFetchFailures() {
	s.RoundFetchFailures.Inc()
}

func (s *Service) ObserveAnalysisDuration(duration float64) {
	s.AnalysisDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
