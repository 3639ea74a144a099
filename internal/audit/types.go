package audit

import (
	"time"

	"github.com/mauv0809/tga-scoring-audit/internal/daterange"
	"github.com/mauv0809/tga-scoring-audit/internal/golfgenius"
	"github.com/mauv0809/tga-scoring-audit/internal/metrics"
	"github.com/mauv0809/tga-scoring-audit/internal/pubsub"
	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
)

const defaultWorkers = 4

// Auditor walks a season's rounds and flags the ones whose scoring needs
// review.
type Auditor struct {
	provider golfgenius.Provider
	analyzer *scoring.Analyzer
	store    Store
	notifier Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	workers  int
	now      func() time.Time
	newID    func() string
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithWorkers bounds how many rounds are fetched and analyzed at once.
func WithWorkers(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.workers = n
		}
	}
}

// Request selects what to audit.
type Request struct {
	SeasonID   string
	SeasonName string
	Range      daterange.Range
	// DryRun skips persistence and event publishing, and only logs the
	// Slack summary.
	DryRun bool
}

// outcome is the analysis result for one round.
type outcome struct {
	round     golfgenius.Round
	eventName string
	detail    scoring.DetailedAnalysis
}
