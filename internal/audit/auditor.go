package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tga-scoring-audit/internal/golfgenius"
	"github.com/mauv0809/tga-scoring-audit/internal/metrics"
	"github.com/mauv0809/tga-scoring-audit/internal/pubsub"
	"github.com/mauv0809/tga-scoring-audit/internal/report"
	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
	"github.com/mauv0809/tga-scoring-audit/internal/store"
	"golang.org/x/sync/errgroup"
)

const fetchFailurePrefix = "Unable to retrieve scoring data: "

// New creates a new Auditor. store may be nil, in which case runs are not
// persisted.
func New(provider golfgenius.Provider, analyzer *scoring.Analyzer, store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, opts ...Option) *Auditor {
	a := &Auditor{
		provider: provider,
		analyzer: analyzer,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
		workers:  defaultWorkers,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run audits every round of the season that falls inside the date range.
func (a *Auditor) Run(ctx context.Context, req Request) (*report.Summary, error) {
	summary := &report.Summary{
		RunID:      a.newID(),
		SeasonID:   req.SeasonID,
		SeasonName: req.SeasonName,
		Range:      req.Range,
		Polarity:   string(a.analyzer.Polarity()),
		DryRun:     req.DryRun,
		StartedAt:  a.now().UTC(),
	}
	log.Info("Starting scoring audit", "run", summary.RunID, "season", req.SeasonID, "range", req.Range.String(), "dry_run", req.DryRun)

	events, err := a.provider.GetAllEvents(ctx, req.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events for season %s: %w", req.SeasonID, err)
	}
	summary.EventCount = len(events)
	log.Info("Found events", "count", len(events))

	rounds, eventNames := a.collectRounds(ctx, events)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("Found rounds", "count", len(rounds))

	inRange := make([]golfgenius.Round, 0, len(rounds))
	for _, r := range rounds {
		if req.Range.Contains(r.Date) {
			inRange = append(inRange, r)
		}
	}
	log.Info("Filtered rounds to date range", "count", len(inRange), "range", req.Range.String())

	outcomes, err := a.analyzeRounds(ctx, inRange, eventNames)
	if err != nil {
		return nil, err
	}

	summary.TotalRounds = len(outcomes)
	for _, o := range outcomes {
		if o.round.IsFlagged {
			summary.FlaggedRounds = append(summary.FlaggedRounds, report.FlaggedRound{
				EventID:   o.round.EventID,
				EventName: o.eventName,
				RoundID:   o.round.ID,
				RoundName: o.round.Name,
				Date:      o.round.Date,
				Issue:     o.round.FlagReason,
			})
		}
	}
	summary.FinishedAt = a.now().UTC()

	if !req.DryRun {
		a.persist(ctx, summary, outcomes)
		a.publish(ctx, summary)
	}
	if summary.TotalRounds > 0 {
		if err := a.notifier.SendAuditSummary(ctx, summary, req.DryRun); err != nil {
			log.Error("Failed to send audit summary", "error", err, "run", summary.RunID)
		}
	} else {
		log.Info("No rounds found in the specified date range")
	}

	a.metrics.IncAuditRuns()
	log.Info("Scoring audit finished", "run", summary.RunID, "rounds", summary.TotalRounds,
		"flagged", len(summary.FlaggedRounds), "duration", summary.Duration())
	return summary, nil
}

// Inspect analyzes a single round without recording anything.
func (a *Auditor) Inspect(ctx context.Context, eventID, roundID string) (scoring.DetailedAnalysis, error) {
	sheet, err := a.provider.GetTeeSheet(ctx, eventID, roundID)
	if err != nil {
		return scoring.DetailedAnalysis{}, err
	}
	return a.analyzer.DetailedAnalysis(sheet), nil
}

// collectRounds gathers the rounds of every event. Events whose rounds cannot
// be fetched are skipped.
func (a *Auditor) collectRounds(ctx context.Context, events []golfgenius.Event) ([]golfgenius.Round, map[string]string) {
	var all []golfgenius.Round
	names := make(map[string]string, len(events))
	for i, event := range events {
		if ctx.Err() != nil {
			break
		}
		names[event.ID] = event.Name
		log.Debug("Processing event", "index", i+1, "total", len(events), "event", event.Name)

		rounds, err := a.provider.GetRounds(ctx, event.ID)
		if err != nil {
			log.Warn("Failed to fetch rounds for event", "event", event.Name, "error", err)
			a.metrics.IncRoundFetchFailures()
			continue
		}
		all = append(all, rounds...)
	}
	return all, names
}

// analyzeRounds fetches and analyzes rounds on a bounded pool of workers.
// Results keep the input order.
func (a *Auditor) analyzeRounds(ctx context.Context, rounds []golfgenius.Round, eventNames map[string]string) ([]outcome, error) {
	outcomes := make([]outcome, len(rounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range rounds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = a.analyzeRound(gctx, rounds[i], eventNames[rounds[i].EventID])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (a *Auditor) analyzeRound(ctx context.Context, round golfgenius.Round, eventName string) outcome {
	start := a.now()
	defer func() {
		a.metrics.ObserveAnalysisDuration(time.Since(start).Seconds())
	}()

	o := outcome{round: round, eventName: eventName}
	sheet, err := a.provider.GetTeeSheet(ctx, round.EventID, round.ID)
	if err != nil {
		o.round.Flag(fetchFailurePrefix + err.Error())
		a.metrics.IncRoundFetchFailures()
		a.metrics.IncRoundsFlagged()
		log.Warn("Flagged round, unable to analyze", "round", round.String(), "error", err)
		return o
	}

	o.detail = a.analyzer.DetailedAnalysis(sheet)
	a.metrics.IncRoundsAnalyzed()
	if o.detail.Flagged {
		o.round.Flag(o.detail.Reason)
		a.metrics.IncRoundsFlagged()
		log.Info("Flagged round", "round", round.String(), "reason", o.detail.Reason)
	} else {
		log.Debug("Round OK", "round", round.String(), "reason", o.detail.Reason)
	}
	return o
}

func (a *Auditor) persist(ctx context.Context, summary *report.Summary, outcomes []outcome) {
	if a.store == nil {
		return
	}
	run := store.Run{
		ID:            summary.RunID,
		SeasonID:      summary.SeasonID,
		SeasonName:    summary.SeasonName,
		RangeStart:    summary.Range.Start,
		RangeEnd:      summary.Range.End,
		Polarity:      summary.Polarity,
		TotalRounds:   summary.TotalRounds,
		FlaggedRounds: len(summary.FlaggedRounds),
		StartedAt:     summary.StartedAt,
		FinishedAt:    summary.FinishedAt,
	}
	if err := a.store.SaveRun(ctx, run); err != nil {
		log.Error("Failed to save audit run", "error", err, "run", run.ID)
		return
	}

	rows := make([]store.AuditedRound, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, store.AuditedRound{
			RunID:           summary.RunID,
			EventID:         o.round.EventID,
			EventName:       o.eventName,
			RoundID:         o.round.ID,
			RoundName:       o.round.Name,
			RoundDate:       o.round.Date,
			Flagged:         o.round.IsFlagged,
			Reason:          o.round.FlagReason,
			TotalPlayers:    o.detail.TotalPlayers,
			Front9Players:   o.detail.Front9Players,
			Back9Players:    o.detail.Back9Players,
			CompletePlayers: o.detail.CompletePlayers,
		})
	}
	if err := a.store.SaveRounds(ctx, summary.RunID, rows); err != nil {
		log.Error("Failed to save audited rounds", "error", err, "run", summary.RunID)
	}
}

func (a *Auditor) publish(ctx context.Context, summary *report.Summary) {
	for _, r := range summary.FlaggedRounds {
		event := pubsub.FlaggedRoundEvent{
			RunID:        summary.RunID,
			SeasonID:     summary.SeasonID,
			EventID:      r.EventID,
			RoundID:      r.RoundID,
			RoundName:    r.RoundName,
			Reason:       r.Issue,
			ScorecardURL: r.ScorecardURL(),
		}
		if r.Date != nil {
			event.Date = r.Date.Unix()
		}
		if err := a.pubsub.SendMessage(ctx, pubsub.EventRoundFlagged, event); err != nil {
			log.Error("Failed to publish flagged round", "error", err, "round", r.RoundID)
			continue
		}
		a.metrics.IncEventsPublished()
	}

	completed := pubsub.AuditCompletedEvent{
		RunID:         summary.RunID,
		SeasonID:      summary.SeasonID,
		TotalRounds:   summary.TotalRounds,
		FlaggedRounds: len(summary.FlaggedRounds),
		FinishedAt:    summary.FinishedAt.Unix(),
	}
	if err := a.pubsub.SendMessage(ctx, pubsub.EventAuditCompleted, completed); err != nil {
		log.Error("Failed to publish audit completion", "error", err, "run", summary.RunID)
		return
	}
	a.metrics.IncEventsPublished()
}
