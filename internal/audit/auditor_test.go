package audit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mauv0809/tga-scoring-audit/internal/daterange"
	"github.com/mauv0809/tga-scoring-audit/internal/golfgenius"
	"github.com/mauv0809/tga-scoring-audit/internal/metrics"
	"github.com/mauv0809/tga-scoring-audit/internal/notifier"
	"github.com/mauv0809/tga-scoring-audit/internal/pubsub"
	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
	"github.com/mauv0809/tga-scoring-audit/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// card builds a one-player tee sheet with scores on the requested halves.
func card(front, back bool) scoring.TeeSheet {
	scores := make([]any, 18)
	for i := range scores {
		if (i < 9 && front) || (i >= 9 && back) {
			scores[i] = float64(4)
		}
	}
	return scoring.TeeSheet{
		map[string]any{"pairing_group": map[string]any{
			"players": []any{map[string]any{"name": "Player", "scores": scores}},
		}},
	}
}

func day(d int) *time.Time {
	t := time.Date(2025, 6, d, 9, 0, 0, 0, time.UTC)
	return &t
}

func juneRange(t *testing.T) daterange.Range {
	t.Helper()
	r, err := daterange.ValidateRange("2025-06-01", "2025-06-30")
	require.NoError(t, err)
	return r
}

type fixture struct {
	provider *golfgenius.MockClient
	store    *store.MockStore
	notifier *notifier.Mock
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
}

func newFixture() *fixture {
	f := &fixture{
		provider: golfgenius.NewMockClient(),
		store:    store.NewMock(),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
		pubsub:   pubsub.NewMock(),
	}
	f.provider.GetAllEventsFunc = func(ctx context.Context, seasonID string) ([]golfgenius.Event, error) {
		return []golfgenius.Event{
			{ID: "e1", Name: "Spring League"},
			{ID: "e2", Name: "Broken Event"},
			{ID: "e3", Name: "Match Play"},
		}, nil
	}
	f.provider.GetRoundsFunc = func(ctx context.Context, eventID string) ([]golfgenius.Round, error) {
		switch eventID {
		case "e1":
			return []golfgenius.Round{
				{ID: "r1", EventID: "e1", Name: "Round 1", Date: day(7)},
				{ID: "r2", EventID: "e1", Name: "Round 2", Date: day(14)},
				{ID: "r-undated", EventID: "e1", Name: "Undated"},
			}, nil
		case "e2":
			return nil, errors.New("HTTP 500: boom")
		default:
			outOfRange := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
			return []golfgenius.Round{
				{ID: "r3", EventID: "e3", Name: "Round 3", Date: day(21)},
				{ID: "r-july", EventID: "e3", Name: "July", Date: &outOfRange},
			}, nil
		}
	}
	f.provider.GetTeeSheetFunc = func(ctx context.Context, eventID, roundID string) (scoring.TeeSheet, error) {
		switch roundID {
		case "r1":
			return card(true, true), nil
		case "r2":
			return card(true, false), nil
		case "r3":
			return nil, errors.New("HTTP 404: not found")
		}
		return nil, fmt.Errorf("unexpected round %s", roundID)
	}
	return f
}

func (f *fixture) auditor(opts ...Option) *Auditor {
	a := New(f.provider, scoring.NewAnalyzer(), f.store, f.notifier, f.metrics, f.pubsub, opts...)
	a.newID = func() string { return "run-1" }
	return a
}

func TestAuditor_Run(t *testing.T) {
	t.Run("flags rounds and records the run", func(t *testing.T) {
		f := newFixture()
		a := f.auditor()

		summary, err := a.Run(context.Background(), Request{SeasonID: "s1", SeasonName: "2025 Season", Range: juneRange(t)})
		require.NoError(t, err)

		assert.Equal(t, "run-1", summary.RunID)
		assert.Equal(t, 3, summary.EventCount)
		assert.Equal(t, 3, summary.TotalRounds)
		require.Len(t, summary.FlaggedRounds, 2)
		assert.Equal(t, "r1", summary.FlaggedRounds[0].RoundID)
		assert.Equal(t, "Complete scoring detected: F9=1, B9=1 players", summary.FlaggedRounds[0].Issue)
		assert.Equal(t, "Spring League", summary.FlaggedRounds[0].EventName)
		assert.Equal(t, "r3", summary.FlaggedRounds[1].RoundID)
		assert.Equal(t, "Unable to retrieve scoring data: HTTP 404: not found", summary.FlaggedRounds[1].Issue)
		assert.Equal(t, 1, summary.CleanRounds())
		assert.Equal(t, "complete", summary.Polarity)

		assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, teeSheetRounds(f.provider))

		run, ok := f.store.Runs["run-1"]
		require.True(t, ok, "run should be persisted")
		assert.Equal(t, 3, run.TotalRounds)
		assert.Equal(t, 2, run.FlaggedRounds)
		require.Len(t, f.store.Rounds["run-1"], 3)
		saved := f.store.Rounds["run-1"][0]
		assert.Equal(t, 1, saved.CompletePlayers)
		assert.True(t, saved.Flagged)

		require.Len(t, f.pubsub.SendMessageCalls, 3)
		assert.Equal(t, pubsub.EventRoundFlagged, f.pubsub.SendMessageCalls[0].Topic)
		flagged := f.pubsub.SendMessageCalls[0].Data.(pubsub.FlaggedRoundEvent)
		assert.Equal(t, "https://www.golfgenius.com/leagues/e1/rounds/r1/scorecards", flagged.ScorecardURL)
		assert.Equal(t, day(7).Unix(), flagged.Date)
		assert.Equal(t, pubsub.EventAuditCompleted, f.pubsub.SendMessageCalls[2].Topic)

		require.Len(t, f.notifier.SendAuditSummaryCalls, 1)
		assert.False(t, f.notifier.SendAuditSummaryCalls[0].DryRun)
		assert.Same(t, summary, f.notifier.SendAuditSummaryCalls[0].Summary)

		assert.Equal(t, 1, f.metrics.AuditRuns())
		assert.Equal(t, 2, f.metrics.RoundsAnalyzed())
		assert.Equal(t, 2, f.metrics.RoundsFlagged())
		assert.Equal(t, 2, f.metrics.RoundFetchFailures(), "one event and one tee sheet failed")
		assert.Equal(t, 3, f.metrics.EventsPublished())
		assert.Len(t, f.metrics.AnalysisDurations(), 3)
	})

	t.Run("dry run skips persistence and publishing", func(t *testing.T) {
		f := newFixture()
		a := f.auditor()

		summary, err := a.Run(context.Background(), Request{SeasonID: "s1", Range: juneRange(t), DryRun: true})
		require.NoError(t, err)
		assert.True(t, summary.DryRun)
		assert.Len(t, summary.FlaggedRounds, 2)

		assert.Empty(t, f.store.SaveRunCalls)
		assert.Empty(t, f.pubsub.SendMessageCalls)
		require.Len(t, f.notifier.SendAuditSummaryCalls, 1)
		assert.True(t, f.notifier.SendAuditSummaryCalls[0].DryRun)
	})

	t.Run("incomplete polarity flags partial rounds", func(t *testing.T) {
		f := newFixture()
		a := New(f.provider, scoring.NewAnalyzer(scoring.WithPolarity(scoring.PolarityIncomplete)), f.store, f.notifier, f.metrics, f.pubsub)

		summary, err := a.Run(context.Background(), Request{SeasonID: "s1", Range: juneRange(t)})
		require.NoError(t, err)
		require.Len(t, summary.FlaggedRounds, 2)
		assert.Equal(t, "r2", summary.FlaggedRounds[0].RoundID)
		assert.Equal(t, "Only front 9 scores found (1/1 players)", summary.FlaggedRounds[0].Issue)
		assert.Equal(t, "r3", summary.FlaggedRounds[1].RoundID)
	})

	t.Run("no rounds in range", func(t *testing.T) {
		f := newFixture()
		a := f.auditor()
		r, err := daterange.ValidateRange("2024-01-01", "2024-01-31")
		require.NoError(t, err)

		summary, err := a.Run(context.Background(), Request{SeasonID: "s1", Range: r})
		require.NoError(t, err)
		assert.Zero(t, summary.TotalRounds)
		assert.Empty(t, f.notifier.SendAuditSummaryCalls)
		assert.Empty(t, f.provider.GetTeeSheetCalls)
	})

	t.Run("event fetch failure aborts the run", func(t *testing.T) {
		f := newFixture()
		f.provider.GetAllEventsFunc = func(ctx context.Context, seasonID string) ([]golfgenius.Event, error) {
			return nil, golfgenius.ErrAuthentication
		}
		a := f.auditor()

		_, err := a.Run(context.Background(), Request{SeasonID: "s1", Range: juneRange(t)})
		assert.ErrorIs(t, err, golfgenius.ErrAuthentication)
		assert.Empty(t, f.store.SaveRunCalls)
		assert.Zero(t, f.metrics.AuditRuns())
	})

	t.Run("store failures do not fail the run", func(t *testing.T) {
		f := newFixture()
		f.store.SaveRunFunc = func(ctx context.Context, run store.Run) error {
			return errors.New("disk full")
		}
		a := f.auditor()

		summary, err := a.Run(context.Background(), Request{SeasonID: "s1", Range: juneRange(t)})
		require.NoError(t, err)
		assert.Len(t, summary.FlaggedRounds, 2)
		assert.Empty(t, f.store.SaveRoundsCalls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		f := newFixture()
		a := f.auditor()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := a.Run(ctx, Request{SeasonID: "s1", Range: juneRange(t)})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAuditor_WorkerLimit(t *testing.T) {
	f := newFixture()
	f.provider.GetAllEventsFunc = func(ctx context.Context, seasonID string) ([]golfgenius.Event, error) {
		return []golfgenius.Event{{ID: "e1", Name: "Big League"}}, nil
	}
	f.provider.GetRoundsFunc = func(ctx context.Context, eventID string) ([]golfgenius.Round, error) {
		rounds := make([]golfgenius.Round, 20)
		for i := range rounds {
			rounds[i] = golfgenius.Round{ID: fmt.Sprintf("r%02d", i), EventID: eventID, Name: "Round", Date: day(10)}
		}
		return rounds, nil
	}

	var active, peak int32
	f.provider.GetTeeSheetFunc = func(ctx context.Context, eventID, roundID string) (scoring.TeeSheet, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return card(true, false), nil
	}

	a := f.auditor(WithWorkers(3))
	summary, err := a.Run(context.Background(), Request{SeasonID: "s1", Range: juneRange(t)})
	require.NoError(t, err)

	assert.Equal(t, 20, summary.TotalRounds)
	assert.Empty(t, summary.FlaggedRounds)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Len(t, f.store.Rounds["run-1"], 20)
	assert.Equal(t, "r00", f.store.Rounds["run-1"][0].RoundID, "results keep round order")
	assert.Equal(t, "r19", f.store.Rounds["run-1"][19].RoundID)
}

func TestAuditor_Inspect(t *testing.T) {
	f := newFixture()
	a := f.auditor()

	detail, err := a.Inspect(context.Background(), "e1", "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.TotalPlayers)
	assert.Equal(t, 1, detail.CompletePlayers)
	assert.True(t, detail.Flagged)

	_, err = a.Inspect(context.Background(), "e3", "r3")
	assert.EqualError(t, err, "HTTP 404: not found")
}

func teeSheetRounds(m *golfgenius.MockClient) []string {
	ids := make([]string, 0, len(m.GetTeeSheetCalls))
	for _, c := range m.GetTeeSheetCalls {
		ids = append(ids, c.RoundID)
	}
	return ids
}
