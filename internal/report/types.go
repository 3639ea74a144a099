package report

import (
	"fmt"
	"time"

	"github.com/mauv0809/tga-scoring-audit/internal/daterange"
)

const scorecardURLFormat = "https://www.golfgenius.com/leagues/%s/rounds/%s/scorecards"

// Columns is the header row shared by every tabular export.
var Columns = []string{"Event ID", "Round ID", "Date", "Round Name", "Issue", "Scorecard URL"}

// FlaggedRound is one row of the audit report.
type FlaggedRound struct {
	EventID   string     `json:"event_id"`
	EventName string     `json:"event_name,omitempty"`
	RoundID   string     `json:"round_id"`
	RoundName string     `json:"round_name"`
	Date      *time.Time `json:"date,omitempty"`
	Issue     string     `json:"issue"`
}

// ScorecardURL links to the round's scorecards on Golf Genius.
func (f FlaggedRound) ScorecardURL() string {
	return fmt.Sprintf(scorecardURLFormat, f.EventID, f.RoundID)
}

// Row renders the round in Columns order.
func (f FlaggedRound) Row() []string {
	return []string{f.EventID, f.RoundID, daterange.Format(f.Date), f.RoundName, f.Issue, f.ScorecardURL()}
}

// Summary is the outcome of one audit run.
type Summary struct {
	RunID         string          `json:"run_id"`
	SeasonID      string          `json:"season_id"`
	SeasonName    string          `json:"season_name"`
	Range         daterange.Range `json:"-"`
	Polarity      string          `json:"polarity"`
	DryRun        bool            `json:"dry_run"`
	EventCount    int             `json:"events"`
	TotalRounds   int             `json:"total_rounds"`
	FlaggedRounds []FlaggedRound  `json:"flagged_rounds"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
}

// CleanRounds is the number of analyzed rounds that were not flagged.
func (s *Summary) CleanRounds() int {
	return s.TotalRounds - len(s.FlaggedRounds)
}

// Duration is how long the run took.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
