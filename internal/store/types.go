package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("audit run not found")

// Run is one completed audit over a season and date range.
type Run struct {
	ID            string    `json:"id"`
	SeasonID      string    `json:"season_id"`
	SeasonName    string    `json:"season_name"`
	RangeStart    time.Time `json:"range_start"`
	RangeEnd      time.Time `json:"range_end"`
	Polarity      string    `json:"polarity"`
	TotalRounds   int       `json:"total_rounds"`
	FlaggedRounds int       `json:"flagged_rounds"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// AuditedRound is the stored outcome for a single round of a run.
type AuditedRound struct {
	RunID           string     `json:"run_id"`
	EventID         string     `json:"event_id"`
	EventName       string     `json:"event_name"`
	RoundID         string     `json:"round_id"`
	RoundName       string     `json:"round_name"`
	RoundDate       *time.Time `json:"round_date,omitempty"`
	Flagged         bool       `json:"is_flagged"`
	Reason          string     `json:"flag_reason"`
	TotalPlayers    int        `json:"total_players"`
	Front9Players   int        `json:"front_9_players"`
	Back9Players    int        `json:"back_9_players"`
	CompletePlayers int        `json:"complete_players"`
}
