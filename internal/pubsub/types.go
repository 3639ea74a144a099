package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventRoundFlagged   EventType = "round-flagged"
	EventAuditCompleted EventType = "audit-completed"
)

// FlaggedRoundEvent announces a round that needs manual review. Date is a
// Unix timestamp, zero when the round has no date.
type FlaggedRoundEvent struct {
	RunID        string `msgpack:"run_id"`
	SeasonID     string `msgpack:"season_id"`
	EventID      string `msgpack:"event_id"`
	RoundID      string `msgpack:"round_id"`
	RoundName    string `msgpack:"round_name"`
	Date         int64  `msgpack:"date"`
	Reason       string `msgpack:"reason"`
	ScorecardURL string `msgpack:"scorecard_url"`
}

// AuditCompletedEvent is published once per non-dry run.
type AuditCompletedEvent struct {
	RunID         string `msgpack:"run_id"`
	SeasonID      string `msgpack:"season_id"`
	TotalRounds   int    `msgpack:"total_rounds"`
	FlaggedRounds int    `msgpack:"flagged_rounds"`
	FinishedAt    int64  `msgpack:"finished_at"`
}
