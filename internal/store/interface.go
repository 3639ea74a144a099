package store

import "context"

// AuditStore persists audit runs and their per-round outcomes.
type AuditStore interface {
	SaveRun(ctx context.Context, run Run) error
	SaveRounds(ctx context.Context, runID string, rounds []AuditedRound) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetFlaggedRounds(ctx context.Context, runID string) ([]AuditedRound, error)
}
