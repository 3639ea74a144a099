package golfgenius

import (
	"context"

	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
)

// Provider is the read-only view of the Golf Genius API the audit needs.
// Mock implementations satisfy it in tests.
type Provider interface {
	GetSeasons(ctx context.Context) ([]Season, error)
	GetEvents(ctx context.Context, seasonID string, page int) ([]Event, error)
	GetAllEvents(ctx context.Context, seasonID string) ([]Event, error)
	GetRounds(ctx context.Context, eventID string) ([]Round, error)
	GetTeeSheet(ctx context.Context, eventID, roundID string) (scoring.TeeSheet, error)
	TestConnection(ctx context.Context) bool
}
