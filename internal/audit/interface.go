package audit

import (
	"context"

	"github.com/mauv0809/tga-scoring-audit/internal/notifier"
	"github.com/mauv0809/tga-scoring-audit/internal/store"
)

// Store defines the persistence operations required by the auditor.
type Store interface {
	SaveRun(ctx context.Context, run store.Run) error
	SaveRounds(ctx context.Context, runID string, rounds []store.AuditedRound) error
}

// Notifier defines the notification operations required by the auditor.
type Notifier interface {
	notifier.Notifier
}
