package notifier

import (
	"context"

	"github.com/mauv0809/tga-scoring-audit/internal/report"
)

// Notifier defines a high-level interface for announcing audit outcomes.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendAuditSummary(ctx context.Context, summary *report.Summary, dryRun bool) error
	FormatAuditSummary(summary *report.Summary) (any, error)
}
