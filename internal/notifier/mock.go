package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/tga-scoring-audit/internal/report"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendAuditSummaryFunc func(ctx context.Context, summary *report.Summary, dryRun bool) error

	SendAuditSummaryCalls []struct {
		Summary *report.Summary
		DryRun  bool
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

var _ Notifier = (*Mock)(nil)

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAuditSummaryCalls = nil
}

func (m *Mock) SendAuditSummary(ctx context.Context, summary *report.Summary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAuditSummaryCalls = append(m.SendAuditSummaryCalls, struct {
		Summary *report.Summary
		DryRun  bool
	}{summary, dryRun})
	if m.SendAuditSummaryFunc != nil {
		return m.SendAuditSummaryFunc(ctx, summary, dryRun)
	}
	return nil
}

func (m *Mock) FormatAuditSummary(summary *report.Summary) (any, error) {
	return "formatted_audit_summary", nil
}
