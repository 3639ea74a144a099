package store

import (
	"context"
	"sync"
)

// MockStore is an in-memory AuditStore for tests. It is safe for concurrent
// use.
type MockStore struct {
	mu sync.Mutex

	SaveRunFunc    func(ctx context.Context, run Run) error
	SaveRoundsFunc func(ctx context.Context, runID string, rounds []AuditedRound) error

	Runs   map[string]Run
	Rounds map[string][]AuditedRound

	SaveRunCalls    []Run
	SaveRoundsCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{
		Runs:   make(map[string]Run),
		Rounds: make(map[string][]AuditedRound),
	}
}

var _ AuditStore = (*MockStore)(nil)

func (m *MockStore) SaveRun(ctx context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRunCalls = append(m.SaveRunCalls, run)
	if m.SaveRunFunc != nil {
		return m.SaveRunFunc(ctx, run)
	}
	m.Runs[run.ID] = run
	return nil
}

func (m *MockStore) SaveRounds(ctx context.Context, runID string, rounds []AuditedRound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRoundsCalls = append(m.SaveRoundsCalls, runID)
	if m.SaveRoundsFunc != nil {
		return m.SaveRoundsFunc(ctx, runID, rounds)
	}
	m.Rounds[runID] = append(m.Rounds[runID], rounds...)
	return nil
}

func (m *MockStore) GetRun(ctx context.Context, id string) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.Runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

func (m *MockStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]Run, 0, len(m.Runs))
	for _, r := range m.Runs {
		runs = append(runs, r)
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MockStore) GetFlaggedRounds(ctx context.Context, runID string) ([]AuditedRound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flagged := []AuditedRound{}
	for _, r := range m.Rounds[runID] {
		if r.Flagged {
			flagged = append(flagged, r)
		}
	}
	return flagged, nil
}
