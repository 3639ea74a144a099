package golfgenius

import (
	"context"
	"sync"

	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
)

// TeeSheetCall records one GetTeeSheet invocation.
type TeeSheetCall struct {
	EventID string
	RoundID string
}

// MockClient is a mock implementation of the Provider interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	GetSeasonsFunc     func(ctx context.Context) ([]Season, error)
	GetEventsFunc      func(ctx context.Context, seasonID string, page int) ([]Event, error)
	GetAllEventsFunc   func(ctx context.Context, seasonID string) ([]Event, error)
	GetRoundsFunc      func(ctx context.Context, eventID string) ([]Round, error)
	GetTeeSheetFunc    func(ctx context.Context, eventID, roundID string) (scoring.TeeSheet, error)
	TestConnectionFunc func(ctx context.Context) bool

	GetAllEventsCalls []string
	GetRoundsCalls    []string
	GetTeeSheetCalls  []TeeSheetCall
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Provider = (*MockClient)(nil)

func (m *MockClient) GetSeasons(ctx context.Context) ([]Season, error) {
	if m.GetSeasonsFunc != nil {
		return m.GetSeasonsFunc(ctx)
	}
	return []Season{}, nil
}

func (m *MockClient) GetEvents(ctx context.Context, seasonID string, page int) ([]Event, error) {
	if m.GetEventsFunc != nil {
		return m.GetEventsFunc(ctx, seasonID, page)
	}
	return []Event{}, nil
}

func (m *MockClient) GetAllEvents(ctx context.Context, seasonID string) ([]Event, error) {
	m.mu.Lock()
	m.GetAllEventsCalls = append(m.GetAllEventsCalls, seasonID)
	m.mu.Unlock()
	if m.GetAllEventsFunc != nil {
		return m.GetAllEventsFunc(ctx, seasonID)
	}
	return []Event{}, nil
}

func (m *MockClient) GetRounds(ctx context.Context, eventID string) ([]Round, error) {
	m.mu.Lock()
	m.GetRoundsCalls = append(m.GetRoundsCalls, eventID)
	m.mu.Unlock()
	if m.GetRoundsFunc != nil {
		return m.GetRoundsFunc(ctx, eventID)
	}
	return []Round{}, nil
}

func (m *MockClient) GetTeeSheet(ctx context.Context, eventID, roundID string) (scoring.TeeSheet, error) {
	m.mu.Lock()
	m.GetTeeSheetCalls = append(m.GetTeeSheetCalls, TeeSheetCall{EventID: eventID, RoundID: roundID})
	m.mu.Unlock()
	if m.GetTeeSheetFunc != nil {
		return m.GetTeeSheetFunc(ctx, eventID, roundID)
	}
	return scoring.TeeSheet{}, nil
}

func (m *MockClient) TestConnection(ctx context.Context) bool {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return true
}
