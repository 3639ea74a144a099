package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	auditRuns          int
	roundsAnalyzed     int
	roundsFlagged      int
	roundFetchFailures int
	analysisDurations  []float64
	slackNotifSent     int
	slackNotifFailed   int
	eventsPublished    int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		analysisDurations: make([]float64, 0),
	}
}

var _ Metrics = (*Mock)(nil)

func (m *Mock) IncAuditRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditRuns++
}

func (m *Mock) IncRoundsAnalyzed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsAnalyzed++
}

func (m *Mock) IncRoundsFlagged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsFlagged++
}

func (m *Mock) IncRoundFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundFetchFailures++
}

func (m *Mock) ObserveAnalysisDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analysisDurations = append(m.analysisDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// AuditRuns returns the number of times IncAuditRuns was called.
func (m *Mock) AuditRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auditRuns
}

// RoundsAnalyzed returns the number of times IncRoundsAnalyzed was called.
func (m *Mock) RoundsAnalyzed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsAnalyzed
}

// RoundsFlagged returns the number of times IncRoundsFlagged was called.
func (m *Mock) RoundsFlagged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsFlagged
}

// RoundFetchFailures returns the number of times IncRoundFetchFailures was called.
func (m *Mock) RoundFetchFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundFetchFailures
}

// AnalysisDurations returns every observed duration.
func (m *Mock) AnalysisDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.analysisDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// EventsPublished returns the number of times IncEventsPublished was called.
func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}
