package sheets

import (
	"context"
	"slices"
	"sync"
)

// MockWriter records reports instead of publishing them.
type MockWriter struct {
	// ID is returned from every successful Write.
	ID string
	// Err, when set, fails every Write after recording the report.
	Err error

	mu      sync.Mutex
	written []Report
}

// NewMockWriter returns a MockWriter that always succeeds.
func NewMockWriter() *MockWriter {
	return &MockWriter{ID: "mock-spreadsheet"}
}

func (m *MockWriter) Write(_ context.Context, report Report) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.written = append(m.written, report)
	if m.Err != nil {
		return "", m.Err
	}
	return m.ID, nil
}

// Calls returns the reports written so far.
func (m *MockWriter) Calls() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.written)
}
