package logsink

import (
	"context"
	"sync"
)

// Memory keeps records in memory. Tests use it in place of the real sinks.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

var _ Sink = (*Memory)(nil)

func (m *Memory) Write(_ context.Context, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
}

// Records returns a copy of everything written so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
