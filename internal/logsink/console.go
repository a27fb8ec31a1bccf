package logsink

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// Console writes each record as one JSON line.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Sink = (*Console)(nil)

// NewConsole returns a console sink writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Write(ctx context.Context, rec Record) {
	b, err := json.Marshal(rec)
	if err != nil {
		slog.WarnContext(ctx, "console log record not serializable", "err", err, "trace_id", rec.TraceID)
		return
	}
	b = append(b, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(b); err != nil {
		slog.WarnContext(ctx, "console log write failed", "err", err)
	}
}
