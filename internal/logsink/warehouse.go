package logsink

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Row is a record as stored in the warehouse log table. RequestBody,
// ResponseHeaders and ResponseBody hold JSON text; empty means absent.
type Row struct {
	TagName            string `json:"tag_name"`
	Type               string `json:"type"`
	TraceID            string `json:"trace_id"`
	EventName          string `json:"event_name"`
	Message            string `json:"message"`
	Reason             string `json:"reason"`
	RequestMethod      string `json:"request_method"`
	RequestURL         string `json:"request_url"`
	RequestBody        string `json:"request_body"`
	ResponseStatusCode int    `json:"response_status_code"`
	ResponseHeaders    string `json:"response_headers"`
	ResponseBody       string `json:"response_body"`
	Timestamp          int64  `json:"timestamp"`
}

// RowWriter persists warehouse rows.
type RowWriter interface {
	InsertLog(ctx context.Context, row Row) error
}

// Warehouse converts records to rows and hands them to a RowWriter.
type Warehouse struct {
	store RowWriter
	now   func() time.Time
}

var _ Sink = (*Warehouse)(nil)

// NewWarehouse returns a warehouse sink backed by store.
func NewWarehouse(store RowWriter) *Warehouse {
	return &Warehouse{store: store, now: time.Now}
}

func (w *Warehouse) Write(ctx context.Context, rec Record) {
	row := ToRow(rec, w.now())
	if err := w.store.InsertLog(ctx, row); err != nil {
		slog.WarnContext(ctx, "warehouse log insert failed",
			"err", err,
			"trace_id", rec.TraceID,
			"type", rec.Type,
		)
	}
}

// ToRow renames record keys to warehouse columns, stamps the insert time in
// milliseconds and JSON-encodes the body and header fields whatever their
// original type.
func ToRow(rec Record, now time.Time) Row {
	return Row{
		TagName:            rec.Name,
		Type:               rec.Type,
		TraceID:            rec.TraceID,
		EventName:          rec.EventName,
		Message:            rec.Message,
		Reason:             rec.Reason,
		RequestMethod:      rec.RequestMethod,
		RequestURL:         rec.RequestURL,
		RequestBody:        stringify(rec.RequestBody),
		ResponseStatusCode: rec.ResponseStatusCode,
		ResponseHeaders:    stringify(rec.ResponseHeaders),
		ResponseBody:       stringify(rec.ResponseBody),
		Timestamp:          now.UnixMilli(),
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
