package models

// Collect statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// CollectResponse is returned by POST /collect/:tag.
// TraceID echoes the trace-id header, or the id generated when it was absent.
type CollectResponse struct {
	Status  string `json:"status"`
	TraceID string `json:"trace_id"`
}

// LogCountResponse is returned by GET /logs/count.
type LogCountResponse struct {
	EventName string `json:"event_name"`
	Type      string `json:"type,omitempty"`
	Count     int64  `json:"count"`
}
