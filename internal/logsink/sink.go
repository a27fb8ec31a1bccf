// Package logsink mirrors invocation log records to the console and to a
// warehouse table.
package logsink

import (
	"context"

	"github.com/PratikDhanave/braze-track-service/internal/config"
)

// Record types.
const (
	TypeMessage  = "Message"
	TypeRequest  = "Request"
	TypeResponse = "Response"
)

// Record is one structured log entry of an invocation. The JSON keys are the
// ones written to the console.
type Record struct {
	Name               string `json:"Name"`
	Type               string `json:"Type"`
	TraceID            string `json:"TraceId,omitempty"`
	EventName          string `json:"EventName,omitempty"`
	Message            string `json:"Message,omitempty"`
	Reason             string `json:"Reason,omitempty"`
	RequestMethod      string `json:"RequestMethod,omitempty"`
	RequestURL         string `json:"RequestUrl,omitempty"`
	RequestBody        any    `json:"RequestBody,omitempty"`
	ResponseStatusCode int    `json:"ResponseStatusCode,omitempty"`
	ResponseHeaders    any    `json:"ResponseHeaders,omitempty"`
	ResponseBody       any    `json:"ResponseBody,omitempty"`
}

// Sink receives log records. Implementations must not fail the invocation;
// write errors are handled inside the sink.
type Sink interface {
	Write(ctx context.Context, rec Record)
}

// Logger fans a record out to the sinks enabled for one invocation.
type Logger struct {
	sinks []Sink
}

// NewLogger returns a logger writing to sinks; nil sinks are skipped.
func NewLogger(sinks ...Sink) *Logger {
	l := &Logger{}
	for _, s := range sinks {
		if s != nil {
			l.sinks = append(l.sinks, s)
		}
	}
	return l
}

// Log writes rec to every sink.
func (l *Logger) Log(ctx context.Context, rec Record) {
	for _, s := range l.sinks {
		s.Write(ctx, rec)
	}
}

// Enabled reports whether any sink is attached.
func (l *Logger) Enabled() bool {
	return len(l.sinks) > 0
}

// ConsoleEnabled applies the tag's logType. Unset and "debug" log only while
// the invocation runs in debug or preview mode.
func ConsoleEnabled(logType string, debug bool) bool {
	switch logType {
	case config.LogTypeUnset, config.LogTypeDebug:
		return debug
	case config.LogTypeAlways:
		return true
	}
	return false
}

// WarehouseEnabled applies the tag's bigQueryLogType.
func WarehouseEnabled(logType string) bool {
	return logType == config.LogTypeAlways
}

// Select builds the logger for one invocation of tag. console and warehouse
// may be nil when the service has no such sink.
func Select(tag config.Tag, debug bool, console, warehouse Sink) *Logger {
	var sinks []Sink
	if console != nil && ConsoleEnabled(tag.LogType, debug) {
		sinks = append(sinks, console)
	}
	if warehouse != nil && WarehouseEnabled(tag.WarehouseLogType) {
		sinks = append(sinks, warehouse)
	}
	return NewLogger(sinks...)
}
