// Package tag runs one Braze tag invocation: consent and loop guards,
// payload mapping, identifier check, the /users/track call and the outcome.
package tag

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"

	"github.com/PratikDhanave/braze-track-service/internal/config"
	"github.com/PratikDhanave/braze-track-service/internal/consent"
	"github.com/PratikDhanave/braze-track-service/internal/delivery"
	"github.com/PratikDhanave/braze-track-service/internal/logsink"
	"github.com/PratikDhanave/braze-track-service/internal/mapping"
	"github.com/PratikDhanave/braze-track-service/internal/metrics"
)

const (
	logName   = "Braze"
	trackPath = "/users/track"

	// PreviewOrigin is the tag-manager preview service. Events coming from it
	// are acknowledged without being sent.
	PreviewOrigin = "https://gtm-msr.appspot.com/"

	missingIdentifiersReason = `One or more fields are missing: "external_id" or "user_alias" or "braze_id" or "email" or "phone".`
)

// Headers looks up inbound request headers; http.Header satisfies it.
type Headers interface {
	Get(key string) string
}

// Invocation is one run of a tag against one event.
type Invocation struct {
	Tag     config.Tag
	Event   mapping.RawEvent
	Headers Headers
	// Tenant is the authenticated caller, used only for diagnostics.
	Tenant string
	// Debug enables console logging for tags whose logType is unset or "debug".
	Debug bool
}

// Runner executes invocations. It is safe for concurrent use; invocations
// share nothing but the sinks and the transport.
type Runner struct {
	transport delivery.Transport
	console   logsink.Sink
	warehouse logsink.Sink
	now       func() time.Time
	traceID   func() string

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithConsole sets the console sink.
func WithConsole(s logsink.Sink) Option {
	return func(r *Runner) { r.console = s }
}

// WithWarehouse sets the warehouse sink.
func WithWarehouse(s logsink.Sink) Option {
	return func(r *Runner) { r.warehouse = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner returns a runner sending through transport.
func NewRunner(transport delivery.Transport, opts ...Option) *Runner {
	r := &Runner{
		transport: transport,
		now:       time.Now,
		traceID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until every in-flight send has completed. It must not race
// with Run; use Close when invocations may still be arriving.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops the runner from starting new sends and waits for the in-flight
// ones. Invocations that reach the send step afterwards fail.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}

// acquire registers one send unless the runner is closed.
func (r *Runner) acquire() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	r.wg.Add(1)
	return true
}

// Run executes inv and reports exactly one result to out. The Braze call, if
// any, runs on its own goroutine; out may therefore be called after Run
// returns.
func (r *Runner) Run(ctx context.Context, inv Invocation, out Outcome) {
	if inv.Headers == nil {
		inv.Headers = http.Header{}
	}
	tag := inv.Tag

	traceID := inv.Headers.Get("trace-id")
	if traceID == "" {
		traceID = r.traceID()
	}
	lg := slog.With("tag", tag.Name, "trace_id", traceID, "tenant", inv.Tenant)

	if !consent.Granted(inv.Event, tag.ConsentRequired()) {
		lg.DebugContext(ctx, "consent not granted, skipping")
		metrics.InvocationsTotal.WithLabelValues(tag.Name, metrics.ResultConsentDenied).Inc()
		out.Success()
		return
	}

	pageURL, _ := inv.Event["page_location"].(string)
	if pageURL == "" {
		pageURL = inv.Headers.Get("referer")
	}
	if strings.HasPrefix(pageURL, PreviewOrigin) {
		lg.DebugContext(ctx, "preview service request, skipping")
		metrics.InvocationsTotal.WithLabelValues(tag.Name, metrics.ResultPreviewLoop).Inc()
		out.Success()
		return
	}

	logger := logsink.Select(tag, inv.Debug, r.console, r.warehouse)

	payload := mapping.Map(mapping.Context{
		Event:     inv.Event,
		Tag:       tag,
		NowMillis: r.now().UnixMilli(),
	})
	lg.DebugContext(ctx, "payload mapped",
		"events", len(payload.Events()),
		"purchases", len(payload.Purchases()),
		"log_sinks", logger.Enabled(),
	)

	if err := mapping.CheckIdentifiers(payload.Entry); err != nil {
		lg.InfoContext(ctx, "event not sent", "err", err)
		logger.Log(ctx, logsink.Record{
			Name:      logName,
			Type:      logsink.TypeMessage,
			TraceID:   traceID,
			EventName: tag.EventType,
			Message:   "Event was not sent.",
			Reason:    missingIdentifiersReason,
		})
		metrics.InvocationsTotal.WithLabelValues(tag.Name, metrics.ResultMissingIdentifiers).Inc()
		out.Failure()
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		lg.ErrorContext(ctx, "payload not serializable", "err", err)
		out.Failure()
		return
	}

	if !r.acquire() {
		lg.WarnContext(ctx, "runner closed, event not sent")
		out.Failure()
		return
	}

	req := &delivery.Request{
		Method:  http.MethodPost,
		URL:     tag.APIEndpoint + trackPath,
		Headers: requestHeaders(http.MethodPost, tag.APIKey),
		Body:    body,
	}

	logger.Log(ctx, logsink.Record{
		Name:          logName,
		Type:          logsink.TypeRequest,
		TraceID:       traceID,
		EventName:     trackPath,
		RequestMethod: req.Method,
		RequestURL:    req.URL,
		RequestBody:   json.RawMessage(body),
	})
	metrics.InvocationsTotal.WithLabelValues(tag.Name, metrics.ResultDispatched).Inc()

	sendCtx := ctx
	if tag.UseOptimisticScenario {
		out.Success()
		sendCtx = context.WithoutCancel(ctx)
	}

	go func() {
		defer r.wg.Done()
		r.send(sendCtx, lg, tag.Name, req, func(status int, headers map[string]string, respBody []byte) {
			if logger.Enabled() {
				rec := logsink.Record{
					Name:               logName,
					Type:               logsink.TypeResponse,
					TraceID:            traceID,
					EventName:          trackPath,
					ResponseStatusCode: status,
				}
				if headers != nil {
					rec.ResponseHeaders = headers
				}
				if len(respBody) > 0 {
					rec.ResponseBody = string(respBody)
				}
				logger.Log(sendCtx, rec)
			}

			if tag.UseOptimisticScenario {
				return
			}
			if status >= 200 && status < 400 && !hasErrors(respBody) {
				out.Success()
			} else {
				lg.InfoContext(sendCtx, "braze rejected event", "status", status)
				out.Failure()
			}
		})
	}()
}

// send performs the call and hands the result to done. A transport error is
// reported as status 0 with no headers or body.
func (r *Runner) send(ctx context.Context, lg *slog.Logger, tagName string, req *delivery.Request, done func(int, map[string]string, []byte)) {
	start := time.Now()
	resp, err := r.transport.Send(ctx, req)
	metrics.DispatchDuration.WithLabelValues(tagName).Observe(time.Since(start).Seconds())

	if err != nil {
		lg.WarnContext(ctx, "braze request failed", "err", err)
		metrics.DispatchTotal.WithLabelValues(tagName, metrics.StatusClass(0)).Inc()
		done(0, nil, nil)
		return
	}
	metrics.DispatchTotal.WithLabelValues(tagName, metrics.StatusClass(resp.StatusCode)).Inc()
	done(resp.StatusCode, resp.Headers, resp.Body)
}

func requestHeaders(method, apiKey string) map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
	}
	if method == http.MethodPost {
		headers["Content-Type"] = "application/json"
	}
	return headers
}

// hasErrors reports whether a Braze response body carries a truthy "errors"
// field. Bodies that are empty or not JSON count as error-free.
func hasErrors(body []byte) bool {
	if len(body) == 0 {
		return false
	}
	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return false
	}
	errs := v.Get("errors")
	if errs == nil {
		return false
	}
	switch errs.Type() {
	case fastjson.TypeNull, fastjson.TypeFalse:
		return false
	case fastjson.TypeString:
		return len(errs.GetStringBytes()) > 0
	case fastjson.TypeNumber:
		return errs.GetFloat64() != 0
	}
	return true
}
