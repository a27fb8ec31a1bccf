package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PratikDhanave/braze-track-service/internal/auth"
	"github.com/PratikDhanave/braze-track-service/internal/config"
	"github.com/PratikDhanave/braze-track-service/internal/mapping"
	"github.com/PratikDhanave/braze-track-service/internal/models"
	"github.com/PratikDhanave/braze-track-service/internal/tag"
)

// HeaderPreview is set by the tag-manager preview session.
const HeaderPreview = "X-Gtm-Server-Preview"

const headerTraceID = "trace-id"

// Invoker runs one tag invocation; *tag.Runner satisfies it.
type Invoker interface {
	Run(ctx context.Context, inv tag.Invocation, out tag.Outcome)
}

// RegisterCollectRoutes registers the event intake endpoint.
//
// POST /collect/:tag
// - Requires X-API-Key
// - Runs the named tag once and answers with its outcome
// - 200 on success, 502 on failure, 404 for an unknown tag
func RegisterCollectRoutes(r gin.IRoutes, tags config.Tags, runner Invoker, debug bool) {
	r.POST("/collect/:tag", func(c *gin.Context) {
		def, ok := tags[c.Param("tag")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown tag"})
			return
		}

		// Numbers stay json.Number; the router enables binding.EnableDecoderUseNumber.
		var event mapping.RawEvent
		if err := c.ShouldBindJSON(&event); err != nil || event == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		// The trace id is fixed here so the caller can correlate logs.
		headers := c.Request.Header.Clone()
		traceID := headers.Get(headerTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
			headers.Set(headerTraceID, traceID)
		}

		ctx := c.Request.Context()
		out, result := tag.Channel()
		runner.Run(ctx, tag.Invocation{
			Tag:     def,
			Event:   event,
			Headers: headers,
			Tenant:  auth.TenantID(c),
			Debug:   debug || headers.Get(HeaderPreview) != "",
		}, out)

		select {
		case success := <-result:
			if success {
				c.JSON(http.StatusOK, models.CollectResponse{Status: models.StatusSuccess, TraceID: traceID})
				return
			}
			c.JSON(http.StatusBadGateway, models.CollectResponse{Status: models.StatusFailure, TraceID: traceID})
		case <-ctx.Done():
			c.AbortWithStatus(http.StatusServiceUnavailable)
		}
	})
}
