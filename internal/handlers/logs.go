package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/braze-track-service/internal/logsink"
	"github.com/PratikDhanave/braze-track-service/internal/models"
)

// LogCounter counts warehouse log rows.
type LogCounter interface {
	CountLogs(ctx context.Context, eventName, logType string, from, to time.Time) (int64, error)
}

// RegisterLogRoutes registers the warehouse query endpoint.
//
// GET /logs/count?event_name=...&type=...&from=...&to=...
// - Requires X-API-Key
// - Returns count for the window [from,to); type is optional
// - 503 when no warehouse is configured
func RegisterLogRoutes(r gin.IRoutes, st LogCounter) {
	r.GET("/logs/count", func(c *gin.Context) {
		if st == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no warehouse configured"})
			return
		}

		eventName := c.Query("event_name")
		logType := c.Query("type")
		fromStr := c.Query("from")
		toStr := c.Query("to")

		if eventName == "" || fromStr == "" || toStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event_name, from, to are required"})
			return
		}
		switch logType {
		case "", logsink.TypeMessage, logsink.TypeRequest, logsink.TypeResponse:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Message, Request or Response"})
			return
		}

		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}
		from, to = from.UTC(), to.UTC()

		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be < to"})
			return
		}

		count, err := st.CountLogs(c.Request.Context(), eventName, logType, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, models.LogCountResponse{
			EventName: eventName,
			Type:      logType,
			Count:     count,
		})
	})
}
