// Package httpserver assembles the gin router.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PratikDhanave/braze-track-service/internal/auth"
	"github.com/PratikDhanave/braze-track-service/internal/config"
	"github.com/PratikDhanave/braze-track-service/internal/handlers"
)

// Warehouse is what the router needs from the log warehouse.
type Warehouse interface {
	handlers.LogCounter
	Ping(ctx context.Context) error
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready, /metrics
// Authenticated: /collect/:tag, /logs/count
//
// wh may be nil when no warehouse is configured.
func NewRouter(cfg config.Config, runner handlers.Invoker, wh Warehouse) *gin.Engine {
	// Event fields keep their exact numeric text.
	binding.EnableDecoderUseNumber = true

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: the warehouse, when configured, must be reachable.
	r.GET("/ready", func(c *gin.Context) {
		if wh != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()

			if err := wh.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "tags": len(cfg.Tags)})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	handlers.RegisterCollectRoutes(authGroup, cfg.Tags, runner, cfg.DebugMode)

	var counter handlers.LogCounter
	if wh != nil {
		counter = wh
	}
	handlers.RegisterLogRoutes(authGroup, counter)

	return r
}
