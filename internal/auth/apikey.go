// Package auth authenticates inbound callers by API key.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey carries the caller's key.
const HeaderAPIKey = "X-API-Key"

const tenantCtxKey = "tenant_id"

// APIKeyMiddleware maps X-API-Key to a tenant and rejects unknown keys with 401.
// The tenant is only used to label logs; tags are shared by every tenant.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader(HeaderAPIKey))
		tenantID, ok := keys[apiKey]
		if apiKey == "" || !ok {
			slog.DebugContext(c.Request.Context(), "rejected request", "path", c.FullPath(), "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(tenantCtxKey, tenantID)
		c.Next()
	}
}

// TenantID returns the authenticated tenant, or "" outside the auth group.
func TenantID(c *gin.Context) string {
	return c.GetString(tenantCtxKey)
}
