package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IPAllowlist creates a Gin middleware that rejects requests from addresses
// outside the configured allowlist with 403. An empty allowlist disables
// filtering entirely.
func IPAllowlist(allowedIPs []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedIPs))
	for _, ip := range allowedIPs {
		allowed[ip] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if _, ok := allowed[ip]; !ok {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request from non-allowlisted address rejected", "ip", ip)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Next()
	}
}
