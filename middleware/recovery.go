package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
)

// Recovery converts a handler panic into a 500. The panic is logged with the
// stack and the identity the request carried; the response body stays
// generic, exposing only the request ID for support lookups.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				attrs := []any{
					"panic", rec,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				}
				if userID := GetUserID(c); userID != "" {
					attrs = append(attrs, "user_id", userID)
				}
				logger.Error(c.Request.Context(), "panic recovered", attrs...)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": GetRequestID(c),
				})
			}
		}()

		c.Next()
	}
}
