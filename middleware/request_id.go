package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an identifier. A caller-supplied
// X-Request-ID is kept so traces line up across the gateway; otherwise a
// fresh uuid is generated. The ID is echoed on the response and threaded
// through the request context so every log line for the request carries it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(requestIDHeader, id)
		c.Set("request_id", id)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the identifier set by RequestID, or "" outside it.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		return id.(string)
	}
	return ""
}
