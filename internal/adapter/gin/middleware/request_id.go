package middleware

import (
	"github.com/gin-gonic/gin"

	"user-directory-service/pkg/logger"
)

// RequestID assigns every request an ID, reusing an inbound X-Request-ID, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(logger.RequestIDHeader)
		if id == "" {
			id = logger.NewRequestID()
		}

		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(logger.RequestIDHeader, id)
		c.Next()
	}
}
