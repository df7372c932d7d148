package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request correlation ID in and out of the API.
const CorrelationIDHeader = "X-Correlation-ID"

// correlationIDKey is the gin context key the middleware stores the ID under.
const correlationIDKey = "correlation_id"

// CorrelationID attaches a correlation ID to every request. A client-supplied
// X-Correlation-ID is honored as-is so callers can trace a payment or shipping
// request across the gateway, Kafka, and the processor; otherwise one is
// generated. The ID is echoed back on the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)
		c.Next()
	}
}

// GetCorrelationID returns the request's correlation ID, or "" when the
// middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	id, ok := c.Get(correlationIDKey)
	if !ok {
		return ""
	}
	s, _ := id.(string)
	return s
}
