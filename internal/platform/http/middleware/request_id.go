// Package middleware provides gin middleware shared by all routes.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messagely/internal/platform/http/respond"
)

// HeaderRequestID is the header carrying the request id.
const HeaderRequestID = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one,
// stores it in the context and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(respond.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
