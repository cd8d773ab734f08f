package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KeyRequestID doubles as the header name and the context key for the
// request correlation id.
const KeyRequestID = "X-Request-ID"

// RequestID honors a sane inbound correlation id and mints a fresh one
// otherwise. The id is echoed on the response and stashed in the context
// so the access log can pick it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
