package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "citydrive-motors/internal/transport/http/response"
)

// RateLimit is a global token bucket in front of everything else.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Resp{
			Code: http.StatusTooManyRequests, Msg: "too many requests",
		})
	}
}
