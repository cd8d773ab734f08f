package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"citydrive-motors/internal/core/auth"
	resp "citydrive-motors/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyEmail  = "userEmail"
)

// AuthJWT rejects requests without a valid bearer token before any
// handler or ownership lookup runs. On success the verified identity is
// exposed to handlers via UserID.
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Unauthorized(c, resp.KindInvalidToken, "missing bearer token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Unauthorized(c, resp.KindInvalidToken, "invalid or expired token")
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user id, empty when unauthenticated.
func UserID(c *gin.Context) string { return c.GetString(KeyUserID) }
