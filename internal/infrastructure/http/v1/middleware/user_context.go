package middleware

import (
	"github.com/gin-gonic/gin"

	"tienda/internal/core/security"
)

// UserContext extracts user ID from gin context and adds it to the request
// context. Must run after Auth, which sets "user_id" in gin context. The
// domain layer reads it back via security.GetUserID(ctx).
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if exists {
			if uid, ok := userID.(string); ok && uid != "" {
				ctx := security.WithUserID(c.Request.Context(), uid)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}
