// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCartCookie = "session_cart_id"
	sessionCartMaxAge = 30 * 24 * 60 * 60
)

// SessionCart ensures every visitor carries a session cart id cookie so
// guests can shop before signing in
func SessionCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCartID, err := c.Cookie(sessionCartCookie)
		if err != nil || sessionCartID == "" {
			sessionCartID = uuid.New().String()
			c.SetCookie(sessionCartCookie, sessionCartID, sessionCartMaxAge, "/", "", false, true)
		}

		c.Set(sessionCartCookie, sessionCartID)
		c.Next()
	}
}

// GetSessionCartID extracts the session cart id from gin context
func GetSessionCartID(c *gin.Context) string {
	if id, exists := c.Get(sessionCartCookie); exists {
		return id.(string)
	}
	return ""
}
