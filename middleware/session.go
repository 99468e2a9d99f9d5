package middleware

import (
	"github.com/gin-gonic/gin"
)

// SessionEmailKey is where RequireSession stores the authenticated
// identity in the gin context.
const SessionEmailKey = "sessionEmail"

// SessionEmail returns the identity bound to the request's session
// cookie, or "" for a guest. The cookie's presence is authoritative
// proof of a completed OTP verification; there is no server-side
// session table to consult.
func SessionEmail(c *gin.Context, cookieName string) string {
	email, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return email
}

// RequireSession rejects unauthenticated requests with 401 and exposes
// the session email to downstream handlers.
func RequireSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := SessionEmail(c, cookieName)
		if email == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(SessionEmailKey, email)
		c.Next()
	}
}
