package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"navid/server/service"
)

// SessionCookie is the cookie carrying the session token. A bearer header
// works as well, for non-browser clients.
const SessionCookie = "navid_session"

const userIDKey = "navid.user_id"

// sessionToken extracts the token from the cookie or the Authorization
// header. Empty when the caller is anonymous.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireSession guards protected routes: a missing or expired session is a
// 401 with a stable code.
func RequireSession(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.ResolveToken(sessionToken(c))
		if !ok {
			fail(c, service.ErrUnauthorized)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the authenticated user id set by RequireSession.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
