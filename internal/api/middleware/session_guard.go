package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/auth"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

const usernameKey = "sessionUsername"

// SessionGuard validates the session cookie on protected routes. Requests
// without a valid session are redirected to the login page with no side
// effects; on success the authenticated username is set on the context so
// handlers pass it explicitly instead of reading ambient session state.
func SessionGuard(sessions *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			redirectToLogin(c)
			return
		}

		claims, err := sessions.ValidateToken(token)
		if err != nil {
			redirectToLogin(c)
			return
		}

		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// UsernameFromContext returns the authenticated username set by SessionGuard.
func UsernameFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(usernameKey)
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}
