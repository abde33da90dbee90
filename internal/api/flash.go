package api

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "flash"

// setFlash stores a one-shot notice for the next page render. The message
// is base64-encoded because cookie values cannot carry spaces.
func setFlash(c *gin.Context, message string) {
	encoded := base64.URLEncoding.EncodeToString([]byte(message))
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the pending notice, if any, and clears it.
func takeFlash(c *gin.Context) string {
	encoded, err := c.Cookie(flashCookieName)
	if err != nil || encoded == "" {
		return ""
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return ""
	}
	return string(decoded)
}
