package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/account"
	"resumeforge/internal/api/middleware"
	"resumeforge/internal/auth"
)

// AuthHandler serves the register, login and logout flows.
type AuthHandler struct {
	accounts     *account.Service
	sessions     *auth.SessionService
	throttle     *loginThrottle
	cookieDomain string
}

// NewAuthHandler constructs the auth handler. throttle may be nil.
func NewAuthHandler(accounts *account.Service, sessions *auth.SessionService, throttle *loginThrottle, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		sessions:     sessions,
		throttle:     throttle,
		cookieDomain: cookieDomain,
	}
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Flash": takeFlash(c)})
}

// Register creates a new account from the submitted form.
func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	logger := middleware.LoggerFromContext(c).With(slog.String("username", username))

	if username == "" || password == "" {
		setFlash(c, "Username and password are required.")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	err := h.accounts.Register(c.Request.Context(), username, password)
	switch {
	case errors.Is(err, account.ErrDuplicateUsername):
		logger.Info("register conflict: username already exists")
		setFlash(c, "Username already exists. Please choose another one.")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	case err != nil:
		logger.Error("register failed", slog.Any("error", err))
		setFlash(c, "Registration failed. Please try again.")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	logger.Info("user registered")
	setFlash(c, "Registration successful! You can now log in.")
	c.Redirect(http.StatusSeeOther, "/login")
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Flash": takeFlash(c)})
}

// Login verifies credentials and establishes the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("username", username))

	if !h.throttle.allow(ctx, c.ClientIP(), username) {
		logger.Info("login throttled")
		setFlash(c, "Too many login attempts. Please try again later.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	user, err := h.accounts.Authenticate(ctx, username, password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		logger.Info("login failed: invalid credentials")
		h.throttle.recordFailure(ctx, username)
		setFlash(c, "Invalid username or password. Please try again.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	case err != nil:
		logger.Error("login failed", slog.Any("error", err))
		setFlash(c, "Login failed. Please try again.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	h.throttle.reset(ctx, username)

	token, err := h.sessions.IssueToken(user.Username)
	if err != nil {
		logger.Error("issue session token failed", slog.Any("error", err))
		setFlash(c, "Login failed. Please try again.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	h.setSessionCookie(c, token)
	logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)))
	setFlash(c, "Login successful!")
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session cookie unconditionally; repeated calls are
// harmless.
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
	})
	setFlash(c, "You have been logged out.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.sessions.TTL().Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
		Expires:  time.Now().Add(h.sessions.TTL()),
	})
}

func (h *AuthHandler) isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}

func (h *AuthHandler) getCookieDomain() string { return strings.TrimSpace(h.cookieDomain) }
