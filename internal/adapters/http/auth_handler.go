package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/infrastructure/config"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
	"github.com/hmicodes/catalog/internal/ports"
)

// Notices shown on the login page, keyed by the notice query parameter
var loginNotices = map[string]string{
	"required":   "Please log in to access this page.",
	"logged_out": "You have been successfully logged out.",
}

// AuthHandler handles the login flow
type AuthHandler struct {
	authService ports.AuthService
	authConfig  config.AuthConfig
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, authConfig config.AuthConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authConfig:  authConfig,
		logger:      logger,
	}
}

// ShowLogin renders the login form
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return c.Render(http.StatusOK, "login", PageData{
		Title:  "Login",
		Notice: loginNotices[c.QueryParam("notice")],
	})
}

// Login checks the submitted password and starts a session
func (h *AuthHandler) Login(c echo.Context) error {
	password := c.FormValue("password")

	session, err := h.authService.Login(c.Request().Context(), password)
	if err != nil {
		if !errors.Is(err, entities.ErrInvalidCredentials) {
			return toHTTPError(err, "")
		}
		RequestLogger(c, h.logger).LogSecurityEvent("login_failed", c.RealIP(), nil)
		return c.Render(http.StatusOK, "login", PageData{
			Title: "Login",
			Error: "Invalid password provided",
		})
	}

	c.SetCookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.Redirect(http.StatusFound, "/admin")
}

// Logout clears the session and returns to the login form
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.Redirect(http.StatusFound, "/login?notice=logged_out")
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// IsAuthenticated reports whether the session middleware accepted the request's session
func IsAuthenticated(c echo.Context) bool {
	ok, _ := c.Get(ContextKeyAuthenticated).(bool)
	return ok
}
