// internal/infrastructure/server/middleware.go
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	httpHandlers "github.com/hmicodes/catalog/internal/adapters/http"
	"github.com/hmicodes/catalog/internal/ports"
)

// requestScopedLogger attaches a logger carrying the request id to the context
func (s *Server) requestScopedLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			c.Set(httpHandlers.ContextKeyLogger, s.logger.WithRequestID(requestID))
			return next(c)
		}
	}
}

// sessionMiddleware marks the context authenticated when the session cookie
// holds a valid token. It never rejects a request on its own.
func (s *Server) sessionMiddleware(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(s.config.Auth.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			if _, err := authService.ValidateSession(cookie.Value); err != nil {
				httpHandlers.RequestLogger(c, s.logger).Debugw("Ignoring invalid session", "error", err, "ip", c.RealIP())
				return next(c)
			}

			c.Set(httpHandlers.ContextKeyAuthenticated, true)
			return next(c)
		}
	}
}

// requireSession rejects API writes without a session
func (s *Server) requireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if httpHandlers.IsAuthenticated(c) {
				return next(c)
			}

			httpHandlers.RequestLogger(c, s.logger).LogSecurityEvent("unauthorized_write", c.RealIP(), map[string]interface{}{
				"method":   c.Request().Method,
				"endpoint": c.Request().URL.Path,
			})

			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
	}
}

// requirePageSession sends anonymous visitors to the login form
func (s *Server) requirePageSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if httpHandlers.IsAuthenticated(c) {
				return next(c)
			}
			return c.Redirect(http.StatusFound, "/login?notice=required")
		}
	}
}

// loginRateLimiter throttles password attempts per client IP
func (s *Server) loginRateLimiter() echo.MiddlewareFunc {
	perMinute := s.config.Security.LoginRatePerMinute
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Every(time.Minute / time.Duration(perMinute)),
				Burst:     perMinute,
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			httpHandlers.RequestLogger(c, s.logger).LogSecurityEvent("login_rate_limited", identifier, nil)
			return c.JSON(http.StatusTooManyRequests, httpHandlers.ErrorResponse{Error: "too many login attempts"})
		},
	})
}
