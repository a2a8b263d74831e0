package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Madhav-Gupta-28/storefront-go/session"
	"github.com/Madhav-Gupta-28/storefront-go/utils"
	"github.com/labstack/echo/v4"
)

const sessionKey = "session"

// LoginPath is where clients are sent when a session has no usable
// sign-in.
const LoginPath = "/login"

// SessionMiddleware resolves the bearer session token to a live session
// of the given kind and stores it in the echo context.
func SessionMiddleware(tokens *utils.Tokens, sessions *session.Manager, kind session.Kind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "No authorization header",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Invalid authorization header format",
				})
			}

			claims, err := tokens.ValidateJWT(parts[1])
			if err != nil || claims.Kind != string(kind) {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Invalid token",
				})
			}

			s, err := sessions.Get(c.Request().Context(), claims.SessionID)
			if errors.Is(err, session.ErrUnknownSession) {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Session expired",
				})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "Failed to load session",
				})
			}

			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// Session returns the session stored by SessionMiddleware.
func Session(c echo.Context) *session.Session {
	s, _ := c.Get(sessionKey).(*session.Session)
	return s
}

// RequireSignIn rejects sessions without an upstream sign-in and points the
// client at the login page.
func RequireSignIn(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := Session(c)
		if s == nil || !s.Auth.State().Authenticated() {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error":    "Please login to continue",
				"redirect": LoginPath,
			})
		}
		return next(c)
	}
}

// RequireAdmin lets through only admin sessions signed in as an admin user.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := Session(c)
		if s == nil || s.Kind != session.KindAdmin || !s.Auth.State().Authenticated() {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error":    "Admin login required",
				"redirect": "/admin" + LoginPath,
			})
		}
		if !s.Auth.State().User().IsAdmin() {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Admin access only"})
		}
		return next(c)
	}
}
