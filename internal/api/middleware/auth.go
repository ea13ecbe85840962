package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/safevault/safevault-api/internal/core/token"
)

// Auth verifies the Bearer token and injects its claims into the request
// context. Signature, issuer, audience and expiry are all checked by the
// verifier; role claims inside a verified token are trusted without a store
// round trip.
func Auth(verifier *token.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("username", claims.Username)
			c.Set("email", claims.Email)
			c.Set("user_id", claims.UserID)
			c.Set("roles", claims.Roles)

			return next(c)
		}
	}
}
