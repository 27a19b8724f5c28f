package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ayaocrm/crm/internal/auth"
	"github.com/ayaocrm/crm/internal/model"
)

const actorContextKey = "actor"

// Authorize verifies the bearer token and stores the acting identity in
// the request context, so downstream code never reads ambient state
func Authorize(validator *auth.JwtValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHdr := c.Request().Header.Get("Authorization")
			hdrSplit := strings.Split(authHdr, " ")
			if len(hdrSplit) != 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid Authorization header format")
			}

			claims, err := validator.Verify(hdrSplit[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set(actorContextKey, claims.Actor())
			return next(c)
		}
	}
}

// AdminOnly rejects requests from non-administrator actors. Must be
// chained after Authorize.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !Actor(c).IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "administrator permissions required")
			}
			return next(c)
		}
	}
}

// Actor extracts the acting identity stored by Authorize
func Actor(c echo.Context) model.Actor {
	if actor, ok := c.Get(actorContextKey).(model.Actor); ok {
		return actor
	}
	return model.Actor{}
}
