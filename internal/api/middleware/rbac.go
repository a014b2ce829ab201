package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userbase/accounts-api/internal/core/auth"
	"github.com/userbase/accounts-api/internal/core/domain"
)

// Require lets the request through only when the caller's role may perform op.
// It must run after Auth.
func Require(op auth.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(domain.Role)
			if auth.Authorize(role, op) != auth.Allow {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
