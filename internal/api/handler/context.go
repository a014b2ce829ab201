package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userbase/accounts-api/internal/api/middleware"
	"github.com/userbase/accounts-api/internal/core/auth"
	"github.com/userbase/accounts-api/internal/core/domain"
)

// caller is the authenticated identity placed in context by middleware.Auth.
type caller struct {
	ID   int64
	Role domain.Role
}

// ctxCaller extracts the caller. A missing role means Auth did not run.
func ctxCaller(c echo.Context) (caller, error) {
	role, _ := c.Get(middleware.RoleKey).(domain.Role)
	id, _ := c.Get(middleware.SubjectKey).(int64)
	if role == "" {
		return caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return caller{ID: id, Role: role}, nil
}

// authorizeTarget checks op for the caller against the account in the :id path param
// and returns that id.
func authorizeTarget(c echo.Context, op auth.Operation) (int64, error) {
	id, err := pathID(c)
	if err != nil {
		return 0, err
	}
	who, err := ctxCaller(c)
	if err != nil {
		return 0, err
	}
	if auth.AuthorizeSubject(who.Role, who.ID, op, id) != auth.Allow {
		return 0, domain.ErrForbidden
	}
	return id, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}
