package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userbase/accounts-api/internal/api/metrics"
	"github.com/userbase/accounts-api/internal/core/auth"
	"github.com/userbase/accounts-api/internal/core/domain"
	"github.com/userbase/accounts-api/internal/core/ports"
)

// AccountHandler serves the /api/users routes. Errors are returned to the
// central error handler, which maps them to status codes.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/users/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	account, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Login checks credentials and returns a signed token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /api/users/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	result, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toAccountResponse(result.Account),
	})
}

// List returns every account.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /api/users [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]accountResponse, len(accounts))
	for i := range accounts {
		out[i] = toAccountResponse(&accounts[i])
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one account.
//
// @Summary      Get an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/users/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := authorizeTarget(c, auth.OpReadAccount)
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Update changes name, email or role. Changing the role needs admin.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Account id"
// @Param        body  body      updateRequest  true  "Fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /api/users/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := authorizeTarget(c, auth.OpUpdateAccount)
	if err != nil {
		return err
	}

	var req updateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Role != nil {
		who, err := ctxCaller(c)
		if err != nil {
			return err
		}
		if auth.Authorize(who.Role, auth.OpAssignRole) != auth.Allow {
			return domain.ErrForbidden
		}
	}

	account, err := h.service.Update(c.Request().Context(), id, toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete removes an account.
//
// @Summary      Delete an account
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "Account id"
// @Success      204
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := authorizeTarget(c, auth.OpDeleteAccount)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Permissions returns the id and role of an account.
//
// @Summary      Get account permissions
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  permissionsResponse
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/users/permissions/{id} [get]
func (h *AccountHandler) Permissions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	perms, err := h.service.GetPermissions(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissionsResponse{ID: perms.ID, Role: perms.Role.String()})
}

// Profile returns the public identity of an account.
//
// @Summary      Get account profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  profileResponse
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/users/profile/{id} [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	id, err := authorizeTarget(c, auth.OpViewProfile)
	if err != nil {
		return err
	}
	profile, err := h.service.GetProfile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{ID: profile.ID, Name: profile.Name, Email: profile.Email})
}

// errorBody documents the error envelope for swagger.
type errorBody struct {
	Error string `json:"error" example:"invalid credentials"`
}
