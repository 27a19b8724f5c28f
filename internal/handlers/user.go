package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayaocrm/crm/internal/middleware"
	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/internal/service"
)

type newUser struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
	FullName string `json:"fullName"`
	Language string `json:"language" validate:"omitempty,max=8"`
}

type resetPassword struct {
	Username string `param:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// UserHTTPHandler is http handler for user management, admin-only surface
type UserHTTPHandler struct {
	identitySvc service.IdentityService
}

// NewUserHTTPHandler builds new UserHTTPHandler
func NewUserHTTPHandler(identitySvc service.IdentityService) *UserHTTPHandler {
	return &UserHTTPHandler{identitySvc: identitySvc}
}

// GetAll lists user accounts without password material
func (h *UserHTTPHandler) GetAll(c echo.Context) error {
	users, err := h.identitySvc.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Post creates new user account
func (h *UserHTTPHandler) Post(c echo.Context) error {
	var nu newUser
	if err := c.Bind(&nu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nu); err != nil {
		return err
	}

	created, err := h.identitySvc.CreateUser(c.Request().Context(), middleware.Actor(c), service.NewUser{
		Username: nu.Username,
		Password: nu.Password,
		Role:     model.Role(nu.Role),
		FullName: nu.FullName,
		Language: nu.Language,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// PutPassword resets user password
func (h *UserHTTPHandler) PutPassword(c echo.Context) error {
	var rp resetPassword
	if err := c.Bind(&rp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&rp); err != nil {
		return err
	}

	if err := h.identitySvc.ResetPassword(c.Request().Context(), middleware.Actor(c), rp.Username, rp.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// DeleteByUsername deletes user account
func (h *UserHTTPHandler) DeleteByUsername(c echo.Context) error {
	username := c.Param("username")
	if err := h.identitySvc.DeleteUser(c.Request().Context(), middleware.Actor(c), username); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
