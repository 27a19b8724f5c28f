package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ayaocrm/crm/internal/service"
)

type login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type session struct {
	Token     string `json:"accessToken"`
	ExpiresAt int64  `json:"expiresAt"`
}

// AuthHTTPHandler is http handler for auth endpoint
type AuthHTTPHandler struct {
	identitySvc service.IdentityService
}

// NewAuthHTTPHandler builds new AuthHTTPHandler
func NewAuthHTTPHandler(identitySvc service.IdentityService) *AuthHTTPHandler {
	return &AuthHTTPHandler{identitySvc: identitySvc}
}

// Login verifies provided credentials and signs an access token
func (h *AuthHTTPHandler) Login(c echo.Context) error {
	var lgn login
	if err := c.Bind(&lgn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&lgn); err != nil {
		return err
	}

	jwt, err := h.identitySvc.Authenticate(c.Request().Context(), lgn.Username, lgn.Password, time.Now().UTC())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &session{
		Token:     jwt.Signed,
		ExpiresAt: jwt.ExpiresAt,
	})
}
