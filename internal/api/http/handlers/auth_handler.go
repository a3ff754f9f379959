package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/api/dto"
	"github.com/memberops/memberops-api/internal/auth"
	"github.com/memberops/memberops-api/internal/service"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:       session.Token,
		Username:    session.Staff.Username,
		DisplayName: session.Staff.DisplayName,
		Role:        session.Staff.Role,
		ExpiresAt:   session.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.TokenID, principal.ExpiresAt); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
