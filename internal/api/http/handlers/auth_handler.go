package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/api/dto"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/service"
	apperrors "github.com/e-ashyoviy-dalillar/evidence-service/pkg/util/errorutil"
)

// AuthAPI is the part of the auth service used by AuthHandler.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, session domain.Session) error
}

// AuthHandler exposes login, logout and the current account.
type AuthHandler struct {
	auth     AuthAPI
	validate *Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService AuthAPI, validate *Validator) *AuthHandler {
	return &AuthHandler{auth: authService, validate: validate}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.Session.ExpiresAt,
		User:        dto.NewUserResponse(*result.User),
	})
}

// Me handles GET and POST /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Session); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
