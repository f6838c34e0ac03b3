package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/api/dto"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/service"
)

// UserAPI is the part of the user service used by UsersHandler.
type UserAPI interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input service.UserInput) (*domain.User, error)
	Update(ctx context.Context, id string, patch service.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, caller domain.User, id string) error
}

// UsersHandler manages accounts. Routes are admin only.
type UsersHandler struct {
	users    UserAPI
	validate *Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users UserAPI, validate *Validator) *UsersHandler {
	return &UsersHandler{users: users, validate: validate}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserList(users)})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), service.UserInput{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
		Password:    req.Password,
		Role:        domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// Update PATCH /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	patch := service.UserPatch{
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
		Password:    req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	user, err := h.users.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
