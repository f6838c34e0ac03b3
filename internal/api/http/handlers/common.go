package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	apperrors "github.com/e-ashyoviy-dalillar/evidence-service/pkg/util/errorutil"
)

func currentUser(c *fiber.Ctx) (domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.User{}, apperrors.NewUnauthorized("user required")
	}
	return *principal.User, nil
}

func queryString(c *fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}
