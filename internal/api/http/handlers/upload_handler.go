package handlers

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/api/dto"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/service"
	apperrors "github.com/e-ashyoviy-dalillar/evidence-service/pkg/util/errorutil"
)

// UploadAPI is the part of the upload service used by UploadHandler.
type UploadAPI interface {
	MaxBytes() int64
	UploadImage(ctx context.Context, user domain.User, body io.Reader, size int64) (*service.UploadResult, error)
}

// UploadHandler accepts evidence photos.
type UploadHandler struct {
	uploads UploadAPI
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploads UploadAPI) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Image POST /api/upload/image with a multipart "file" field.
func (h *UploadHandler) Image(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("validation failed", map[string]any{"file": "file is required"})
	}
	if limit := h.uploads.MaxBytes(); limit > 0 && header.Size > limit {
		return domain.ErrFileTooLarge
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("invalid upload", nil)
	}
	defer file.Close()

	result, err := h.uploads.UploadImage(c.UserContext(), user, file, header.Size)
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadResponse{URL: result.URL, Path: result.Path})
}
