package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewTooManyRequests(message string) error {
	return NewDomainError("RATE_LIMITED", message, http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	switch {
	case errors.Is(err, domain.ErrEvidenceNotFound):
		return NewNotFound("evidence", nil).(*DomainError)
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFound("user", nil).(*DomainError)
	case errors.Is(err, pgx.ErrNoRows):
		return NewNotFound("resource", nil).(*DomainError)
	case errors.Is(err, domain.ErrUsernameTaken):
		return NewConflict(err.Error(), nil).(*DomainError)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return NewUnauthorized(err.Error()).(*DomainError)
	case errors.Is(err, domain.ErrForbidden):
		return NewForbidden(err.Error()).(*DomainError)
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return NewDomainError("INVALID_STATUS_TRANSITION", err.Error(), http.StatusUnprocessableEntity, nil)
	case errors.Is(err, domain.ErrExpiryRequired),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrReasonRequired),
		errors.Is(err, domain.ErrUnsupportedFileType):
		return NewValidationError(err.Error(), nil).(*DomainError)
	case errors.Is(err, domain.ErrFileTooLarge):
		return NewDomainError("PAYLOAD_TOO_LARGE", err.Error(), http.StatusRequestEntityTooLarge, nil)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}

	return NewInternalError(err).(*DomainError)
}

func fromFiberError(err *fiber.Error) *DomainError {
	code := "HTTP_ERROR"
	switch err.Code {
	case http.StatusNotFound:
		code = "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		code = "PAYLOAD_TOO_LARGE"
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusForbidden:
		code = "FORBIDDEN"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = "BAD_REQUEST"
	case http.StatusTooManyRequests:
		code = "RATE_LIMITED"
	}
	if err.Code >= http.StatusInternalServerError {
		return NewInternalError(err).(*DomainError)
	}
	return NewDomainError(code, err.Message, err.Code, nil)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
