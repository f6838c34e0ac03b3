package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	apperrors "github.com/e-ashyoviy-dalillar/evidence-service/pkg/util/errorutil"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Validator wraps go-playground/validator and reports failures as
// per-field validation details keyed by JSON name.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator with the service's custom tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("storage_category", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseStorageCategory(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate checks a request struct.
func (val *Validator) Validate(i any) error {
	err := val.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(ve))
	for _, fe := range ve {
		details[fieldName(fe)] = fieldError(fe)
	}
	return apperrors.NewValidationError("validation failed", details)
}

// bind parses the JSON body into req and validates it.
func (val *Validator) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return val.Validate(req)
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s is too short (min %s)", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s is too long (max %s)", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "storage_category":
		return field + " must be LIFETIME or SPECIFIC_DATE"
	case "role":
		return field + " must be one of: admin, tergovchi, rahbariyat"
	case "username":
		return field + " may contain only letters, digits, dots, dashes and underscores"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
