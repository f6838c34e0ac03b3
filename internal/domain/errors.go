package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEvidenceNotFound        = errors.New("evidence not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameTaken           = errors.New("username already taken")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrForbidden               = errors.New("access forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrExpiryRequired          = errors.New("expiry date required for SPECIFIC_DATE category")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInvalidCategory         = errors.New("invalid storage category")
	ErrReasonRequired          = errors.New("reason is required")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file too large")

	ErrCannotDeleteSelf = fmt.Errorf("%w: cannot delete own account", ErrForbidden)
)
