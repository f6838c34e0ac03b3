package service

import apperrors "github.com/e-ashyoviy-dalillar/evidence-service/pkg/util/errorutil"

var errInvalidPeriod = apperrors.NewValidationError("invalid year or month", nil)
