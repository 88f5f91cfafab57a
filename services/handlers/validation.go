package handlers

import (
	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/shared"
)

// validationError wraps validator failures with the per-field details in the
// response payload.
func validationError(err error) *shared.AppError {
	appErr := shared.NewBadRequestError(err, "Validation failed")
	appErr.Data = dto.FormatValidationErrors(err)
	return appErr
}
