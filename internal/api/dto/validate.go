package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs tag validation and converts failures into a
// VALIDATION_FAILED error carrying per-field detail.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return apperrors.NewValidationError("validation failed", nil)
}
