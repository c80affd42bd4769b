package user

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "user-directory-service/pkg/errors"
)

// fieldMessages holds the message reported for each field/tag pair.
var fieldMessages = map[string]map[string]string{
	"Name": {
		"notblank": "Name is required",
		"min":      "Name must be between 2 and 100 characters",
		"max":      "Name must be between 2 and 100 characters",
	},
	"Email": {
		"notblank": "Email is required",
		"max":      "Email cannot exceed 254 characters",
		"email":    "Email must be valid",
	},
	"Phone": {
		"max": "Phone number cannot exceed 15 characters",
	},
	"Address": {
		"max": "Address cannot exceed 500 characters",
	},
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// listing every violated field.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewInternalError("failed to validate input", err)
	}

	violations := make([]apperrors.FieldViolation, 0, len(validationErrors))
	for _, e := range validationErrors {
		msg, ok := fieldMessages[e.Field()][e.Tag()]
		if !ok {
			msg = e.Field() + " is invalid"
		}
		violations = append(violations, apperrors.FieldViolation{Field: e.Field(), Message: msg})
	}
	return apperrors.NewValidationError(violations...)
}
