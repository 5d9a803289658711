package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"trulearn-be/internal/pkg/apperror"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts the first failure
// into a ValidationError so the error middleware maps it to 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidationError("", err.Error())
	}

	fe := validationErrors[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperror.NewValidationError(field, "is required")
	case "oneof":
		return apperror.NewValidationError(field, fmt.Sprintf("must be one of [%s]", fe.Param()))
	default:
		return apperror.NewValidationError(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
}
