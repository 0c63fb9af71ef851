package partnership

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldNameRegexp = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// validateStruct checks request by its tags and returns validation error with
// the first violated rule.
func validateStruct(request interface{}) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf(`failed to validate request: "%w"`, err)
	}
	return newValidationError("%s", describeFieldError(fieldErrs[0]))
}

func describeFieldError(err validator.FieldError) string {
	field := CapitalizeString(strings.ToLower(
		fieldNameRegexp.ReplaceAllString(err.Field(), "$1 $2")))
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s could not be shorter than %s symbols",
			field, err.Param())
	case "max":
		return fmt.Sprintf("%s could not be longer than %s symbols",
			field, err.Param())
	case "gte":
		return fmt.Sprintf("%s could not be negative", field)
	default:
		return fmt.Sprintf("%s has invalid value", field)
	}
}

func validateEmail(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return newValidationError("Email has invalid format")
	}
	return nil
}
