package blog

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator using the struct field names in errors.
func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// failedTags returns the validation tags that failed for each field.
func failedTags(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	failed := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		failed[fe.Field()] = fe.Tag()
	}
	return failed
}

func hasTag(failed map[string]string, tag string) bool {
	for _, t := range failed {
		if t == tag {
			return true
		}
	}
	return false
}
