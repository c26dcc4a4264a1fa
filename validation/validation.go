// Package validation checks tagged structs at the pipeline and API
// boundaries and reports failures as structured AppErrors.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/pageforge/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError describes one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// json tag names read better in API error payloads
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates a struct using `validate` tags and returns a
// VALIDATION_FAILED AppError listing every offending field.
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ValidationFailed("validation failed")
	}

	fields := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msg := formatFieldError(e)
		fields = append(fields, FieldError{Field: e.Field(), Message: msg})
		messages = append(messages, e.Field()+" "+msg)
	}

	appErr := errors.ValidationFailed(strings.Join(messages, "; "))
	return appErr.WithDetail("fields", fields)
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	default:
		return "is invalid"
	}
}
