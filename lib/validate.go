package rolodex

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a validation failure for a specific field
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value,omitempty"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// ValidationErrors represents multiple validation failures
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Message
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

// Messages returns the per-field messages in field order.
func (ve ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Message
	}
	return messages
}

// Validate checks values against their `validate` struct tags.
type Validate interface {
	IsValid(v any) error
}

// zValidate implements the Validate interface using go-playground/validator
type zValidate struct {
	validator *validator.Validate
}

// NewValidate creates a new Validate instance reporting JSON field names.
func NewValidate() Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &zValidate{
		validator: v,
	}
}

// IsValid checks if the provided struct is valid according to its validation tags
func (v *zValidate) IsValid(value any) error {
	err := v.validator.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	out := ValidationErrors{Errors: make([]ValidationError, 0, len(fieldErrors))}
	for _, e := range fieldErrors {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Rule:    e.Tag(),
			Message: errorMessage(e),
			Param:   e.Param(),
		})
	}
	return out
}

// errorMessage generates user-friendly error messages
func errorMessage(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
