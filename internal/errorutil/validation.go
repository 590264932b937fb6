package errorutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a collection of validation failures
type ValidationError struct {
	Context string
	Errors  []FieldError
}

// FieldError represents a single field validation failure
type FieldError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s validation failed", e.Context)
	}

	var messages []string
	for _, fieldErr := range e.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", fieldErr.Field, fieldErr.Message))
	}

	return fmt.Sprintf("%s validation failed: %s", e.Context, strings.Join(messages, "; "))
}

// HasField reports whether field failed validation
func (e *ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ValidationBuilder helps accumulate validation errors using builder pattern
type ValidationBuilder struct {
	context string
	errors  []FieldError
}

// NewValidationBuilder creates a new validation builder with context
func NewValidationBuilder(context string) *ValidationBuilder {
	return &ValidationBuilder{
		context: context,
		errors:  make([]FieldError, 0),
	}
}

// Add records a failure for field
func (vb *ValidationBuilder) Add(field string, value interface{}, message string) *ValidationBuilder {
	vb.errors = append(vb.errors, FieldError{
		Field:   field,
		Value:   value,
		Message: message,
	})
	return vb
}

// Check records message for field when err is non-nil
func (vb *ValidationBuilder) Check(field string, value interface{}, err error) *ValidationBuilder {
	if err != nil {
		vb.Add(field, value, err.Error())
	}
	return vb
}

// Struct runs the struct-tag rules of v over s and records every failure.
// Field names are the namespaces reported by the validator, so registering a
// tag-name function on v controls how fields are named.
func (vb *ValidationBuilder) Struct(v *validator.Validate, s interface{}) *ValidationBuilder {
	err := v.Struct(s)
	if err == nil {
		return vb
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return vb.Add(vb.context, s, err.Error())
	}

	for _, fe := range fieldErrs {
		vb.Add(trimNamespace(fe.Namespace()), fe.Value(), tagMessage(fe))
	}
	return vb
}

// trimNamespace drops the top-level struct name ("Config.engine.x" -> "engine.x")
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// ValidIf conditionally applies validation based on a condition
func (vb *ValidationBuilder) ValidIf(condition bool, validationFunc func(*ValidationBuilder) *ValidationBuilder) *ValidationBuilder {
	if condition {
		return validationFunc(vb)
	}
	return vb
}

// Build returns the validation error if any errors were collected, nil otherwise
func (vb *ValidationBuilder) Build() error {
	if len(vb.errors) == 0 {
		return nil
	}

	return &ValidationError{
		Context: vb.context,
		Errors:  vb.errors,
	}
}
