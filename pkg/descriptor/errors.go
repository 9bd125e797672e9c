package descriptor

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific descriptor field.
type FieldError struct {
	// Field is the dotted path to the field (e.g. "exclude.S002.R04").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors for a single
// dataset entry. One dataset failing validation does not abort resolution
// of its siblings; the loader collects these per dataset.
type ValidationError struct {
	// Dataset is the mapping key of the offending dataset entry.
	Dataset string

	// Errors contains all field errors found in the entry.
	Errors []FieldError
}

// Error returns a formatted string containing all field errors.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("dataset %q: validation failed", e.Dataset)
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("dataset %q: %s", e.Dataset, e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("dataset %q: validation failed with %d errors:\n", e.Dataset, len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}
