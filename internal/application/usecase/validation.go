// internal/application/usecase/validation.go
package usecase

import "strings"

// FieldError is one field-level validation failure, reported inline by the
// client. Submission is blocked but the state is fully recoverable by edit.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field errors for one request.
// Checks run in a fixed order and short-circuit on the first failure, so
// Fields carries exactly the first broken rule.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func fieldErr(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
