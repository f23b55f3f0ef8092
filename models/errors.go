package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyPayload   = errors.New("request body is empty")
	ErrInvalidPayload = errors.New("request body must be a JSON object or array")
)

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every field of a question (or batch) that failed
// the required-field rules.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path + ": " + f.Message
	}
	return "question validation failed: " + strings.Join(parts, ", ")
}
