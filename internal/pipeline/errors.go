package pipeline

import (
	"errors"
	"fmt"
)

// ErrorType classifies a step failure.
type ErrorType string

const (
	// ErrorTypeNotFound indicates a required input artifact is missing.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeSchema indicates an expected column is absent from an input table.
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeValidation indicates a post-condition on a step's output was violated.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeExecution covers any other failure while running a step.
	ErrorTypeExecution ErrorType = "execution"
)

// StageError is the error returned by pipeline steps. Every step failure is
// fatal to the invoking step: the step either persists a complete artifact or
// persists nothing. Transient/retry classification lives in the external
// orchestrator, not here.
type StageError struct {
	Type    ErrorType
	Step    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewNotFoundError reports a missing input artifact.
func NewNotFoundError(step, artifact string, cause error) *StageError {
	return &StageError{
		Type:    ErrorTypeNotFound,
		Step:    step,
		Message: fmt.Sprintf("input artifact %q not found", artifact),
		Cause:   cause,
	}
}

// NewSchemaError reports a missing column in an input table.
func NewSchemaError(step, column string) *StageError {
	return &StageError{
		Type:    ErrorTypeSchema,
		Step:    step,
		Message: fmt.Sprintf("required column %q absent from input table", column),
	}
}

// NewValidationError reports a violated output post-condition.
func NewValidationError(step, message string) *StageError {
	return &StageError{
		Type:    ErrorTypeValidation,
		Step:    step,
		Message: message,
	}
}

// NewExecutionError wraps an unexpected failure during step execution.
func NewExecutionError(step string, cause error) *StageError {
	return &StageError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

func isType(err error, t ErrorType) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Type == t
	}
	return false
}

// IsNotFound reports whether err is a missing-artifact error.
func IsNotFound(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsSchemaError reports whether err is a missing-column error.
func IsSchemaError(err error) bool { return isType(err, ErrorTypeSchema) }

// IsValidationError reports whether err is a post-condition error.
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }
