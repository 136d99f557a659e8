package core

import (
	"errors"
	"fmt"
)

// AppError is a structured application error carrying a stable code so
// callers can branch on failure class without string matching.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	// CodeConfiguration marks an invalid option value. Configuration
	// errors are fatal and surface before any test runs.
	CodeConfiguration = "CONFIGURATION"
	// CodeValidation marks malformed input data (p-value outside [0,1],
	// duplicate sample identifier, malformed term id).
	CodeValidation = "VALIDATION"
	// CodeDegenerateTable marks a contingency table that cannot support
	// the chosen statistic (all-zero row or column, empty group).
	// Recorded per term, never fatal to a run.
	CodeDegenerateTable = "DEGENERATE_TABLE"
	// CodeLookup marks a query for an entity outside the bound snapshot,
	// such as a frozen classifier asked about a foreign individual.
	CodeLookup = "LOOKUP"
	// CodeInternal is the fallback for wrapped causes of unknown class.
	CodeInternal = "INTERNAL"
)

// New creates an AppError with the given code.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with a formatted message.
func Newf(code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context, preserving the cause's
// code when it is already an AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternal
	var appErr *AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Common error constructors
func ConfigurationError(format string, args ...interface{}) *AppError {
	return Newf(CodeConfiguration, format, args...)
}

func ValidationError(format string, args ...interface{}) *AppError {
	return Newf(CodeValidation, format, args...)
}

func DegenerateTable(format string, args ...interface{}) *AppError {
	return Newf(CodeDegenerateTable, format, args...)
}

func LookupFailed(format string, args ...interface{}) *AppError {
	return Newf(CodeLookup, format, args...)
}

// CodeOf returns the error code, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Error checking helpers
func IsConfiguration(err error) bool {
	return hasCode(err, CodeConfiguration)
}

func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

func IsDegenerateTable(err error) bool {
	return hasCode(err, CodeDegenerateTable)
}

func IsLookup(err error) bool {
	return hasCode(err, CodeLookup)
}
