package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a disagreement between the engine and the reference oracle.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorDomain   = 5   // Indicates an arithmetic domain error (e.g. division by zero).
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sentinel causes carried by DomainError. Callers match them with errors.Is.
var (
	// ErrDivisionByZero is returned by division and modular reduction when the
	// divisor or modulus is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNegativeShift is returned when a shift amount is negative.
	ErrNegativeShift = errors.New("negative shift amount")
	// ErrNegativeExponent is returned when a signed exponent is negative.
	ErrNegativeExponent = errors.New("negative exponent")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// DomainError reports an arithmetic operation whose inputs lie outside its
// domain. The result of such an operation is never meaningful, which keeps a
// legitimate zero distinguishable from an invalid input.
type DomainError struct {
	// Op is the name of the operation that rejected its inputs (e.g. "Divide").
	Op string
	// Err is one of the sentinel causes declared in this package.
	Err error
}

// Error returns a message of the form "<op>: <cause>".
func (e DomainError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the sentinel cause so errors.Is(err, ErrDivisionByZero) works.
func (e DomainError) Unwrap() error { return e.Err }

// NewDomainError builds a DomainError for op with the given cause.
func NewDomainError(op string, cause error) error {
	return DomainError{Op: op, Err: cause}
}

// CalculationError encapsulates an evaluation error while preserving the
// original cause.
type CalculationError struct {
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MismatchError records a disagreement between the engine and a reference
// oracle for a single operation.
type MismatchError struct {
	// Op is the operation name as registered in the evaluator.
	Op string
	// Signed reports whether the signed type was under test.
	Signed bool
	// Args are the decimal operands.
	Args []string
	// Got is the engine result, Want the oracle result.
	Got, Want string
}

// Error returns a one-line description of the mismatch.
func (e MismatchError) Error() string {
	kind := "u256"
	if e.Signed {
		kind = "i256"
	}
	return fmt.Sprintf("%s %s%v: got %s, want %s", kind, e.Op, e.Args, e.Got, e.Want)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code the CLI reports for it.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		configErr     ConfigError
		validationErr ValidationError
		domainErr     DomainError
		mismatchErr   MismatchError
		timeoutErr    TimeoutError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &domainErr):
		return ExitErrorDomain
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}
