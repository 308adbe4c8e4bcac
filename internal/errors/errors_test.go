package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	err := NewConfigError("unknown operation %q", "pow")
	if err.Error() != `unknown operation "pow"` {
		t.Errorf("unexpected message %q", err.Error())
	}
	var configErr ConfigError
	if !errors.As(err, &configErr) {
		t.Error("expected error to be ConfigError type")
	}
}

func TestDomainError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		cause    error
		expected string
	}{
		{"division by zero", NewDomainError("Divide", ErrDivisionByZero), ErrDivisionByZero, "Divide: division by zero"},
		{"negative shift", NewDomainError("LeftShift", ErrNegativeShift), ErrNegativeShift, "LeftShift: negative shift amount"},
		{"negative exponent", NewDomainError("ExpMod", ErrNegativeExponent), ErrNegativeExponent, "ExpMod: negative exponent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if !errors.Is(tt.err, tt.cause) {
				t.Errorf("errors.Is should find %v in the chain", tt.cause)
			}
			wrapped := fmt.Errorf("evaluating: %w", tt.err)
			var domainErr DomainError
			if !errors.As(wrapped, &domainErr) {
				t.Fatal("errors.As should find DomainError through fmt.Errorf")
			}
			if domainErr.Err != tt.cause {
				t.Errorf("DomainError.Err = %v, want %v", domainErr.Err, tt.cause)
			}
		})
	}
}

func TestCalculationError(t *testing.T) {
	t.Parallel()
	cause := NewDomainError("Mod", ErrDivisionByZero)
	err := CalculationError{Cause: cause}

	if err.Error() != cause.Error() {
		t.Errorf("expected %q, got %q", cause.Error(), err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the original cause")
	}
	if !errors.Is(err, ErrDivisionByZero) {
		t.Error("errors.Is should see through CalculationError and DomainError")
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	err := TimeoutError{Operation: "verify", Limit: 30 * time.Second}
	if err.Error() != `operation "verify" timed out after 30s` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "a", Message: "not a number"}
	if err.Error() != `validation error for "a": not a number` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMismatchError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      MismatchError
		expected string
	}{
		{
			name:     "unsigned",
			err:      MismatchError{Op: "add", Args: []string{"1", "2"}, Got: "4", Want: "3"},
			expected: "u256 add[1 2]: got 4, want 3",
		},
		{
			name:     "signed",
			err:      MismatchError{Op: "div", Signed: true, Args: []string{"-7", "2"}, Got: "-4", Want: "-3"},
			expected: "i256 div[-7 2]: got -4, want -3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil, ...) should return nil")
	}
	wrapped := WrapError(context.DeadlineExceeded, "operand %d", 2)
	if wrapped.Error() != "operand 2: context deadline exceeded" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Error("wrapped error should preserve the chain")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "verify"), true},
		{"domain error", NewDomainError("Divide", ErrDivisionByZero), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitErrorGeneric},
		{"deadline", WrapError(context.DeadlineExceeded, "verify"), ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "x", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
		{"validation", ValidationError{Field: "b", Message: "empty"}, ExitErrorConfig},
		{"domain", CalculationError{Cause: NewDomainError("Divide", ErrDivisionByZero)}, ExitErrorDomain},
		{"mismatch", MismatchError{Op: "mul"}, ExitErrorMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorMismatch": ExitErrorMismatch,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorDomain":   ExitErrorDomain,
		"ExitErrorCanceled": ExitErrorCanceled,
	}
	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
