package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/orchestration"
)

func TestCLIResultPresenter_HandleError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		contains string
	}{
		{"nil", nil, apperrors.ExitSuccess, ""},
		{"deadline", context.DeadlineExceeded, apperrors.ExitErrorTimeout, "Timeout"},
		{"timeout error", apperrors.TimeoutError{Operation: "verify", Limit: time.Second}, apperrors.ExitErrorTimeout, "Timeout"},
		{"canceled", apperrors.WrapError(context.Canceled, "batch"), apperrors.ExitErrorCanceled, "Canceled"},
		{"domain", apperrors.NewDomainError("Divide", apperrors.ErrDivisionByZero), apperrors.ExitErrorDomain, "Domain error in Divide: division by zero"},
		{"config", apperrors.NewConfigError("bad"), apperrors.ExitErrorConfig, "Failure. bad"},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric, "Failure. boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := CLIResultPresenter{}.HandleError(tt.err, 2*time.Millisecond, &buf)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q should contain %q", buf.String(), tt.contains)
			}
		})
	}
}

func TestCLIResultPresenter_Delegates(t *testing.T) {
	t.Parallel()
	var p orchestration.ResultPresenter = CLIResultPresenter{}
	var buf bytes.Buffer

	p.PresentResult(mulResult, orchestration.PresentationOptions{}, &buf)
	p.PresentBatch([]calc.Result{divZeroResult}, orchestration.PresentationOptions{}, &buf)
	p.PresentVerification(orchestration.VerifyReport{Oracle: "big"}, &buf)
	p.PresentBenchmark([]orchestration.BenchResult{{Op: "add", NsPerOp: 2}}, &buf)

	for _, s := range []string{"= 55340232221128654848", "1 failed", "PASS", "u256 add"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("Expected output to contain %q, but got:\n%s", s, buf.String())
		}
	}
	if got := (CLIResultPresenter{}).FormatDuration(1500 * time.Millisecond); got != "1.5s" {
		t.Errorf("FormatDuration = %q", got)
	}
}

func TestPadTo(t *testing.T) {
	t.Parallel()
	if got := padTo("ab", 5); got != "ab   " {
		t.Errorf("padTo = %q", got)
	}
	if got := padTo("abcdef", 3); got != "abcdef" {
		t.Errorf("padTo should not truncate, got %q", got)
	}
}
