package orchestration

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/oracle"
)

// MaxReportedMismatches bounds the mismatches kept in a VerifyReport; the
// counters stay exact.
const MaxReportedMismatches = 50

// VerifyOptions configures a differential verification run.
type VerifyOptions struct {
	// Ops are the operations to check; both types are checked for each.
	Ops []calc.Op
	// Iterations is the number of random requests per operation and type.
	Iterations int
	// Workers bounds the number of concurrent shards.
	Workers int
	// Seed determines every generated request.
	Seed int64
}

// OpStats counts the outcomes for one operation and type.
type OpStats struct {
	Op         string
	Signed     bool
	Checked    int
	Errors     int
	Mismatches int
}

// VerifyReport is the outcome of RunVerification.
type VerifyReport struct {
	Oracle     string
	Seed       int64
	Checked    int
	Mismatched int
	// Skipped lists "i256 op" pairs the oracle does not support.
	Skipped    []string
	PerOp      []OpStats
	Mismatches []apperrors.MismatchError
	Duration   time.Duration
	// Err is the context error when the run was interrupted.
	Err error
}

// OK reports whether the run completed without any disagreement.
func (r VerifyReport) OK() bool {
	return r.Err == nil && r.Mismatched == 0
}

// ExitCode maps the report to the process exit code.
func (r VerifyReport) ExitCode() int {
	switch {
	case r.Mismatched > 0:
		return apperrors.ExitErrorMismatch
	case r.Err != nil:
		return apperrors.ExitCodeFor(r.Err)
	}
	return apperrors.ExitSuccess
}

type shard struct {
	op     calc.Op
	signed bool
}

// RunVerification evaluates opts.Iterations random requests per operation
// and type with both the engine and ref, and reports every disagreement.
// Each shard draws from its own deterministic stream, so a seed reproduces
// the same requests whatever the scheduling.
func RunVerification(ctx context.Context, reg *calc.Registry, opts VerifyOptions, ref oracle.Oracle, progressReporter ProgressReporter, out io.Writer) VerifyReport {
	start := time.Now()
	report := VerifyReport{Oracle: ref.Name(), Seed: opts.Seed}

	var shards []shard
	for _, signed := range []bool{false, true} {
		for _, op := range opts.Ops {
			if !op.Supports(signed) {
				continue
			}
			if !ref.Supports(op.Name, signed) {
				report.Skipped = append(report.Skipped, calc.Request{Op: op.Name, Signed: signed}.String())
				continue
			}
			shards = append(shards, shard{op: op, signed: signed})
		}
	}
	stats := make([]OpStats, len(shards))

	progressChan := make(chan ProgressUpdate, max(len(shards), 1)*ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(shards), out)

	var mu sync.Mutex
	record := func(m apperrors.MismatchError) {
		mu.Lock()
		defer mu.Unlock()
		if len(report.Mismatches) < MaxReportedMismatches {
			report.Mismatches = append(report.Mismatches, m)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	stride := max(opts.Iterations/20, 1)
	for i, s := range shards {
		g.Go(func() error {
			gen := NewGenerator(opts.Seed, uint64(i))
			st := OpStats{Op: s.op.Name, Signed: s.signed}
			defer func() { stats[i] = st }()

			for n := range opts.Iterations {
				if err := gctx.Err(); err != nil {
					return err
				}
				req := gen.Request(s.op, s.signed)
				got := calc.Eval(reg, req)
				want, wantErr := ref.Eval(req)
				st.Checked++
				if wantErr != nil {
					st.Errors++
				}
				if !agree(got, want, wantErr) {
					st.Mismatches++
					record(mismatch(got, want, wantErr))
				}
				if (n+1)%stride == 0 {
					sendProgress(progressChan, i, float64(n+1)/float64(opts.Iterations))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		report.Err = err
	}
	close(progressChan)
	displayWg.Wait()

	report.PerOp = stats
	for _, st := range stats {
		report.Checked += st.Checked
		report.Mismatched += st.Mismatches
	}
	report.Duration = time.Since(start)
	return report
}

// agree compares an engine result with the oracle's. Failures agree when
// both sides report the same domain error class.
func agree(got calc.Result, want string, wantErr error) bool {
	if got.Err != nil || wantErr != nil {
		return got.Err != nil && wantErr != nil && errorClass(got.Err) == errorClass(wantErr)
	}
	return got.Value == want
}

// errorClass returns the domain sentinel of err, or err itself for other
// failures so that they never compare equal across implementations.
func errorClass(err error) error {
	for _, s := range []error{apperrors.ErrDivisionByZero, apperrors.ErrNegativeShift, apperrors.ErrNegativeExponent} {
		if errors.Is(err, s) {
			return s
		}
	}
	return err
}

func mismatch(got calc.Result, want string, wantErr error) apperrors.MismatchError {
	m := apperrors.MismatchError{
		Op:     got.Request.Op,
		Signed: got.Request.Signed,
		Args:   got.Request.Args,
		Got:    got.Value,
		Want:   want,
	}
	if got.Err != nil {
		m.Got = "error: " + got.Err.Error()
	}
	if wantErr != nil {
		m.Want = "error: " + wantErr.Error()
	}
	return m
}
