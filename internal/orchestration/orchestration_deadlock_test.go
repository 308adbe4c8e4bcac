package orchestration

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/oracle"
)

// slowProgressReporter consumes updates with a delay, so producers see a full
// channel most of the time.
type slowProgressReporter struct {
	delay time.Duration
}

func (m *slowProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		time.Sleep(m.delay)
	}
}

func manyRequests(n int) []calc.Request {
	reqs := make([]calc.Request, n)
	for i := range reqs {
		switch i % 3 {
		case 0:
			reqs[i] = calc.Request{Op: "mul", Args: []string{strconv.Itoa(i), "12345678901234567890"}}
		case 1:
			reqs[i] = calc.Request{Op: "div", Signed: true, Args: []string{"-7", "0"}}
		default:
			reqs[i] = calc.Request{Op: "expmod", Args: []string{"3", strconv.Itoa(i), "1000000007"}}
		}
	}
	return reqs
}

func runWithin(t *testing.T, d time.Duration, name string, f func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("DEADLOCK: %s did not complete within %v", name, d)
	}
}

// TestOrchestrationNoDeadlock_MixedBehaviors verifies that the batch and
// verification runners complete whatever the speed of the progress consumer.
func TestOrchestrationNoDeadlock_MixedBehaviors(t *testing.T) {
	reg := calc.DefaultRegistry()
	ref, err := oracle.New("big")
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name     string
		reporter ProgressReporter
		workers  int
	}{
		{name: "null_reporter", reporter: NullProgressReporter{}, workers: 4},
		{name: "slow_reporter", reporter: &slowProgressReporter{delay: time.Millisecond}, workers: 4},
		{name: "single_worker", reporter: &slowProgressReporter{delay: time.Millisecond}, workers: 1},
		{name: "more_workers_than_work", reporter: NullProgressReporter{}, workers: 64},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			runWithin(t, 10*time.Second, "ExecuteBatch", func() {
				ExecuteBatch(ctx, reg, manyRequests(500), tc.workers, tc.reporter, io.Discard)
			})
			runWithin(t, 10*time.Second, "RunVerification", func() {
				opts := VerifyOptions{Ops: reg.Ops(), Iterations: 40, Workers: tc.workers, Seed: 1}
				RunVerification(ctx, reg, opts, ref, tc.reporter, io.Discard)
			})
		})
	}
}

// TestOrchestrationNoDeadlock_ContextCancellation verifies that cancelling
// the context during execution does not cause a deadlock.
func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	reg := calc.DefaultRegistry()
	ref, err := oracle.New("big")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	reporter := &slowProgressReporter{delay: 5 * time.Millisecond}

	var report VerifyReport
	done := make(chan struct{})
	go func() {
		defer close(done)
		opts := VerifyOptions{Ops: reg.Ops(), Iterations: 1 << 30, Workers: 2, Seed: 7}
		report = RunVerification(ctx, reg, opts, ref, reporter, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
		if report.Err == nil {
			t.Error("expected a context error in the interrupted report")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}
