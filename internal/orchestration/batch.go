package orchestration

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of dropping updates when
// the UI is slow to consume them.
const ProgressBufferMultiplier = 5

// progressStride is the number of evaluations between two progress updates
// of a batch.
const progressStride = 64

// ReadRequests reads one request per line from r. Blank lines and lines
// starting with '#' are skipped; signed is the default type for lines
// without an i256/u256 tag.
func ReadRequests(r io.Reader, signed bool) ([]calc.Request, error) {
	var reqs []calc.Request
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		req, err := calc.ParseRequest(text, signed)
		if err != nil {
			return nil, apperrors.WrapError(err, "line %d", line)
		}
		reqs = append(reqs, req)
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.WrapError(err, "reading requests")
	}
	return reqs, nil
}

// ExecuteBatch evaluates reqs concurrently with at most workers goroutines
// and returns the results in input order.
//
// It manages the lifecycle of the worker goroutines and coordinates the
// display of progress updates. Requests not started when ctx is canceled
// get ctx.Err() as their error.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - reg: The operation registry.
//   - reqs: The requests to evaluate.
//   - workers: The concurrency limit (<= 0 selects GOMAXPROCS).
//   - progressReporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
func ExecuteBatch(ctx context.Context, reg *calc.Registry, reqs []calc.Request, workers int, progressReporter ProgressReporter, out io.Writer) []calc.Result {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]calc.Result, len(reqs))
	progressChan := make(chan ProgressUpdate, ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, 1, out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var done atomic.Int64
	total := float64(max(len(reqs), 1))

	for i, req := range reqs {
		if gctx.Err() != nil {
			for j := i; j < len(reqs); j++ {
				results[j] = calc.Result{Request: reqs[j], Err: gctx.Err()}
			}
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = calc.Result{Request: req, Err: err}
				return nil
			}
			results[i] = calc.Eval(reg, req)
			if n := done.Add(1); n%progressStride == 0 {
				sendProgress(progressChan, 0, float64(n)/total)
			}
			return nil
		})
	}

	_ = g.Wait()
	progressChan <- ProgressUpdate{TaskIndex: 0, Value: 1}
	close(progressChan)
	displayWg.Wait()

	return results
}

// BatchSummary counts the outcomes of a batch.
type BatchSummary struct {
	Total, Succeeded, Failed int
	// FirstError is the error of the first failed request in input order.
	FirstError error
	Elapsed    time.Duration
}

// SummarizeBatch aggregates results.
func SummarizeBatch(results []calc.Result) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for _, r := range results {
		s.Elapsed += r.Duration
		if r.Err != nil {
			s.Failed++
			if s.FirstError == nil {
				s.FirstError = r.Err
			}
			continue
		}
		s.Succeeded++
	}
	return s
}

// AnalyzeBatchResults presents results and returns the exit code of the
// run: success when every request succeeded, otherwise the code of the
// first failure.
func AnalyzeBatchResults(results []calc.Result, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	presenter.PresentBatch(results, opts, out)
	return apperrors.ExitCodeFor(SummarizeBatch(results).FirstError)
}
