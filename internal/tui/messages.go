package tui

import (
	"context"
	"time"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/orchestration"
)

// TickMsg drives the periodic resource sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ProgressMsg reports the progress of the running background job.
type ProgressMsg struct {
	TaskIndex       int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg is sent when the job's progress channel closes.
type ProgressDoneMsg struct{}

// ResultMsg carries a single evaluation.
type ResultMsg struct {
	Result calc.Result
}

// BatchResultsMsg carries the results of a batch file.
type BatchResultsMsg struct {
	Results []calc.Result
}

// VerifyReportMsg carries the outcome of a verification job.
type VerifyReportMsg struct {
	Report orchestration.VerifyReport
}

// BenchResultsMsg carries the outcome of a benchmark job.
type BenchResultsMsg struct {
	Results []orchestration.BenchResult
}

// ErrorMsg reports a job that failed before producing results.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// JobDoneMsg ends a background job.
type JobDoneMsg struct {
	Label      string
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the session context ends.
type ContextCancelledMsg struct {
	Err error
}

// job tracks the background command currently running.
type job struct {
	label    string
	cancel   context.CancelFunc
	progress float64
	eta      time.Duration
	started  time.Time
}
