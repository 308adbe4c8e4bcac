package orchestration

import (
	"time"

	"github.com/agbru/wideint/internal/format"
)

// ProgressAggregator manages multi-task progress aggregation.
// It wraps format.ProgressWithETA and provides a higher-level API
// for consuming progress updates from a channel. Both CLI and TUI
// use this to avoid duplicating the aggregation setup and update logic.
type ProgressAggregator struct {
	state    *format.ProgressWithETA
	numTasks int
}

// NewProgressAggregator creates a new aggregator for the given number
// of tasks. Returns nil if numTasks <= 0.
func NewProgressAggregator(numTasks int) *ProgressAggregator {
	if numTasks <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:    format.NewProgressWithETA(numTasks),
		numTasks: numTasks,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// TaskIndex is the index of the task that sent the update.
	TaskIndex int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the aggregated average across all tasks.
	AverageProgress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.TaskIndex, update.Value)
	return AggregatedProgress{
		TaskIndex:       update.TaskIndex,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumTasks returns the number of tasks being tracked.
func (a *ProgressAggregator) NumTasks() int {
	return a.numTasks
}

// IsMultiTask returns true if tracking more than one task.
func (a *ProgressAggregator) IsMultiTask() bool {
	return a.numTasks > 1
}

// DrainChannel reads all updates from the channel without processing.
// Use this when numTasks <= 0 and updates should be discarded.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}

// sendProgress delivers an update without blocking the worker; a slow
// display only loses intermediate updates.
func sendProgress(ch chan<- ProgressUpdate, index int, value float64) {
	select {
	case ch <- ProgressUpdate{TaskIndex: index, Value: value}:
	default:
	}
}
