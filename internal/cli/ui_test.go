package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/wideint/internal/cli/mocks"
	"github.com/agbru/wideint/internal/orchestration"
)

// The DisplayProgress tests replace the package-level newSpinner and do not
// run in parallel.

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	// Just verify these methods don't panic
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("suffix = %q, want %q", s.Suffix, " test")
	}
}

func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl)

	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	var final string
	gomock.InOrder(
		mockS.EXPECT().UpdateSuffix(gomock.Any()),
		mockS.EXPECT().Start(),
		mockS.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) { final = s }).MinTimes(1),
		mockS.EXPECT().Stop(),
	)

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate)
	go func() {
		progressChan <- orchestration.ProgressUpdate{TaskIndex: 0, Value: 0.5}
		time.Sleep(10 * time.Millisecond)
		close(progressChan)
	}()

	var out bytes.Buffer
	DisplayProgress(&wg, progressChan, 1, &out)
	wg.Wait()

	if !strings.Contains(final, "100.0%") {
		t.Errorf("last suffix should show completion, got %q", final)
	}
	if !strings.Contains(out.String(), "Evaluating") {
		t.Errorf("expected a final progress line, got %q", out.String())
	}
}

func TestDisplayProgress_MultiTaskLabel(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl)

	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	mockS.EXPECT().Start()
	mockS.EXPECT().Stop()
	mockS.EXPECT().UpdateSuffix(gomock.Any()).AnyTimes()

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate, 2)
	progressChan <- orchestration.ProgressUpdate{TaskIndex: 0, Value: 1}
	progressChan <- orchestration.ProgressUpdate{TaskIndex: 2, Value: 1}
	close(progressChan)

	var out bytes.Buffer
	DisplayProgress(&wg, progressChan, 3, &out)
	wg.Wait()

	if !strings.Contains(out.String(), "Checking 3 shards") {
		t.Errorf("expected the shard count in the output, got %q", out.String())
	}
}

func TestDisplayProgress_ZeroTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl) // no calls expected

	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate, 1)
	progressChan <- orchestration.ProgressUpdate{Value: 0.5}
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}

func TestProgressSuffix(t *testing.T) {
	t.Parallel()
	if got := progressSuffix("Evaluating", 0.5, 0); !strings.Contains(got, " 50.0%") || !strings.Contains(got, "ETA") {
		t.Errorf("unexpected partial suffix %q", got)
	}
	if got := progressSuffix("Evaluating", 1, 0); strings.Contains(got, "ETA") || !strings.Contains(got, "100.0%") {
		t.Errorf("unexpected final suffix %q", got)
	}
}
