package tui

import (
	"strings"
	"testing"
	"time"
)

func TestMetricsModel_UpdateMemStats(t *testing.T) {
	m := NewMetricsModel()
	m.UpdateMemStats(MemStatsMsg{
		Alloc:        1024 * 1024 * 50,
		HeapSys:      1024 * 1024 * 80,
		NumGC:        10,
		PauseTotalNs: 1500000,
		NumGoroutine: 8,
	})

	if m.alloc != 1024*1024*50 {
		t.Errorf("expected alloc %d, got %d", 1024*1024*50, m.alloc)
	}
	if m.heapSys != 1024*1024*80 {
		t.Errorf("expected heapSys %d, got %d", 1024*1024*80, m.heapSys)
	}
	if m.numGC != 10 || m.numGoroutine != 8 {
		t.Errorf("expected 10 GCs and 8 goroutines, got %d and %d", m.numGC, m.numGoroutine)
	}
}

func TestMetricsModel_RecordEval(t *testing.T) {
	m := NewMetricsModel()
	m.RecordEval(200*time.Nanosecond, false)
	m.RecordEval(400*time.Nanosecond, false)
	m.RecordEval(time.Microsecond, true)

	if m.evaluations != 3 || m.failures != 1 {
		t.Errorf("evaluations/failures = %d/%d, want 3/1", m.evaluations, m.failures)
	}
	if m.latency.Len() != 2 {
		t.Errorf("failed evaluations must not feed the latency samples, got %d samples", m.latency.Len())
	}
	if m.latency.Mean() != 300 {
		t.Errorf("mean latency = %f ns, want 300", m.latency.Mean())
	}
}

func TestMetricsModel_View(t *testing.T) {
	m := NewMetricsModel()
	m.SetSize(40, 15)
	m.UpdateMemStats(MemStatsMsg{
		Alloc:        1024 * 1024 * 50,
		HeapSys:      1024 * 1024 * 80,
		NumGC:        10,
		NumGoroutine: 8,
	})

	view := m.View()
	for _, want := range []string{"Heap", "50.0 MiB", "GC", "Goroutines", "Evals"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if strings.Contains(view, "Latency") || strings.Contains(view, "CPU") {
		t.Error("sparklines should be hidden until samples arrive")
	}

	m.RecordEval(time.Microsecond, false)
	m.UpdateSysStats(SysStatsMsg{CPUPercent: 12, MemPercent: 40})
	view = m.View()
	for _, want := range []string{"Latency", "Last", "CPU", "Mem"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q once sampled", want)
		}
	}
}

func TestMetricsModel_SetSize(t *testing.T) {
	m := NewMetricsModel()
	m.SetSize(50, 20)

	if m.width != 50 {
		t.Errorf("expected width 50, got %d", m.width)
	}
	if m.height != 20 {
		t.Errorf("expected height 20, got %d", m.height)
	}
}

func TestFormatMetricCol(t *testing.T) {
	col := formatMetricCol("Heap:", "50.0 MiB", 30)
	if !strings.Contains(col, "Heap") {
		t.Error("expected column to contain label")
	}
	if !strings.Contains(col, "50.0 MiB") {
		t.Error("expected column to contain value")
	}
}
