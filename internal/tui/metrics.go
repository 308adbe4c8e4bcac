package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/wideint/internal/format"
)

// sparklineSamples is the history kept for each sparkline.
const sparklineSamples = 24

// MetricsModel displays runtime memory figures, the latency of recent
// evaluations and system-wide load.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int

	evaluations int
	failures    int
	latency     *RingBuffer // nanoseconds per evaluation
	cpu         *RingBuffer
	mem         *RingBuffer

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		latency: NewRingBuffer(sparklineSamples),
		cpu:     NewRingBuffer(sparklineSamples),
		mem:     NewRingBuffer(sparklineSamples),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a system-wide load sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.mem.Push(msg.MemPercent)
}

// RecordEval counts an interactive evaluation. Failed evaluations do not
// feed the latency sparkline.
func (m *MetricsModel) RecordEval(d time.Duration, failed bool) {
	m.evaluations++
	if failed {
		m.failures++
		return
	}
	m.latency.Push(float64(d.Nanoseconds()))
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	colWidth := max(m.width-4, 0)
	rows := []string{
		formatMetricCol("Heap:", format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapSys), colWidth),
		formatMetricCol("GC:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6), colWidth),
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth),
		formatMetricCol("Evals:", fmt.Sprintf("%d (%d failed)", m.evaluations, m.failures), colWidth),
	}
	if m.latency.Len() > 0 {
		rows = append(rows,
			formatMetricCol("Last:", format.FormatExecutionDuration(time.Duration(m.latency.Last())), colWidth),
			formatMetricCol("Mean:", format.FormatExecutionDuration(time.Duration(m.latency.Mean())), colWidth),
			" "+metricLabelStyle.Render(fmt.Sprintf("%-12s", "Latency"))+" "+latencyStyle.Render(RenderScaledSparkline(m.latency.Slice())),
		)
	}
	if m.cpu.Len() > 0 {
		rows = append(rows,
			" "+metricLabelStyle.Render(fmt.Sprintf("%-12s", fmt.Sprintf("CPU %3.0f%%", m.cpu.Last())))+" "+cpuSparklineStyle.Render(RenderSparkline(m.cpu.Slice())),
			" "+metricLabelStyle.Render(fmt.Sprintf("%-12s", fmt.Sprintf("Mem %3.0f%%", m.mem.Last())))+" "+memSparklineStyle.Render(RenderSparkline(m.mem.Slice())),
		)
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(strings.Join(rows, "\n"))
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
