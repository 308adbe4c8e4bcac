package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/config"
	apperrors "github.com/agbru/wideint/internal/errors"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), calc.DefaultRegistry(), config.AppConfig{Oracle: "big", Workers: 2}, "test")
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: k})
	return m
}

// submitLine types line into the input and presses enter.
func submitLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func lastResult(t *testing.T, m Model) calc.Result {
	t.Helper()
	for i := len(m.history.entries) - 1; i >= 0; i-- {
		if e := m.history.entries[i]; e.kind == entryResult {
			return e.res
		}
	}
	t.Fatal("no result in history")
	return calc.Result{}
}

func lastText(t *testing.T, m Model) (entryKind, string) {
	t.Helper()
	if m.history.Len() == 0 {
		t.Fatal("empty history")
	}
	e := m.history.entries[m.history.Len()-1]
	return e.kind, e.text
}

// runJob executes a job command synchronously and feeds every message it
// produced back into the model.
func runJob(t *testing.T, m Model, cmd tea.Cmd, rec *recorder) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a job command")
	}
	done := cmd()
	for _, msg := range rec.messages() {
		m, _ = update(t, m, msg)
	}
	m, _ = update(t, m, done)
	return m
}

func TestModel_EvaluatesOnEnter(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, "mulmod 3 4 5")

	if got := lastResult(t, m); got.Err != nil || got.Value != "2" {
		t.Errorf("mulmod 3 4 5 = %q (err %v), want 2", got.Value, got.Err)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	if m.metrics.evaluations != 1 || m.metrics.failures != 0 {
		t.Errorf("evaluations/failures = %d/%d, want 1/0", m.metrics.evaluations, m.metrics.failures)
	}
}

func TestModel_EmptyLineIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, "   ")
	if m.history.Len() != 0 || len(m.recall) != 0 {
		t.Error("blank input should neither evaluate nor be recalled")
	}
}

func TestModel_ToggleSigned(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, "sub 1 2")
	if got := lastResult(t, m).Value; got != "115792089237316195423570985008687907853269984665640564039457584007913129639935" {
		t.Errorf("u256 sub 1 2 = %s, want 2^256-1", got)
	}

	m = press(t, m, tea.KeyCtrlT)
	if !m.signed || m.input.Prompt != "i256> " {
		t.Fatalf("expected signed mode with the i256 prompt, got signed=%v prompt=%q", m.signed, m.input.Prompt)
	}
	m, _ = submitLine(t, m, "sub 1 2")
	if got := lastResult(t, m).Value; got != "-1" {
		t.Errorf("i256 sub 1 2 = %s, want -1", got)
	}

	// A type tag overrides the mode for one request.
	m, _ = submitLine(t, m, "u256 sub 0 1")
	if got := lastResult(t, m); got.Request.Signed {
		t.Error("u256 tag should select the unsigned type")
	}

	m = press(t, m, tea.KeyCtrlT)
	if m.signed || m.input.Prompt != "u256> " {
		t.Error("second toggle should return to unsigned mode")
	}
}

func TestModel_ErrorsAreRecorded(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, "submod 5 7 3")
	if err := lastResult(t, m).Err; err == nil {
		t.Fatal("submod is signed only and should fail for u256")
	}

	m, _ = submitLine(t, m, "i256 div -7 0")
	res := lastResult(t, m)
	if apperrors.ExitCodeFor(res.Err) != apperrors.ExitErrorDomain {
		t.Errorf("expected a domain error, got %v", res.Err)
	}
	if m.metrics.failures != 2 {
		t.Errorf("failures = %d, want 2", m.metrics.failures)
	}
}

func TestModel_ToggleHex(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = submitLine(t, m, "shl 1 64")
	if strings.Contains(m.View(), "0x1_0000000000000000") {
		t.Fatal("hex shown before toggling")
	}

	m = press(t, m, tea.KeyCtrlX)
	if !m.hex || !m.history.hex {
		t.Fatal("expected hex display on")
	}
	view := m.View()
	if !strings.Contains(view, "0x1_0000000000000000") {
		t.Errorf("expected the grouped hex form in the view\n%s", view)
	}
	if !strings.Contains(view, "u256+hex") {
		t.Error("expected the header to show the hex mode")
	}
}

func TestModel_Recall(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, "add 1 2")
	m, _ = submitLine(t, m, "mul 3 4")
	m, _ = submitLine(t, m, "mul 3 4") // duplicates are stored once

	if len(m.recall) != 2 {
		t.Fatalf("recall = %v, want two lines", m.recall)
	}
	m = press(t, m, tea.KeyUp)
	if m.input.Value() != "mul 3 4" {
		t.Errorf("first up = %q, want %q", m.input.Value(), "mul 3 4")
	}
	m = press(t, m, tea.KeyUp)
	m = press(t, m, tea.KeyUp) // stays on the oldest line
	if m.input.Value() != "add 1 2" {
		t.Errorf("second up = %q, want %q", m.input.Value(), "add 1 2")
	}
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyDown)
	if m.input.Value() != "" {
		t.Errorf("moving past the newest line should clear the input, got %q", m.input.Value())
	}
}

func TestModel_Commands(t *testing.T) {
	m := newTestModel(t)

	m, _ = submitLine(t, m, ":ops")
	if m.history.Len() != len(m.registry.Ops()) {
		t.Errorf(":ops added %d lines, want %d", m.history.Len(), len(m.registry.Ops()))
	}
	names := m.registry.List()
	if _, text := lastText(t, m); !strings.HasPrefix(text, names[len(names)-1]) {
		t.Errorf("last :ops line = %q, want it to start with %q", text, names[len(names)-1])
	}

	m, _ = submitLine(t, m, ":signed")
	if !m.signed {
		t.Error(":signed should select i256")
	}
	m, _ = submitLine(t, m, ":hex")
	if !m.hex {
		t.Error(":hex should toggle hex display")
	}

	m, _ = submitLine(t, m, ":frobnicate")
	if kind, text := lastText(t, m); kind != entryError || !strings.Contains(text, "unknown command :frobnicate") {
		t.Errorf("unknown command reported as %q", text)
	}

	m, _ = submitLine(t, m, ":verify lots")
	if kind, text := lastText(t, m); kind != entryError || !strings.Contains(text, "not a positive count") {
		t.Errorf("bad count reported as %q", text)
	}
	if m.job != nil {
		t.Error("no job should start on a bad count")
	}

	m, _ = submitLine(t, m, ":batch")
	if _, text := lastText(t, m); !strings.Contains(text, "usage: :batch") {
		t.Errorf("missing file reported as %q", text)
	}

	m, _ = submitLine(t, m, ":clear")
	if m.history.Len() != 0 {
		t.Error(":clear should empty the history")
	}
}

func TestModel_BenchJob(t *testing.T) {
	m := newTestModel(t)
	ref, rec := newRecordingRef()
	m.ref = ref

	m, cmd := submitLine(t, m, ":bench 8")
	if m.job == nil || m.job.label != "bench" {
		t.Fatal("expected a running bench job")
	}
	if !strings.Contains(m.statusView(), "bench") {
		t.Errorf("status line should show the job, got %q", m.statusView())
	}

	m = runJob(t, m, cmd, rec)
	if m.job != nil {
		t.Fatal("job should be cleared when done")
	}
	if !strings.Contains(m.status, "bench finished") {
		t.Errorf("status = %q", m.status)
	}
	if m.exitCode != apperrors.ExitSuccess {
		t.Errorf("exitCode = %d", m.exitCode)
	}

	var benched int
	for _, e := range m.history.entries {
		if strings.HasPrefix(e.text, "bench ") && strings.Contains(e.text, "ns/op") {
			benched++
		}
	}
	if benched == 0 {
		t.Error("expected benchmark lines in the history")
	}
}

func TestModel_VerifyJob(t *testing.T) {
	m := newTestModel(t)
	ref, rec := newRecordingRef()
	m.ref = ref

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.job == nil || m.job.label != "verify" {
		t.Fatal("ctrl+r should start a verification")
	}

	m = runJob(t, m, cmd, rec)
	kind, text := lastText(t, m)
	if kind != entrySuccess || !strings.Contains(text, "verify: PASS") || !strings.Contains(text, "big") {
		t.Errorf("last line = %q, want a PASS against big", text)
	}
	if m.exitCode != apperrors.ExitSuccess {
		t.Errorf("exitCode = %d", m.exitCode)
	}
}

func TestModel_VerifyUnknownOracle(t *testing.T) {
	m := newTestModel(t)
	m.config.Oracle = "abacus"
	ref, rec := newRecordingRef()
	m.ref = ref

	m, cmd := submitLine(t, m, ":verify 5")
	m = runJob(t, m, cmd, rec)
	if kind, text := lastText(t, m); kind != entryError || !strings.Contains(text, "abacus") {
		t.Errorf("last line = %q, want the oracle error", text)
	}
	if m.exitCode != apperrors.ExitErrorConfig {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorConfig)
	}
}

func TestModel_BatchJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.txt")
	if err := os.WriteFile(path, []byte("# sample\nadd 1 2\n\ni256 mod -7 3\ndiv 1 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t)
	ref, rec := newRecordingRef()
	m.ref = ref

	m, cmd := submitLine(t, m, ":batch "+path)
	m = runJob(t, m, cmd, rec)

	var values []string
	for _, e := range m.history.entries {
		if e.kind == entryResult {
			values = append(values, e.res.Value)
		}
	}
	if len(values) != 3 || values[0] != "3" || values[1] != "-1" {
		t.Errorf("batch values = %q, want [3 -1 <error>]", values)
	}
	if kind, text := lastText(t, m); kind != entryError || !strings.Contains(text, "3 requests, 2 succeeded, 1 failed") {
		t.Errorf("summary = %q", text)
	}
	if m.exitCode != apperrors.ExitErrorDomain {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorDomain)
	}
}

func TestModel_BatchMissingFile(t *testing.T) {
	m := newTestModel(t)
	ref, rec := newRecordingRef()
	m.ref = ref

	m, cmd := submitLine(t, m, ":batch "+filepath.Join(t.TempDir(), "missing.txt"))
	m = runJob(t, m, cmd, rec)
	if kind, text := lastText(t, m); kind != entryError || !strings.Contains(text, "open batch file") {
		t.Errorf("last line = %q", text)
	}
}

func TestModel_OneJobAtATime(t *testing.T) {
	m := newTestModel(t)
	m, first := submitLine(t, m, ":bench 4")
	if first == nil {
		t.Fatal("expected a job command")
	}
	m, second := submitLine(t, m, ":verify 4")
	if second != nil {
		t.Error("a second job must not start while one is running")
	}
	if _, text := lastText(t, m); !strings.Contains(text, "bench is still running") {
		t.Errorf("last line = %q", text)
	}
}

func TestModel_CancelJob(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, ":verify 1000000")
	if m.job == nil {
		t.Fatal("expected a running job")
	}
	gen := m.generation
	ctxCancel := m.job.cancel

	m = press(t, m, tea.KeyEsc)
	if m.job != nil {
		t.Fatal("esc should cancel the job")
	}
	if m.status != "verify cancelled" {
		t.Errorf("status = %q", m.status)
	}
	ctxCancel() // idempotent

	// The late completion of the cancelled job is ignored.
	m, _ = update(t, m, JobDoneMsg{Label: "verify", ExitCode: apperrors.ExitErrorCanceled, Generation: gen})
	if m.exitCode != apperrors.ExitSuccess || m.status != "verify cancelled" {
		t.Errorf("stale JobDoneMsg changed the model: exit %d, status %q", m.exitCode, m.status)
	}
}

func TestModel_StaleProgressIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, ":bench 4")
	m, _ = update(t, m, ProgressMsg{AverageProgress: 0.9, Generation: m.generation - 1})
	if m.job.progress != 0 {
		t.Error("progress from an older job must be ignored")
	}
	m, _ = update(t, m, ProgressMsg{AverageProgress: 0.4, Generation: m.generation})
	if m.job.progress != 0.4 {
		t.Errorf("progress = %f, want 0.4", m.job.progress)
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitLine(t, m, ":bench 4")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if m.job != nil {
		t.Error("quitting should stop the running job")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel the session context")
	}
}

func TestModel_ContextCancelledQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("context cancellation should quit")
	}
}

func TestModel_SamplingMessages(t *testing.T) {
	m := newTestModel(t)
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule sampling and the next tick")
	}
	m, _ = update(t, m, MemStatsMsg{Alloc: 2048, NumGoroutine: 3})
	m, _ = update(t, m, SysStatsMsg{CPUPercent: 10, MemPercent: 20})
	if m.metrics.alloc != 2048 || m.metrics.cpu.Len() != 1 {
		t.Error("samples should reach the metrics panel")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	if m.View() != "Initializing..." {
		t.Error("expected the placeholder before the first window size")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()
	for _, want := range []string{"wideint test", "u256>", "Heap", "evaluate", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	m = press(t, m, tea.KeyF1)
	if !m.help.ShowAll || !strings.Contains(m.View(), "clear history") {
		t.Error("f1 should expand the help footer")
	}
}

func TestLayoutManager(t *testing.T) {
	wide := LayoutManager{width: 120, height: 30}
	if wide.metricsWidth() != MetricsPanelWidth || wide.historyWidth() != 120-MetricsPanelWidth {
		t.Errorf("wide layout: metrics %d, history %d", wide.metricsWidth(), wide.historyWidth())
	}
	if got := wide.bodyHeight(1); got != 30-headerHeight-inputHeight-statusHeight-1 {
		t.Errorf("bodyHeight = %d", got)
	}

	narrow := LayoutManager{width: 60, height: 8}
	if narrow.metricsWidth() != 0 || narrow.historyWidth() != 60 {
		t.Error("narrow terminals should hide the metrics panel")
	}
	if narrow.bodyHeight(3) != minBodyHeight {
		t.Errorf("bodyHeight should not go below %d", minBodyHeight)
	}
}
