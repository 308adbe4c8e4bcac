package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/config"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/format"
	"github.com/agbru/wideint/internal/oracle"
	"github.com/agbru/wideint/internal/orchestration"
	"github.com/agbru/wideint/internal/sysmon"
)

// Layout constants for the calculator.
const (
	headerHeight           = 1
	inputHeight            = 3
	statusHeight           = 1
	minBodyHeight          = 6
	MetricsPanelWidth      = 36
	minHistoryWidth        = 40
	defaultVerifyCases     = 200
	defaultBenchRounds     = 2000
	sampleInterval         = 500 * time.Millisecond
	progressBarWidth       = 24
	maxRecalledInputs      = 100
	maxBatchLinesInHistory = 50
)

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the height left for the history and metrics panels
// once the footer has been rendered.
func (l LayoutManager) bodyHeight(footerHeight int) int {
	return max(l.height-headerHeight-inputHeight-statusHeight-footerHeight, minBodyHeight)
}

// metricsWidth returns the width of the metrics column, 0 when the terminal
// is too narrow to show it.
func (l LayoutManager) metricsWidth() int {
	if l.width-MetricsPanelWidth < minHistoryWidth {
		return 0
	}
	return MetricsPanelWidth
}

// historyWidth returns the width of the history panel.
func (l LayoutManager) historyWidth() int {
	return l.width - l.metricsWidth()
}

// Model is the root bubbletea model of the calculator.
type Model struct {
	header  HeaderModel
	history HistoryModel
	metrics MetricsModel
	input   textinput.Model
	help    help.Model
	keymap  KeyMap

	LayoutManager

	registry *calc.Registry
	config   config.AppConfig
	signed   bool
	hex      bool

	// recall holds submitted lines, newest last; recallIdx == len(recall)
	// means the input line is not browsing.
	recall    []string
	recallIdx int

	ctx        context.Context
	cancel     context.CancelFunc
	ref        *programRef
	job        *job
	generation uint64
	status     string
	exitCode   int
}

// NewModel creates a new calculator model.
func NewModel(parentCtx context.Context, reg *calc.Registry, cfg config.AppConfig, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	in := textinput.New()
	in.Prompt = "u256> "
	in.PromptStyle = promptStyle
	in.Placeholder = "add 1 2"
	in.CharLimit = 512
	in.Focus()

	h := help.New()
	h.Styles = helpStyles

	m := Model{
		header:   NewHeaderModel(version, sysmon.CPUFeatures().String()),
		history:  NewHistoryModel(),
		metrics:  NewMetricsModel(),
		input:    in,
		help:     h,
		keymap:   DefaultKeyMap(),
		registry: reg,
		config:   cfg,
		ctx:      ctx,
		cancel:   cancel,
		ref:      &programRef{},
		exitCode: apperrors.ExitSuccess,
	}
	m.setMode(cfg.Signed, cfg.Hex)
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		sampleMemStatsCmd(),
		sampleSysStatsCmd(),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if m.job != nil && msg.Generation == m.generation {
			m.job.progress = msg.AverageProgress
			m.job.eta = msg.ETA
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ResultMsg:
		m.recordResult(msg.Result)
		return m, nil

	case BatchResultsMsg:
		m.addBatch(msg.Results)
		return m, nil

	case VerifyReportMsg:
		m.addVerification(msg.Report)
		return m, nil

	case BenchResultsMsg:
		m.addBenchmark(msg.Results)
		return m, nil

	case ErrorMsg:
		m.history.AddError("error: " + msg.Err.Error())
		return m, nil

	case JobDoneMsg:
		if msg.Generation != m.generation || m.job == nil {
			return m, nil // stale message from a cancelled job
		}
		m.status = fmt.Sprintf("%s finished in %s", msg.Label, format.FormatExecutionDuration(time.Since(m.job.started)))
		m.exitCode = msg.ExitCode
		m.job.cancel()
		m.job = nil
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case ContextCancelledMsg:
		m.stopJob()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.stopJob()
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Submit):
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		m.remember(line)
		return m.submit(line)

	case key.Matches(msg, m.keymap.ToggleSigned):
		m.setMode(!m.signed, m.hex)
		return m, nil

	case key.Matches(msg, m.keymap.ToggleHex):
		m.setMode(m.signed, !m.hex)
		return m, nil

	case key.Matches(msg, m.keymap.Prev):
		if m.recallIdx > 0 {
			m.recallIdx--
			m.input.SetValue(m.recall[m.recallIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Next):
		if m.recallIdx < len(m.recall) {
			m.recallIdx++
			if m.recallIdx == len(m.recall) {
				m.input.Reset()
			} else {
				m.input.SetValue(m.recall[m.recallIdx])
				m.input.CursorEnd()
			}
		}
		return m, nil

	case key.Matches(msg, m.keymap.PageUp):
		m.history.ScrollUp(max(m.history.visibleLines()-1, 1))
		return m, nil

	case key.Matches(msg, m.keymap.PageDown):
		m.history.ScrollDown(max(m.history.visibleLines()-1, 1))
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		m.history.Reset()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keymap.Verify):
		return m.startJob("verify", m.verifyCmd(defaultVerifyCases))

	case key.Matches(msg, m.keymap.Cancel):
		if m.job != nil {
			m.status = m.job.label + " cancelled"
			m.stopJob()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layoutPanels()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit evaluates a request line or runs a ":" command.
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(line, ":") {
		return m.command(strings.Fields(line[1:]))
	}
	req, err := calc.ParseRequest(line, m.signed)
	if err != nil {
		m.history.AddError(line + ": " + err.Error())
		return m, nil
	}
	m.recordResult(calc.Eval(m.registry, req))
	return m, nil
}

func (m Model) command(fields []string) (tea.Model, tea.Cmd) {
	if len(fields) == 0 {
		return m, nil
	}
	arg := func(def int) (int, error) {
		if len(fields) < 2 {
			return def, nil
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return 0, apperrors.ValidationError{Field: "args", Message: fmt.Sprintf("%q is not a positive count", fields[1])}
		}
		return n, nil
	}

	switch strings.ToLower(fields[0]) {
	case "help", "h", "?":
		m.history.AddNote("Requests: [u256|i256] <op> <operand>...   e.g. \"i256 div -7 2\"")
		m.history.AddNote("Commands: :ops  :verify [cases]  :bench [rounds]  :batch <file>  :signed  :unsigned  :hex  :clear")
	case "ops", "list", "ls":
		for _, op := range m.registry.Ops() {
			note := fmt.Sprintf("%-7s %s", op.Name, op.Usage)
			if op.SignedOnly {
				note += " [i256 only]"
			}
			m.history.AddNote(note)
		}
	case "signed", "i256":
		m.setMode(true, m.hex)
	case "unsigned", "u256":
		m.setMode(false, m.hex)
	case "hex":
		m.setMode(m.signed, !m.hex)
	case "clear":
		m.history.Reset()
	case "verify":
		n, err := arg(defaultVerifyCases)
		if err != nil {
			m.history.AddError(err.Error())
			return m, nil
		}
		return m.startJob("verify", m.verifyCmd(n))
	case "bench":
		n, err := arg(defaultBenchRounds)
		if err != nil {
			m.history.AddError(err.Error())
			return m, nil
		}
		return m.startJob("bench", m.benchCmd(n))
	case "batch":
		if len(fields) < 2 {
			m.history.AddError("usage: :batch <file>")
			return m, nil
		}
		return m.startJob("batch", m.batchCmd(fields[1]))
	default:
		m.history.AddError(fmt.Sprintf("unknown command :%s (try :help)", fields[0]))
	}
	return m, nil
}

// jobRunner performs a background job and returns its exit code.
type jobRunner func(ctx context.Context, progress orchestration.ProgressReporter, presenter *TUIResultPresenter) int

// startJob launches run unless another job is in progress.
func (m Model) startJob(label string, run jobRunner) (tea.Model, tea.Cmd) {
	if m.job != nil {
		m.history.AddError(m.job.label + " is still running (esc cancels it)")
		return m, nil
	}
	m.generation++
	ctx, cancel := context.WithCancel(m.ctx)
	m.job = &job{label: label, cancel: cancel, started: time.Now()}
	m.status = ""

	gen, ref := m.generation, m.ref
	return m, func() tea.Msg {
		code := run(ctx, &TUIProgressReporter{ref: ref, generation: gen}, &TUIResultPresenter{ref: ref})
		return JobDoneMsg{Label: label, ExitCode: code, Generation: gen}
	}
}

func (m *Model) stopJob() {
	if m.job != nil {
		m.job.cancel()
		m.job = nil
	}
}

func (m Model) verifyCmd(cases int) jobRunner {
	reg, name, workers := m.registry, m.config.Oracle, m.config.Workers
	if workers <= 0 {
		workers = config.DefaultWorkers()
	}
	return func(ctx context.Context, progress orchestration.ProgressReporter, presenter *TUIResultPresenter) int {
		start := time.Now()
		if name == "" {
			name = config.DefaultOracle
		}
		ref, err := oracle.New(name)
		if err != nil {
			return presenter.HandleError(err, time.Since(start), io.Discard)
		}
		report := orchestration.RunVerification(ctx, reg, orchestration.VerifyOptions{
			Ops:        reg.Ops(),
			Iterations: cases,
			Workers:    workers,
			Seed:       time.Now().UnixNano(),
		}, ref, progress, io.Discard)
		presenter.PresentVerification(report, io.Discard)
		return report.ExitCode()
	}
}

func (m Model) benchCmd(rounds int) jobRunner {
	reg := m.registry
	return func(ctx context.Context, progress orchestration.ProgressReporter, presenter *TUIResultPresenter) int {
		results := orchestration.RunBenchmark(ctx, reg, reg.Ops(), rounds, progress, io.Discard)
		presenter.PresentBenchmark(results, io.Discard)
		if err := ctx.Err(); err != nil {
			return apperrors.ExitCodeFor(err)
		}
		return apperrors.ExitSuccess
	}
}

func (m Model) batchCmd(path string) jobRunner {
	reg, signed, workers := m.registry, m.signed, m.config.Workers
	return func(ctx context.Context, progress orchestration.ProgressReporter, presenter *TUIResultPresenter) int {
		start := time.Now()
		f, err := os.Open(path)
		if err != nil {
			return presenter.HandleError(fmt.Errorf("open batch file: %w", err), time.Since(start), io.Discard)
		}
		defer f.Close()
		reqs, err := orchestration.ReadRequests(f, signed)
		if err != nil {
			return presenter.HandleError(err, time.Since(start), io.Discard)
		}
		results := orchestration.ExecuteBatch(ctx, reg, reqs, workers, progress, io.Discard)
		presenter.PresentBatch(results, orchestration.PresentationOptions{}, io.Discard)
		return apperrors.ExitCodeFor(orchestration.SummarizeBatch(results).FirstError)
	}
}

// remember stores a submitted line for recall with the arrow keys.
func (m *Model) remember(line string) {
	if n := len(m.recall); n == 0 || m.recall[n-1] != line {
		m.recall = append(m.recall, line)
		if over := len(m.recall) - maxRecalledInputs; over > 0 {
			m.recall = m.recall[over:]
		}
	}
	m.recallIdx = len(m.recall)
}

func (m *Model) setMode(signed, hex bool) {
	m.signed, m.hex = signed, hex
	m.header.SetMode(signed, hex)
	m.history.SetHex(hex)
	if signed {
		m.input.Prompt = "i256> "
	} else {
		m.input.Prompt = "u256> "
	}
}

func (m *Model) recordResult(res calc.Result) {
	m.history.AddResult(res)
	m.metrics.RecordEval(res.Duration, res.Err != nil)
}

func (m *Model) addBatch(results []calc.Result) {
	for i, res := range results {
		if i == maxBatchLinesInHistory {
			m.history.AddNote(fmt.Sprintf("... %d more results", len(results)-maxBatchLinesInHistory))
			break
		}
		m.history.AddResult(res)
	}
	s := orchestration.SummarizeBatch(results)
	summary := fmt.Sprintf("batch: %d requests, %d succeeded, %d failed (engine time %s)",
		s.Total, s.Succeeded, s.Failed, format.FormatExecutionDuration(s.Elapsed))
	if s.Failed > 0 {
		m.history.AddError(summary)
	} else {
		m.history.AddSuccess(summary)
	}
}

func (m *Model) addVerification(r orchestration.VerifyReport) {
	for _, st := range r.PerOp {
		if st.Mismatches > 0 {
			m.history.AddError(fmt.Sprintf("%s: %d of %d disagree", calc.Request{Op: st.Op, Signed: st.Signed}, st.Mismatches, st.Checked))
		}
	}
	for i, mm := range r.Mismatches {
		if i == 3 {
			break
		}
		m.history.AddError("  " + mm.Error())
	}
	switch {
	case r.Err != nil:
		m.history.AddError(fmt.Sprintf("verify: interrupted after %d checks: %v", r.Checked, r.Err))
	case r.Mismatched > 0:
		m.history.AddError(fmt.Sprintf("verify: FAIL, %d of %d checks disagree with %s", r.Mismatched, r.Checked, r.Oracle))
	default:
		m.history.AddSuccess(fmt.Sprintf("verify: PASS, %d checks agree with %s (seed %d)", r.Checked, r.Oracle, r.Seed))
	}
}

func (m *Model) addBenchmark(results []orchestration.BenchResult) {
	for _, r := range results {
		label := calc.Request{Op: r.Op, Signed: r.Signed}.String()
		if r.Err != nil {
			m.history.AddError(fmt.Sprintf("bench %-11s %v", label, r.Err))
			continue
		}
		m.history.AddNote(fmt.Sprintf("bench %-11s %10.1f ns/op %6.2f allocs/op", label, r.NsPerOp, r.AllocsPerOp))
	}
}

// footerView renders the key binding help.
func (m Model) footerView() string {
	return m.help.View(m.keymap)
}

// statusView renders the running job or the last job outcome.
func (m Model) statusView() string {
	if m.job != nil {
		return statusRunningStyle.Render(" "+m.job.label+" ") +
			format.FormatProgressBarWithETA(m.job.progress, m.job.eta, progressBarWidth)
	}
	if m.status != "" {
		return statusIdleStyle.Render(" " + m.status)
	}
	return ""
}

// View renders the calculator.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	footer := m.footerView()
	bodyHeight := m.bodyHeight(lipgloss.Height(footer))

	hist := m.history
	hist.SetSize(m.historyWidth(), bodyHeight)
	body := hist.View()
	if w := m.metricsWidth(); w > 0 {
		met := m.metrics
		met.SetSize(w, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, met.View())
	}

	input := panelStyle.Width(max(m.width-2, 0)).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(), body, input, m.statusView(), footer)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	m.input.Width = max(m.width-4-lipgloss.Width(m.input.Prompt), 1)
	bodyHeight := m.bodyHeight(lipgloss.Height(m.footerView()))
	m.history.SetSize(m.historyWidth(), bodyHeight)
	m.metrics.SetSize(m.metricsWidth(), bodyHeight)
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code of
// the last background job.
func Run(ctx context.Context, reg *calc.Registry, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, reg, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// tickCmd returns a command that sends a TickMsg after sampleInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
