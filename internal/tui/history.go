package tui

import (
	"strings"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/format"
)

// maxHistoryEntries bounds the retained history; older entries are dropped.
const maxHistoryEntries = 500

type entryKind int

const (
	entryResult entryKind = iota
	entryNote
	entrySuccess
	entryError
)

type historyEntry struct {
	kind entryKind
	res  calc.Result
	text string
}

// HistoryModel is the scrolling transcript of evaluations and job reports.
// Hexadecimal display is applied when rendering, so toggling it rewrites
// the whole transcript.
type HistoryModel struct {
	entries []historyEntry
	// offset is the number of lines scrolled up from the bottom.
	offset int
	hex    bool
	width  int
	height int
}

// NewHistoryModel creates an empty transcript.
func NewHistoryModel() HistoryModel {
	return HistoryModel{}
}

// SetSize updates dimensions.
func (h *HistoryModel) SetSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

// SetHex selects whether results show their hexadecimal form.
func (h *HistoryModel) SetHex(hex bool) {
	h.hex = hex
}

// AddResult appends an evaluation and scrolls to the bottom.
func (h *HistoryModel) AddResult(res calc.Result) {
	h.add(historyEntry{kind: entryResult, res: res})
}

// AddNote appends an informational line.
func (h *HistoryModel) AddNote(text string) {
	h.add(historyEntry{kind: entryNote, text: text})
}

// AddSuccess appends a line in the success color.
func (h *HistoryModel) AddSuccess(text string) {
	h.add(historyEntry{kind: entrySuccess, text: text})
}

// AddError appends a line in the error color.
func (h *HistoryModel) AddError(text string) {
	h.add(historyEntry{kind: entryError, text: text})
}

func (h *HistoryModel) add(e historyEntry) {
	h.entries = append(h.entries, e)
	if over := len(h.entries) - maxHistoryEntries; over > 0 {
		h.entries = h.entries[over:]
	}
	h.offset = 0
}

// Len returns the number of retained entries.
func (h HistoryModel) Len() int { return len(h.entries) }

// Reset clears the transcript.
func (h *HistoryModel) Reset() {
	h.entries = nil
	h.offset = 0
}

// ScrollUp moves the window n lines towards older entries.
func (h *HistoryModel) ScrollUp(n int) {
	h.offset = min(h.offset+n, max(len(h.lines())-h.visibleLines(), 0))
}

// ScrollDown moves the window n lines towards the newest entry.
func (h *HistoryModel) ScrollDown(n int) {
	h.offset = max(h.offset-n, 0)
}

// visibleLines is the number of transcript lines inside the panel border.
func (h HistoryModel) visibleLines() int {
	return max(h.height-2, 1)
}

// lines renders every entry, one or more lines each.
func (h HistoryModel) lines() []string {
	var out []string
	for _, e := range h.entries {
		switch e.kind {
		case entryNote:
			out = append(out, noteStyle.Render(e.text))
		case entrySuccess:
			out = append(out, successStyle.Render(e.text))
		case entryError:
			out = append(out, errorStyle.Render(e.text))
		case entryResult:
			out = append(out, h.resultLines(e.res)...)
		}
	}
	return out
}

func (h HistoryModel) resultLines(res calc.Result) []string {
	req := requestStyle.Render("› " + res.Request.String())
	if res.Err != nil {
		return []string{req, "  " + errorStyle.Render("error: "+res.Err.Error())}
	}
	lines := []string{req, "  = " + valueStyle.Render(res.Value)}
	if h.hex && res.Hex != "" {
		lines = append(lines, "  "+hexStyle.Render(format.GroupHex(res.Hex)))
	}
	return lines
}

// View renders the visible window of the transcript.
func (h HistoryModel) View() string {
	all := h.lines()
	end := len(all) - h.offset
	start := max(end-h.visibleLines(), 0)

	var body string
	if len(all) == 0 {
		body = requestStyle.Render("Type a request such as \"mulmod 3 4 5\" or \":help\".")
	} else {
		body = strings.Join(all[start:end], "\n")
	}

	return panelStyle.
		Width(max(h.width-2, 0)).
		Height(h.visibleLines()).
		Render(body)
}
