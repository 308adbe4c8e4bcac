package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderModel renders the top bar: title, version, evaluation mode, session
// time and the processor features.
type HeaderModel struct {
	startTime time.Time
	version   string
	features  string
	signed    bool
	hex       bool
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, features string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		features:  features,
	}
}

// SetMode records the current evaluation type and display base.
func (h *HeaderModel) SetMode(signed, hex bool) {
	h.signed = signed
	h.hex = hex
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// modeLabel returns "u256", "i256", with a "+hex" suffix when hex is shown.
func (h HeaderModel) modeLabel() string {
	label := "u256"
	if h.signed {
		label = "i256"
	}
	if h.hex {
		label += "+hex"
	}
	return label
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "wideint"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	left := titleStyle.Render(titleText) + pipe +
		modeStyle.Render(h.modeLabel()) + pipe +
		versionStyle.Render(fmt.Sprintf("Session: %s", time.Since(h.startTime).Truncate(time.Second)))
	right := versionStyle.Render(h.features)

	innerWidth := max(h.width-2, 0)
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	row := left
	if gap > 0 {
		row += spaces(gap) + right
	}

	return headerStyle.Width(h.width).Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
