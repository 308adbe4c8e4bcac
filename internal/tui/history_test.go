package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
)

var (
	sumResult = calc.Result{
		Request: calc.Request{Op: "add", Args: []string{"18446744073709551615", "1"}},
		Value:   "18446744073709551616",
		Hex:     "0x10000000000000000",
	}
	divZeroResult = calc.Result{
		Request: calc.Request{Op: "div", Signed: true, Args: []string{"-7", "0"}},
		Err:     apperrors.NewDomainError("div", apperrors.ErrDivisionByZero),
	}
)

func TestHistoryModel_RendersEntries(t *testing.T) {
	h := NewHistoryModel()
	h.SetSize(80, 20)
	h.AddResult(sumResult)
	h.AddResult(divZeroResult)
	h.AddNote("a note")
	h.AddSuccess("verify: PASS")

	view := h.View()
	for _, want := range []string{
		"› u256 add 18446744073709551615 1",
		"= 18446744073709551616",
		"› i256 div -7 0",
		"error: div: division by zero",
		"a note",
		"verify: PASS",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\n%s", want, view)
		}
	}
	if strings.Contains(view, "0x1_0000000000000000") {
		t.Error("hex form shown while hex display is off")
	}

	h.SetHex(true)
	if view := h.View(); !strings.Contains(view, "0x1_0000000000000000") {
		t.Errorf("expected grouped hex once hex display is on\n%s", view)
	}
}

func TestHistoryModel_Empty(t *testing.T) {
	h := NewHistoryModel()
	h.SetSize(80, 10)
	if !strings.Contains(h.View(), "Type a request") {
		t.Error("expected a hint in an empty history")
	}
}

func TestHistoryModel_Scroll(t *testing.T) {
	h := NewHistoryModel()
	h.SetSize(80, 7) // 5 visible lines
	for i := range 20 {
		h.AddNote(fmt.Sprintf("line %02d", i))
	}

	view := h.View()
	if !strings.Contains(view, "line 19") || strings.Contains(view, "line 14") {
		t.Fatalf("expected the newest five lines at the bottom\n%s", view)
	}

	h.ScrollUp(5)
	view = h.View()
	if !strings.Contains(view, "line 14") || strings.Contains(view, "line 15") {
		t.Errorf("expected lines 10-14 after scrolling one page\n%s", view)
	}

	h.ScrollUp(1000)
	if h.offset != 15 {
		t.Errorf("offset = %d, want 15 (clamped to the oldest line)", h.offset)
	}
	if !strings.Contains(h.View(), "line 00") {
		t.Error("expected the oldest line at the top")
	}

	h.ScrollDown(1000)
	if h.offset != 0 {
		t.Errorf("offset = %d, want 0", h.offset)
	}

	h.ScrollUp(3)
	h.AddNote("new")
	if h.offset != 0 {
		t.Error("adding an entry should scroll back to the bottom")
	}
}

func TestHistoryModel_Bounded(t *testing.T) {
	h := NewHistoryModel()
	for i := range maxHistoryEntries + 10 {
		h.AddNote(fmt.Sprintf("%d", i))
	}
	if h.Len() != maxHistoryEntries {
		t.Errorf("Len() = %d, want %d", h.Len(), maxHistoryEntries)
	}
	if h.entries[0].text != "10" {
		t.Errorf("oldest entry = %q, want %q", h.entries[0].text, "10")
	}

	h.Reset()
	if h.Len() != 0 {
		t.Error("expected empty history after Reset")
	}
}
