package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/wideint/internal/calc"
)

func runREPL(t *testing.T, cfg REPLConfig, input string) string {
	t.Helper()
	r := NewREPL(calc.DefaultRegistry(), cfg)
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	r.Start()
	return out.String()
}

func TestREPL_Evaluate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cfg      REPLConfig
		input    string
		contains []string
	}{
		{
			name:     "unsigned",
			input:    "add 1 2\nsub 0 1\n",
			contains: []string{"u256 add 1 2 = 3", "u256 sub 0 1 = 115792089237316195423570985008687907853269984665640564039457584007913129639935"},
		},
		{
			name:     "signed by default",
			cfg:      REPLConfig{Signed: true},
			input:    "div -7 2\n",
			contains: []string{"i256> ", "i256 div -7 2 = -3"},
		},
		{
			name:     "tag overrides type",
			input:    "i256 mod -7 3\n",
			contains: []string{"i256 mod -7 3 = -1"},
		},
		{
			name:     "switch type",
			input:    "signed\nsub 0 1\nunsigned\nneg 1\n",
			contains: []string{"Type changed to: i256", "i256 sub 0 1 = -1", "Type changed to: u256", "u256 neg 1 = 1157920892373161954235709850086879078532699846656405640394575840079131296399"},
		},
		{
			name:     "hex toggle",
			input:    "hex\nshl 1 64\n",
			contains: []string{"Hexadecimal display: on", "hex:     0x1_0000000000000000"},
		},
		{
			name:     "domain error",
			input:    "mulmod 3 4 0\n",
			contains: []string{"u256 mulmod 3 4 0: error:", "division by zero"},
		},
		{
			name:     "unknown op",
			input:    "frobnicate 1\n",
			contains: []string{"unknown operation", "Type help to see available commands."},
		},
		{
			name:     "no trailing newline",
			input:    "mul 6 7",
			contains: []string{"u256 mul 6 7 = 42", "Goodbye!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			output := runREPL(t, tt.cfg, tt.input)
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
				}
			}
		})
	}
}

func TestREPL_Commands(t *testing.T) {
	t.Parallel()
	output := runREPL(t, REPLConfig{}, "ops\nverbose\nadd 1 2\nstatus\nhelp\nexit\nadd 5 5\n")

	for _, s := range []string{
		"Available operations:", "expmod",
		"Verbose display: on", "time:",
		"Evaluations:  1",
		"Goodbye!",
	} {
		if !strings.Contains(output, s) {
			t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
		}
	}
	if strings.Contains(output, "= 10") {
		t.Error("input after exit should not be evaluated")
	}
	if strings.Count(output, "Available commands:") != 2 {
		t.Error("help should be printed at start and on request")
	}
}

func TestREPL_EmptyInput(t *testing.T) {
	t.Parallel()
	output := runREPL(t, REPLConfig{}, "")
	if !strings.Contains(output, "Goodbye!") {
		t.Errorf("EOF should end the session, got:\n%s", output)
	}
}
