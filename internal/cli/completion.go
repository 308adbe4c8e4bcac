package cli

import (
	"fmt"
	"io"
	"strings"

	apperrors "github.com/agbru/wideint/internal/errors"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every shell script is generated from flagRegistry, so adding a flag only
// requires appending to it.
type FlagCompletion struct {
	Name   string   // flag name without the leading dash
	Help   string   // description text
	Values []string // suggested values; nil for booleans and free values
	IsFile bool     // true if the flag takes a file path
	IsFree bool     // true if the flag takes a value with no suggestions
}

// flagRegistry lists the flags of the wideint command.
var flagRegistry = []FlagCompletion{
	{Name: "help", Help: "Show help message"},
	{Name: "version", Help: "Show version information"},
	{Name: "signed", Help: "Evaluate with the signed type"},
	{Name: "hex", Help: "Also print hexadecimal results"},
	{Name: "quiet", Help: "Print bare results only"},
	{Name: "verbose", Help: "Print timings and details"},
	{Name: "no-color", Help: "Disable ANSI colors"},
	{Name: "timeout", Help: "Maximum run time", Values: []string{"10s", "1m", "5m", "30m"}},
	{Name: "log-level", Help: "Structured log level", Values: []string{"debug", "info", "warn", "error"}},
	{Name: "repl", Help: "Start the interactive prompt"},
	{Name: "tui", Help: "Start the terminal calculator"},
	{Name: "serve", Help: "Serve the HTTP evaluation API"},
	{Name: "addr", Help: "Listen address for -serve", IsFree: true},
	{Name: "verify", Help: "Run the differential conformance check"},
	{Name: "oracle", Help: "Reference implementation for -verify", Values: []string{"big", "holiman"}},
	{Name: "iterations", Help: "Random cases per operation", Values: []string{"1000", "10000", "100000"}},
	{Name: "workers", Help: "Concurrent evaluations", IsFree: true},
	{Name: "seed", Help: "Random seed for -verify", IsFree: true},
	{Name: "bench", Help: "Benchmark every operation"},
	{Name: "bench-rounds", Help: "Rounds per operation for -bench", Values: []string{"1000", "20000", "100000"}},
	{Name: "ops", Help: "Operations for -verify and -bench", IsFree: true},
	{Name: "batch", Help: "Evaluate one request per line", IsFile: true},
	{Name: "output", Help: "Also write results to this file", IsFile: true},
	{Name: "env-file", Help: "Dotenv file with WIDEINT_ settings", IsFile: true},
	{Name: "completion", Help: "Print a completion script", Values: []string{"bash", "zsh", "fish", "powershell"}},
}

// GenerateCompletion writes a completion script for shell. Positional
// arguments complete to the operation names in ops.
func GenerateCompletion(out io.Writer, shell string, ops []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(ops)
	case "zsh":
		script = zshCompletion(ops)
	case "fish":
		script = fishCompletion(ops)
	case "powershell", "ps":
		script = powerShellCompletion(ops)
	default:
		return apperrors.NewConfigError("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion(ops []string) string {
	var flags []string
	var cases strings.Builder
	var files []string
	for _, f := range flagRegistry {
		flags = append(flags, "-"+f.Name)
		switch {
		case f.IsFile:
			files = append(files, "-"+f.Name)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Name, strings.Join(f.Values, " "))
		case f.IsFree:
			fmt.Fprintf(&cases, "        -%s)\n            return 0\n            ;;\n", f.Name)
		}
	}
	fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
		strings.Join(files, "|"))

	return fmt.Sprintf(`# Bash completion script for wideint
# Add this to your ~/.bashrc or ~/.bash_completion

_wideint_completions() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
    else
        COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
    fi
}

complete -F _wideint_completions wideint
`, cases.String(), strings.Join(flags, " "), strings.Join(ops, " "))
}

func zshCompletion(ops []string) string {
	var args []string
	for _, f := range flagRegistry {
		suffix := ""
		switch {
		case f.IsFile:
			suffix = ":file:_files"
		case len(f.Values) > 0:
			suffix = fmt.Sprintf(":%s:(%s)", f.Name, strings.Join(f.Values, " "))
		case f.IsFree:
			suffix = fmt.Sprintf(":%s:", f.Name)
		}
		args = append(args, fmt.Sprintf("        '-%s[%s]%s'", f.Name, f.Help, suffix))
	}
	args = append(args, fmt.Sprintf("        '1:operation:(%s)'", strings.Join(ops, " ")), "        '*:operand:'")

	return fmt.Sprintf(`#compdef wideint

# Zsh completion script for wideint
# Place this file in $fpath as _wideint

_arguments \
%s
`, strings.Join(args, " \\\n"))
}

func fishCompletion(ops []string) string {
	lines := []string{
		"# Fish completion script for wideint",
		"# Add this to ~/.config/fish/completions/wideint.fish",
		"",
		"complete -c wideint -f",
		fmt.Sprintf("complete -c wideint -n '__fish_is_first_arg' -a '%s'", strings.Join(ops, " ")),
	}
	for _, f := range flagRegistry {
		line := fmt.Sprintf("complete -c wideint -o %s -d '%s'", f.Name, f.Help)
		switch {
		case f.IsFile:
			line += " -rF"
		case len(f.Values) > 0:
			line += fmt.Sprintf(" -xa '%s'", strings.Join(f.Values, " "))
		case f.IsFree:
			line += " -x"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}

func powerShellCompletion(ops []string) string {
	quote := func(vals []string) string {
		q := make([]string, len(vals))
		for i, v := range vals {
			q[i] = "'" + v + "'"
		}
		return strings.Join(q, ", ")
	}
	var options, cases []string
	for _, f := range flagRegistry {
		options = append(options, fmt.Sprintf("        @{Name = '-%s'; Description = '%s' }", f.Name, f.Help))
		if len(f.Values) > 0 {
			cases = append(cases, fmt.Sprintf("        '-%s' { $values = @(%s) }", f.Name, quote(f.Values)))
		}
	}

	return fmt.Sprintf(`# PowerShell completion script for wideint
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'wideint' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )
    $operations = @(%s)

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 1) { $elements[-1].ToString() } else { '' }
    if ($wordToComplete -ne '' -and $elements.Count -gt 2) { $prevElement = $elements[-2].ToString() }

    $values = $null
    switch ($prevElement) {
%s
    }
    if ($values) {
        $values | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    if ($wordToComplete -like '-*') {
        $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
        }
        return
    }
    $operations | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`, strings.Join(options, "\n"), quote(ops), strings.Join(cases, "\n"))
}
