package ui

// The Color* functions return the escape code of the active theme for a role.
// They return "" under NoColorTheme, so callers can concatenate freely.

// ColorReset clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorBold starts bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline starts underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorRed marks errors.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen marks successes.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow marks warnings and commands.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue marks primary elements such as operation names.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta marks informational highlights.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan marks computed values.
func ColorCyan() string { return GetCurrentTheme().Value }

// ColorDim marks secondary text.
func ColorDim() string { return GetCurrentTheme().Secondary }

// Colorize wraps s in the given code and a reset when colors are enabled.
func Colorize(code, s string) string {
	if code == "" {
		return s
	}
	return code + s + ColorReset()
}
