package format

import (
	"fmt"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal string,
// preserving a leading minus sign.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var sb strings.Builder
	sb.Grow(len(sign) + len(s) + len(s)/3)
	sb.WriteString(sign)
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	sb.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// TruncateDigits shortens a long decimal to its first and last n digits,
// for one-line displays.
func TruncateDigits(s string, n int) string {
	digits := strings.TrimPrefix(s, "-")
	if n <= 0 || len(digits) <= 2*n+3 {
		return s
	}
	sign := s[:len(s)-len(digits)]
	return sign + digits[:n] + "..." + digits[len(digits)-n:]
}

// GroupHex splits the digits of a 0x-prefixed hex string into 16-digit words
// from the right, matching the 64-bit limbs.
func GroupHex(h string) string {
	sign := ""
	if strings.HasPrefix(h, "-") {
		sign, h = "-", h[1:]
	}
	digits := strings.TrimPrefix(h, "0x")
	if len(digits) <= 16 {
		return sign + h
	}
	var parts []string
	for len(digits) > 16 {
		parts = append([]string{digits[len(digits)-16:]}, parts...)
		digits = digits[:len(digits)-16]
	}
	parts = append([]string{digits}, parts...)
	return sign + "0x" + strings.Join(parts, "_")
}

// FormatBytes renders a byte count with a binary unit ("1.5 MiB").
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
