package invoice

import (
	"regexp"
	"strings"
)

var (
	reAmount       = regexp.MustCompile(`[\d,]+\.?\d*`)
	amountStripper = strings.NewReplacer("$", "", ",", "")
)

// NormalizeAmount strips currency symbols and thousand separators from text
// and returns the first numeric substring, with ok=false when none exists.
// Intentionally lossy: inputs are inconsistent about which symbol means
// thousands vs. decimal, so symbols are discarded rather than parsed.
func NormalizeAmount(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := reAmount.FindString(amountStripper.Replace(text))
	if m == "" {
		return "", false
	}
	return m, true
}

// isNumeric reports whether text parses as a number once commas and
// currency symbols are removed.
func isNumeric(text string) bool {
	s := strings.TrimSpace(amountStripper.Replace(text))
	if s == "" {
		return false
	}
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	return true
}

// looksLikeAmount reports whether text resembles a money value.
func looksLikeAmount(text string) bool {
	if strings.Contains(text, "$") {
		return true
	}
	return strings.ContainsAny(text, "0123456789")
}
