package inquiry

import (
	"strings"

	"golang.org/x/text/width"
)

// NormalizePhone turns a Japanese phone number in any common notation
// (full-width digits, +81 prefix, spaces, hyphens, parentheses) into the
// domestic hyphenated form, e.g. 090-1234-5678.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(width.Narrow.String(raw))
	if s == "" {
		return "", ErrInvalidContact
	}

	international := strings.HasPrefix(s, "+")
	digits := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
			return -1
		default:
			return 'x'
		}
	}, s)
	if strings.ContainsRune(digits, 'x') {
		return "", ErrInvalidContact
	}

	if international {
		if !strings.HasPrefix(digits, "81") {
			return "", ErrInvalidContact
		}
		digits = "0" + strings.TrimPrefix(strings.TrimPrefix(digits, "81"), "0")
	}

	if !strings.HasPrefix(digits, "0") || strings.HasPrefix(digits, "00") {
		return "", ErrInvalidContact
	}
	if isRepeated(digits[1:]) {
		return "", ErrInvalidContact
	}

	// 050, 070, 080 and 090 numbers have 11 digits, the rest have 10.
	mobile := len(digits) > 2 && digits[2] == '0' && strings.ContainsRune("5789", rune(digits[1]))
	switch {
	case mobile && len(digits) == 11:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:], nil
	case !mobile && len(digits) == 10:
		if strings.HasPrefix(digits, "03") || strings.HasPrefix(digits, "06") {
			return digits[:2] + "-" + digits[2:6] + "-" + digits[6:], nil
		}
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:], nil
	default:
		return "", ErrInvalidContact
	}
}

func isRepeated(s string) bool {
	return s != "" && strings.Count(s, s[:1]) == len(s)
}
