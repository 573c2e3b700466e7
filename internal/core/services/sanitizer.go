package services

import (
	"strings"
	"unicode"
)

// Sanitize normalises extracted text before it is scored, classified or stored.
//
// Runs of whitespace collapse to one space and the result is trimmed.
// C0 and C1 control characters (U+0000-U+001F, U+007F-U+009F) other than
// tab, newline, vertical tab, form feed and carriage return are removed;
// U+0085 counts as a control character, not whitespace.
// Sanitize is total and idempotent.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	for _, r := range raw {
		switch {
		case isControl(r) && !isASCIISpace(r):
			// Dropped without breaking the surrounding word.
		case unicode.IsSpace(r) || r == '\uFEFF':
			pendingSpace = true
		default:
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}

	return b.String()
}

// isASCIISpace reports tab, newline, vertical tab, form feed and carriage return,
// the control characters that count as whitespace.
func isASCIISpace(r rune) bool {
	return r >= '\t' && r <= '\r'
}

func isControl(r rune) bool {
	return r <= 0x1F || (r >= 0x7F && r <= 0x9F)
}
