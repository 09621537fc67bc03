package tui

import (
	"strings"
	"unicode"
)

// Sanitize strips control characters from remote text before it reaches the
// terminal. Newline, tab and carriage return are kept; ESC, NUL, BEL and the
// rest are removed, so a body cannot inject ANSI sequences.
func Sanitize(s string) string {
	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range s {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// BodyRenderer sanitizes a body and, when markdown is set, renders it with
// glamour wrapped at width columns.
func BodyRenderer(markdown bool, width int) func(string) (string, error) {
	var render func(string) (string, error)
	if markdown {
		render = NewRenderer(width)
	}
	return func(body string) (string, error) {
		body = Sanitize(body)
		if render == nil {
			return body, nil
		}
		return render(body)
	}
}
