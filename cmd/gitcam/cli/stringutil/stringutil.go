// Package stringutil provides small rune-safe string helpers shared by the
// git and payload layers.
package stringutil

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes shortens s to at most maxRunes runes, appending suffix when a
// cut was made. The suffix counts against the limit so the result never
// exceeds maxRunes runes.
func TruncateRunes(s string, maxRunes int, suffix string) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	keep := maxRunes - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}

	runes := []rune(s)
	return string(runes[:keep]) + suffix
}

// FirstLine returns everything up to the first newline.
func FirstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
