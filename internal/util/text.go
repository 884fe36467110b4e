// Package util provides utility functions.
package util

import (
	"strings"
	"unicode/utf8"
)

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TrimTruncate trims surrounding whitespace and then cuts to n runes.
func TrimTruncate(s string, n int) string {
	return Truncate(strings.TrimSpace(s), n)
}

// FirstNonEmpty returns the first argument that is not empty.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
