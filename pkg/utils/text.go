// Package utils provides shared utilities for text, sizes, and logging.
package utils

import "unicode/utf8"

// Truncate returns s cut to at most maxLen characters (runes). No ellipsis is added,
// so the result is always within maxLen. If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// UTF16Len returns the length of s in UTF-16 code units, the unit Telegram uses for text limits.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
