package domain

import "github.com/rivo/uniseg"

// CharCount returns the number of user-visible characters (extended grapheme
// clusters) in s. An emoji with modifiers or a letter with combining marks
// counts as one.
func CharCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// TruncateChars returns the first n grapheme clusters of s.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}

	rest := s
	state := -1
	for count := 0; count < n && rest != ""; count++ {
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	return s[:len(s)-len(rest)]
}
