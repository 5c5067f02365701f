package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// startsUpper reports whether the first rune of s is an uppercase letter.
func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// firstLetterUpper checks the first letter of w, ignoring non-letters.
// Words with no letters pass.
func firstLetterUpper(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// collapseSpace joins fields with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
