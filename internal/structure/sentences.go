package structure

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits a paragraph at sentence boundaries: '.', '!' or
// '?' followed by whitespace and an uppercase letter. The punctuation stays
// with the sentence it ends. Fragments shorter than mergeBack runes are
// appended to the previous sentence. A paragraph with no boundaries comes
// back whole.
func SplitSentences(text string, mergeBack int) []string {
	var (
		sentences []string
		last      int
	)
	emit := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return
		}
		if runeLen(candidate) < mergeBack && len(sentences) > 0 {
			sentences[len(sentences)-1] += " " + candidate
			return
		}
		sentences = append(sentences, candidate)
	}

	for _, b := range sentenceBoundaries(text) {
		emit(text[last:b])
		last = b
	}
	emit(text[last:])

	if len(sentences) == 0 {
		return []string{text}
	}
	return sentences
}

// sentenceBoundaries returns the byte offsets where whitespace runs that
// separate sentences begin.
func sentenceBoundaries(text string) []int {
	var out []int
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i
		for j < len(text) {
			ws, n := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(ws) {
				break
			}
			j += n
		}
		if j == i || j >= len(text) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[j:])
		if unicode.IsUpper(next) {
			out = append(out, i)
		}
	}
	return out
}

var figureRef = regexp.MustCompile(`(?i)fig(?:ure|\.)?\s*(\d+[a-z]?)`)

// FigureRefs returns the normalized labels ("Figure 3") cited in text.
func FigureRefs(text string) []string {
	var refs []string
	for _, m := range figureRef.FindAllStringSubmatch(text, -1) {
		refs = append(refs, fmt.Sprintf("Figure %s", m[1]))
	}
	return refs
}
