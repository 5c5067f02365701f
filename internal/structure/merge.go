package structure

import (
	"math"
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

// BodyFontSize returns the most common font size, rounded to the nearest
// half point and weighted by character count. Ties go to the smaller size.
func BodyFontSize(lines []pack.Line, fallback float64) float64 {
	weights := make(map[float64]int)
	for _, l := range lines {
		size := math.Round(l.FontSize*2) / 2
		weights[size] += runeLen(l.Text)
	}
	best, bestWeight := fallback, -1
	for size, w := range weights {
		if w > bestWeight || (w == bestWeight && size < best) {
			best, bestWeight = size, w
		}
	}
	return best
}

// Clean strips URLs, e-mail addresses, citations and upper-case datelines,
// then normalizes spacing and rejoins hyphenated line breaks.
func (r *Rules) Clean(text string) string {
	for _, c := range r.Cleaners {
		text = c.Pattern.ReplaceAllString(text, c.Replace)
	}
	return strings.TrimSpace(text)
}

// Merge rebuilds paragraphs from extracted lines. A paragraph breaks on a
// page change, a font signature change, or a heading-like line. Each
// flushed paragraph is cleaned and classified; paragraphs that clean to
// nothing are dropped.
func Merge(lines []pack.Line, body float64, r *Rules) []pack.Paragraph {
	var (
		paragraphs []pack.Paragraph
		parts      []string
		size       float64
		bold       bool
		page       int
	)

	flush := func() {
		if len(parts) == 0 {
			return
		}
		joined := collapseSpace(strings.Join(parts, " "))
		parts = parts[:0]
		if joined == "" {
			return
		}
		cleaned := r.Clean(joined)
		if cleaned == "" {
			return
		}
		c := r.Classify(cleaned, size, bold, page, body)
		paragraphs = append(paragraphs, pack.Paragraph{
			Text:     cleaned,
			FontSize: size,
			Bold:     bold,
			Page:     page,
			Heading:  c.Heading,
			Kind:     c.Kind,
		})
	}

	for _, l := range lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		if allDigits(text) && runeLen(text) < r.PageNumberMaxRunes {
			continue
		}

		sameFont := math.Abs(l.FontSize-size) < r.SignatureDelta && l.Bold == bold
		headingLike := (l.FontSize > body+r.HeadingLikeDelta || l.Bold) && runeLen(text) < r.MaxHeadingRunes

		if len(parts) == 0 || l.Page != page || !sameFont || headingLike {
			flush()
			size, bold, page = l.FontSize, l.Bold, l.Page
		}
		parts = append(parts, text)
	}
	flush()
	return paragraphs
}
