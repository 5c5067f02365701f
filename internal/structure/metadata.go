package structure

import (
	"regexp"
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

var (
	dayMonthYear = regexp.MustCompile(`\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}`)
	bareYear     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	andWord      = regexp.MustCompile(`(?i) and `)
)

// ExtractMeta recovers title, authors and date from the page-1 paragraphs.
func ExtractMeta(paragraphs []pack.Paragraph, body float64, r *Rules) pack.Meta {
	var first []pack.Paragraph
	for _, p := range paragraphs {
		if p.Page == 1 {
			first = append(first, p)
		}
	}
	if len(first) == 0 {
		return pack.Meta{Title: pack.UntitledTitle, Authors: []string{}}
	}

	parts, end := r.titleBySize(first, body)
	if len(parts) == 0 {
		parts, end = r.titleByPattern(first)
	}
	title := pack.UntitledTitle
	if len(parts) > 0 {
		title = strings.Join(parts, " ")
	}

	return pack.Meta{
		Title:   title,
		Authors: r.authors(first, end),
		Date:    findDate(first),
	}
}

// titleBySize accumulates the leading run of near-maximum-size paragraphs.
// The threshold never drops below body+TitleMinDelta, so documents set in
// one size fall through to the pattern pass.
func (r *Rules) titleBySize(first []pack.Paragraph, body float64) ([]string, int) {
	maxSize := body
	seen := false
	for _, p := range first {
		if r.IsNoise(p.Text) {
			continue
		}
		if !seen || p.FontSize > maxSize {
			maxSize = p.FontSize
			seen = true
		}
	}
	threshold := max(body+r.TitleMinDelta, maxSize-r.TitleBand)

	var parts []string
	end := 0
	for i, p := range first {
		if r.IsNoise(p.Text) {
			if len(parts) > 0 {
				return parts, i
			}
			continue
		}
		if p.FontSize >= threshold && runeLen(p.Text) > r.MinTitleRunes {
			parts = append(parts, p.Text)
			end = i + 1
		} else if len(parts) > 0 {
			break
		}
	}
	return parts, end
}

// titleByPattern takes capitalized paragraphs until something that looks
// like an author line, an affiliation, or the abstract.
func (r *Rules) titleByPattern(first []pack.Paragraph) ([]string, int) {
	var parts []string
	end := 0
	for i, p := range first {
		if i >= r.MetadataScanLimit {
			break
		}
		text := p.Text
		if r.IsNoise(text) {
			continue
		}
		if runeLen(text) < 5 || strings.Contains(text, "@") {
			continue
		}
		if (r.HasMarkers(text) && runeLen(text) < r.MarkedAuthorMaxRunes) ||
			(r.LooksLikePersonName(text) && len(parts) > 0) {
			return parts, i
		}
		lower := strings.ToLower(text)
		if containsAny(lower, r.TitleStopAffiliations) {
			if len(parts) > 0 {
				return parts, i
			}
			continue
		}
		if strings.HasPrefix(lower, "abstract") {
			return parts, i
		}
		if startsUpper(text) && runeLen(text) < r.MaxTitleFallbackRunes {
			parts = append(parts, text)
			end = i + 1
		} else if len(parts) > 0 {
			return parts, i
		}
	}
	return parts, end
}

// authors scans forward from the end of the title.
func (r *Rules) authors(first []pack.Paragraph, start int) []string {
	authors := []string{}
	stop := min(start+r.MetadataScanLimit, len(first))
	for i := start; i < stop; i++ {
		text := first[i].Text
		lower := strings.ToLower(text)

		if hasAnyPrefix(lower, "abstract", "introduction") {
			break
		}
		if runeLen(text) > r.MaxAuthorBlockRunes {
			break
		}
		if r.IsNoise(text) {
			continue
		}
		if containsAny(lower, r.AuthorSkipAffiliations) || strings.Contains(text, "@") {
			continue
		}

		commas := strings.Contains(text, ",") && !strings.HasSuffix(text, ",")
		and := strings.Contains(lower, " and ")
		if r.HasMarkers(text) || r.LooksLikePersonName(text) ||
			((commas || and) && runeLen(text) < r.MaxAuthorListRunes) {
			authors = append(authors, r.splitAuthors(text)...)
		} else if len(authors) > 0 {
			break
		}
	}
	if len(authors) > r.MaxAuthors {
		authors = authors[:r.MaxAuthors]
	}
	return authors
}

func (r *Rules) splitAuthors(text string) []string {
	cleaned := andWord.ReplaceAllString(r.StripMarkers(text), ",")
	var out []string
	for _, c := range strings.Split(cleaned, ",") {
		c = strings.TrimSpace(c)
		n := runeLen(c)
		if n < r.MinAuthorRunes || n > r.MaxAuthorRunes {
			continue
		}
		if containsAny(strings.ToLower(c), r.AuthorRejectWords) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func findDate(first []pack.Paragraph) string {
	for _, p := range first {
		if m := dayMonthYear.FindString(p.Text); m != "" {
			return m
		}
	}
	for _, p := range first {
		if m := bareYear.FindString(p.Text); m != "" {
			return m
		}
	}
	return ""
}
