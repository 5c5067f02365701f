package structure

import (
	"regexp"
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

// Thresholds are the numeric cutoffs used across the pipeline. Lengths are
// counted in runes.
type Thresholds struct {
	DefaultBodySize float64 // body size when a document has no lines

	PageNumberMaxRunes int     // numeric-only lines shorter than this are page numbers
	SignatureDelta     float64 // size change that starts a new paragraph
	HeadingLikeDelta   float64 // size above body that makes a line heading-like for merging

	HeadingDelta       float64 // size above body that counts as heading typography
	MaxHeadingRunes    int
	MinHeadingRunes    int
	TitleOversizeDelta float64 // page-1 text this far above body is title, not heading

	TitleMinDelta         float64 // title must be at least this far above body
	TitleBand             float64 // and within this of the largest page-1 size
	MinTitleRunes         int
	MetadataScanLimit     int // paragraphs examined by the fallback title and author passes
	MaxTitleFallbackRunes int
	MaxAuthorBlockRunes   int
	MaxAuthorListRunes    int
	MinAuthorRunes        int
	MaxAuthorRunes        int
	MaxAuthors            int
	MarkedAuthorMaxRunes  int // marker-bearing lines shorter than this end the fallback title

	MinParagraphRunes int
	MinSentenceRunes  int
	MergeBackRunes    int
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DefaultBodySize: 11,

		PageNumberMaxRunes: 5,
		SignatureDelta:     1.0,
		HeadingLikeDelta:   0.5,

		HeadingDelta:       0.3,
		MaxHeadingRunes:    80,
		MinHeadingRunes:    3,
		TitleOversizeDelta: 3.0,

		TitleMinDelta:         1.5,
		TitleBand:             1.0,
		MinTitleRunes:         3,
		MetadataScanLimit:     15,
		MaxTitleFallbackRunes: 150,
		MaxAuthorBlockRunes:   200,
		MaxAuthorListRunes:    150,
		MinAuthorRunes:        3,
		MaxAuthorRunes:        49,
		MaxAuthors:            10,
		MarkedAuthorMaxRunes:  80,

		MinParagraphRunes: 10,
		MinSentenceRunes:  20,
		MergeBackRunes:    15,
	}
}

// SectionRule maps a canonical section name to a kind.
type SectionRule struct {
	Name    string
	Pattern *regexp.Regexp // matched against the lower-cased, trimmed text
	Kind    pack.Kind
}

// KindKeyword reassigns a heading's kind when its text contains Keyword.
type KindKeyword struct {
	Keyword string
	Kind    pack.Kind
}

// Cleaner is one substitution applied to merged paragraph text.
type Cleaner struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Rules is the full rule table. The zero value is not usable; start from
// DefaultRules and adjust.
type Rules struct {
	Thresholds

	Sections     []SectionRule
	KindKeywords []KindKeyword
	Cleaners     []Cleaner

	NoisePhrases  []string // case-insensitive substrings
	NoisePrefixes []string // case-insensitive prefixes
	NoisePatterns []*regexp.Regexp

	TitleStopAffiliations  []string
	AuthorSkipAffiliations []string
	AuthorRejectWords      []string

	Markers string // academic footnote markers

	NumberedHeading *regexp.Regexp
	ContentStart    *regexp.Regexp
	CaptionPrefixes []string
}

// sectionNames is the canonical heading table. Each entry becomes
// ^\s*\d*\.?\s*<expr>\s*:?\s*$.
var sectionNames = []struct {
	name string
	expr string
	kind pack.Kind
}{
	{"abstract", `abstract`, pack.KindBody},
	{"introduction", `introduction`, pack.KindBody},
	{"background", `background`, pack.KindBody},
	{"related work", `related\s+work`, pack.KindBody},
	{"methods", `methods?`, pack.KindBody},
	{"methodology", `methodology`, pack.KindBody},
	{"results", `results?`, pack.KindBody},
	{"discussion", `discussion`, pack.KindBody},
	{"conclusion", `conclusions?`, pack.KindBody},
	{"future work", `future\s+work`, pack.KindBody},
	{"acknowledgements", `acknowledgements?`, pack.KindBody},
	{"ethical considerations", `ethical\s+considerations`, pack.KindBody},
	{"references", `(references?|bibliography|works\s+cited)`, pack.KindBibliography},
	{"appendix", `appendi(x|ces)`, pack.KindAppendix},
}

// SectionPattern compiles the anchored pattern used for a canonical name.
func SectionPattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*\d*\.?\s*` + expr + `\s*:?\s*$`)
}

// DefaultRules returns the stock rule table for academic papers.
func DefaultRules() *Rules {
	r := &Rules{
		Thresholds: DefaultThresholds(),
		KindKeywords: []KindKeyword{
			{"reference", pack.KindBibliography},
			{"bibliography", pack.KindBibliography},
			{"appendix", pack.KindAppendix},
		},
		Cleaners: []Cleaner{
			{"url", regexp.MustCompile(`https?://[^\s]+`), ""},
			{"email", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), ""},
			{"author-year citation", regexp.MustCompile(`\([A-Za-z][^)]{0,100}\d{4}[a-z]?[^)]{0,20}\)`), ""},
			{"numeric citation", regexp.MustCompile(`\[\d+(?:,\s*\d+)*\]`), ""},
			{"dateline", regexp.MustCompile(`\b(JANUARY|FEBRUARY|MARCH|APRIL|MAY|JUNE|JULY|AUGUST|SEPTEMBER|OCTOBER|NOVEMBER|DECEMBER)\s+\d{4}\b`), ""},
			{"whitespace", regexp.MustCompile(`\s{2,}`), " "},
			{"hyphen break", regexp.MustCompile(`-\s+`), "-"},
		},
		NoisePhrases: []string{
			"arxiv", "preprint", "accepted", "submitted", "proceedings",
			"conference", "journal of", "vol.", "issn", "doi:", "©",
			"copyright", "licensed under", "creative commons",
		},
		NoisePrefixes: []string{"cs."},
		NoisePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\d{4}\.\d{4,5}`),
		},
		TitleStopAffiliations:  []string{"university", "institute", "department"},
		AuthorSkipAffiliations: []string{"university", "institute", "department", "college"},
		AuthorRejectWords:      []string{"university", "institute"},
		Markers:                "∗*†‡§¶‖¹²³⁴⁵⁶⁷⁸⁹⁰",
		NumberedHeading:        regexp.MustCompile(`^\d+(\.\d+)*\s+[A-Z]`),
		ContentStart:           regexp.MustCompile(`^\d+\.?\s*(abstract|introduction)`),
		CaptionPrefixes:        []string{"figure", "fig.", "table"},
	}
	for _, s := range sectionNames {
		r.Sections = append(r.Sections, SectionRule{
			Name:    s.name,
			Pattern: SectionPattern(s.expr),
			Kind:    s.kind,
		})
	}
	return r
}

// IsNoise reports whether text is first-page boilerplate (arXiv stamps,
// venue headers, copyright and licence lines).
func (r *Rules) IsNoise(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range r.NoisePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	for _, p := range r.NoisePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	for _, re := range r.NoisePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasMarkers reports whether text carries an academic footnote marker.
func (r *Rules) HasMarkers(text string) bool {
	return strings.ContainsAny(text, r.Markers)
}

// StripMarkers removes footnote markers and trims.
func (r *Rules) StripMarkers(text string) string {
	return strings.TrimSpace(strings.Map(func(c rune) rune {
		if strings.ContainsRune(r.Markers, c) {
			return -1
		}
		return c
	}, text))
}

// LooksLikePersonName accepts 2-5 capitalized words of 4-49 runes total.
func (r *Rules) LooksLikePersonName(text string) bool {
	cleaned := r.StripMarkers(text)
	n := runeLen(cleaned)
	if n <= 3 || n >= 50 {
		return false
	}
	words := strings.Fields(cleaned)
	if len(words) < 2 || len(words) > 5 {
		return false
	}
	for _, w := range words {
		if !firstLetterUpper(w) {
			return false
		}
	}
	return true
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(lower string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
