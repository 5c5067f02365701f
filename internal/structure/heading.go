package structure

import (
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

// Classification is the result of running a paragraph through the
// heading rules. Rule names the rule that matched, empty for body text.
type Classification struct {
	Heading bool
	Kind    pack.Kind
	Rule    string
}

// Rule names reported in Classification.Rule.
const (
	RuleSectionName = "section-name"
	RuleNumbered    = "numbered"
	RuleTypography  = "typography"
)

var bodyText = Classification{Kind: pack.KindBody}

// Classify decides whether a paragraph is a heading. Rules are tried in
// order and the first match wins: canonical section names, numbered
// headings, then typography.
func (r *Rules) Classify(text string, size float64, bold bool, page int, body float64) Classification {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, s := range r.Sections {
		if s.Pattern.MatchString(lower) {
			return Classification{Heading: true, Kind: s.Kind, Rule: RuleSectionName}
		}
	}

	n := runeLen(text)
	emphasized := size > body+r.HeadingDelta || bold

	if r.NumberedHeading.MatchString(text) && n < r.MaxHeadingRunes && emphasized {
		return Classification{Heading: true, Kind: r.keywordKind(lower), Rule: RuleNumbered}
	}

	if emphasized && n < r.MaxHeadingRunes && n > r.MinHeadingRunes &&
		startsUpper(text) && !strings.HasSuffix(text, ".") {
		if page == 1 && size > body+r.TitleOversizeDelta {
			return bodyText
		}
		return Classification{Heading: true, Kind: r.keywordKind(lower), Rule: RuleTypography}
	}

	return bodyText
}

func (r *Rules) keywordKind(lower string) pack.Kind {
	for _, k := range r.KindKeywords {
		if strings.Contains(lower, k.Keyword) {
			return k.Kind
		}
	}
	return pack.KindBody
}
