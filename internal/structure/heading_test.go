package structure

import (
	"strings"
	"testing"

	"github.com/dgallion1/papervox/internal/pack"
)

func TestClassify_Rules(t *testing.T) {
	r := DefaultRules()
	const body = 10.0

	tests := []struct {
		name    string
		text    string
		size    float64
		bold    bool
		page    int
		heading bool
		kind    pack.Kind
		rule    string
	}{
		{"canonical name at body size", "Related Work", body, false, 2, true, pack.KindBody, RuleSectionName},
		{"canonical name with number and colon", "4. Results:", body, false, 3, true, pack.KindBody, RuleSectionName},
		{"references", "7 References", body, false, 9, true, pack.KindBibliography, RuleSectionName},
		{"works cited", "Works Cited", body, false, 9, true, pack.KindBibliography, RuleSectionName},
		{"appendices", "Appendices:", body, false, 9, true, pack.KindAppendix, RuleSectionName},
		{"numbered bold", "3.2 Training Setup", body, true, 3, true, pack.KindBody, RuleNumbered},
		{"numbered larger", "3 Model", body + 1, false, 3, true, pack.KindBody, RuleNumbered},
		{"numbered reference keyword", "5 Reference Implementations", body, true, 5, true, pack.KindBibliography, RuleNumbered},
		{"numbered at body size", "3.2 Training Setup", body, false, 3, false, pack.KindBody, ""},
		{"typography bold", "Experimental Setup", body, true, 2, true, pack.KindBody, RuleTypography},
		{"typography appendix keyword", "Appendix A Proofs", body, true, 8, true, pack.KindAppendix, RuleTypography},
		{"page one oversized is title", "A Big Title", body + 6, false, 1, false, pack.KindBody, ""},
		{"oversized elsewhere is heading", "A Big Title", body + 6, false, 2, true, pack.KindBody, RuleTypography},
		{"trailing period", "Ends with a period.", body, true, 2, false, pack.KindBody, ""},
		{"lowercase start", "lowercase start", body, true, 2, false, pack.KindBody, ""},
		{"too short", "Abc", body, true, 2, false, pack.KindBody, ""},
		{"too long", strings.Repeat("Word ", 16), body, true, 2, false, pack.KindBody, ""},
		{"plain body text", "This is ordinary prose", body, false, 2, false, pack.KindBody, ""},
		{"small delta is not emphasis", "Almost Heading", body + 0.2, false, 2, false, pack.KindBody, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Classify(tc.text, tc.size, tc.bold, tc.page, body)
			if got.Heading != tc.heading {
				t.Errorf("expected heading=%v, got %v", tc.heading, got.Heading)
			}
			if got.Kind != tc.kind {
				t.Errorf("expected kind %q, got %q", tc.kind, got.Kind)
			}
			if got.Rule != tc.rule {
				t.Errorf("expected rule %q, got %q", tc.rule, got.Rule)
			}
		})
	}
}

func TestClassify_ExtendedSectionTable(t *testing.T) {
	r := DefaultRules()
	r.Sections = append(r.Sections, SectionRule{
		Name:    "summary",
		Pattern: SectionPattern(`executive\s+summary`),
		Kind:    pack.KindSummary,
	})
	got := r.Classify("Executive Summary", 10, false, 4, 10)
	if !got.Heading || got.Kind != pack.KindSummary {
		t.Errorf("expected summary heading, got %+v", got)
	}
}

func TestClassify_TunedThreshold(t *testing.T) {
	r := DefaultRules()
	r.TitleOversizeDelta = 10
	got := r.Classify("A Big Title", 16, false, 1, 10)
	if !got.Heading {
		t.Error("expected raised oversize threshold to let page-1 text through as a heading")
	}
}

func TestIsNoise(t *testing.T) {
	r := DefaultRules()
	noisy := []string{
		"arXiv:2101.00001v2 [cs.CL] 4 Feb 2021",
		"Preprint. Under review.",
		"Proceedings of the 40th International Conference on Machine Learning",
		"Journal of Things, Vol. 3",
		"© 2023 The Authors",
		"Licensed under a Creative Commons Attribution license",
		"cs.LG",
		"2101.00001",
		"doi: 10.1000/xyz",
	}
	for _, s := range noisy {
		if !r.IsNoise(s) {
			t.Errorf("expected %q to be noise", s)
		}
	}
	clean := []string{"Attention Is All You Need", "Jane Doe, John Smith", "Abstract"}
	for _, s := range clean {
		if r.IsNoise(s) {
			t.Errorf("expected %q not to be noise", s)
		}
	}
}

func TestLooksLikePersonName(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		text string
		want bool
	}{
		{"Jane Doe", true},
		{"Jane Q. Doe†", true},
		{"Jean-Luc de Picard", false},
		{"Jean-Luc Picard", true},
		{"Single", false},
		{"One Two Three Four Five Six", false},
		{"A B", false},
		{"Jane Doe 1", true},
	}
	for _, tc := range tests {
		if got := r.LooksLikePersonName(tc.text); got != tc.want {
			t.Errorf("LooksLikePersonName(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
