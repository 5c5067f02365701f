package playback

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
)

func TestBuildSequence_DefaultConfig(t *testing.T) {
	p := testPack()
	seq := BuildSequence(p, pack.DefaultConfig(p))

	type want struct {
		kind    TokenKind
		text    string
		silence time.Duration
	}
	expected := []want{
		{TokenHeading, "Paper. By Ann Lee and Bo Kim. Published 2020", 0},
		{TokenSilence, "", 400 * time.Millisecond},
		{TokenSilence, "", 300 * time.Millisecond},
		{TokenHeading, "Introduction", 0},
		{TokenSilence, "", 350 * time.Millisecond},
		{TokenSentence, "Sentence number 0 is here.", 0},
		{TokenSentence, "Sentence number 1 is here.", 0},
		{TokenSentence, "Sentence number 2 is here.", 0},
		{TokenSilence, "", 300 * time.Millisecond},
		{TokenHeading, "Methods", 0},
		{TokenSilence, "", 350 * time.Millisecond},
		{TokenSentence, "Sentence number 3 is here.", 0},
		{TokenSentence, "Sentence number 4 is here.", 0},
		{TokenSilence, "", 500 * time.Millisecond},
		{TokenHeading, "We have now concluded Paper by Ann Lee and Bo Kim", 0},
		{TokenSilence, "", 500 * time.Millisecond},
	}
	if len(seq) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(seq), seq)
	}
	for i, w := range expected {
		got := seq[i]
		if got.Kind != w.kind || got.Text != w.text || got.Silence != w.silence {
			t.Errorf("token[%d]: expected %v %q %v, got %v %q %v", i, w.kind, w.text, w.silence, got.Kind, got.Text, got.Silence)
		}
	}
	if seq[5].Sentence != 0 || seq[5].SentenceID != "sent0" || seq[12].Sentence != 4 {
		t.Errorf("unexpected sentence indexes: %+v %+v", seq[5], seq[12])
	}
	if seq[0].Sentence != -1 || seq[1].Sentence != -1 {
		t.Error("expected -1 sentence index on non-sentence tokens")
	}
}

func TestBuildSequence_IsDeterministic(t *testing.T) {
	p := testPack()
	cfg := pack.DefaultConfig(p).WithSections("sec4", "sec2", "sec1", "sec3")
	cfg.IncludeAppendix = true

	a, err := json.Marshal(BuildSequence(p, cfg))
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		b, err := json.Marshal(BuildSequence(p, cfg))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("sequences differ:\n%s\n%s", a, b)
		}
	}
}

func TestBuildSequence_SectionFiltering(t *testing.T) {
	p := testPack()
	tests := []struct {
		name     string
		cfg      pack.Config
		expected []string
	}{
		{
			name:     "bibliography never read",
			cfg:      pack.Config{EnabledSections: map[string]bool{"sec3": true}, IncludeAppendix: true, IncludeSummary: true},
			expected: nil,
		},
		{
			name:     "appendix needs flag",
			cfg:      pack.Config{EnabledSections: map[string]bool{"sec4": true}},
			expected: nil,
		},
		{
			name:     "appendix with flag",
			cfg:      pack.Config{EnabledSections: map[string]bool{"sec4": true}, IncludeAppendix: true},
			expected: []string{"sent6"},
		},
		{
			name:     "appendix flag still needs enabled set",
			cfg:      pack.Config{EnabledSections: map[string]bool{"sec1": true}, IncludeAppendix: true},
			expected: []string{"sent0", "sent1", "sent2"},
		},
		{
			name:     "disabled body section",
			cfg:      pack.Config{EnabledSections: map[string]bool{"sec1": false, "sec2": true}},
			expected: []string{"sent3", "sent4"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, tok := range BuildSequence(p, tc.cfg) {
				if tok.Kind == TokenSentence {
					got = append(got, tok.SentenceID)
				}
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("expected %v, got %v", tc.expected, got)
				}
			}
		})
	}
}

func TestBuildSequence_EmptyEnabledSetOnlyAnnounces(t *testing.T) {
	p := &pack.Pack{
		ID:   "doc-2",
		Meta: pack.Meta{Title: "Short", Authors: []string{}},
		Sections: []pack.Section{
			{ID: "main", Title: "Main Content", Kind: pack.KindBody, SentenceIDs: []string{"sent0"}, IncludedByDefault: true},
			{ID: "sec1", Title: "References", Kind: pack.KindBibliography, SentenceIDs: []string{"sent1"}},
		},
		Sentences: []pack.Sentence{sentence(0, "main"), sentence(1, "sec1")},
	}
	cfg := pack.Config{DocumentID: p.ID, EnabledSections: map[string]bool{}}
	seq := BuildSequence(p, cfg)

	if n := SentenceCount(seq); n != 0 {
		t.Errorf("expected no sentences, got %d", n)
	}
	var headings []string
	for _, tok := range seq {
		if tok.Kind == TokenHeading {
			headings = append(headings, tok.Text)
		}
	}
	if len(headings) != 2 || headings[0] != "Short" || headings[1] != "We have now concluded Short" {
		t.Errorf("expected only the two announcements, got %q", headings)
	}
}

func TestBuildSequence_SummaryNeedsFlag(t *testing.T) {
	p := flatPack(1)
	p.Sections[0].Kind = pack.KindSummary
	cfg := pack.Config{EnabledSections: map[string]bool{"main": true}}
	if n := SentenceCount(BuildSequence(p, cfg)); n != 0 {
		t.Errorf("expected summary skipped, got %d sentences", n)
	}
	cfg.IncludeSummary = true
	if n := SentenceCount(BuildSequence(p, cfg)); n != 1 {
		t.Errorf("expected summary read, got %d sentences", n)
	}
}

func TestBuildSequence_SkipsUnknownSentenceIDs(t *testing.T) {
	p := flatPack(2)
	p.Sections[0].SentenceIDs = []string{"sent0", "missing", "sent1"}
	if n := SentenceCount(BuildSequence(p, pack.DefaultConfig(p))); n != 2 {
		t.Errorf("expected 2 sentences, got %d", n)
	}
}

func TestAnnouncement(t *testing.T) {
	tests := []struct {
		name       string
		meta       pack.Meta
		open, done string
	}{
		{"one author", pack.Meta{Title: "T", Authors: []string{"A"}}, "T. By A", "We have now concluded T by A"},
		{"three authors", pack.Meta{Title: "T", Authors: []string{"A", "B", "C"}, Date: "2021"}, "T. Published 2021", "We have now concluded T"},
		{"no authors", pack.Meta{Title: "T"}, "T", "We have now concluded T"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Announcement(tc.meta); got != tc.open {
				t.Errorf("Announcement = %q, want %q", got, tc.open)
			}
			if got := Conclusion(tc.meta); got != tc.done {
				t.Errorf("Conclusion = %q, want %q", got, tc.done)
			}
		})
	}
}
