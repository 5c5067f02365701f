package parser

import (
	"slices"
	"strings"
	"testing"

	"github.com/dgallion1/papervox/internal/pack"
)

func TestTextParser_PromotesTitleAndHeadings(t *testing.T) {
	input := "Listening to Papers\n\nAnn Lee, Bo Kim\n\nAbstract\n\nWe study things.\nMore lines here.\n\f2 Method\n\nBody text."
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []pack.Line{
		{Text: "Listening to Papers", FontSize: TitleSize, Bold: true, Page: 1},
		{Text: "Ann Lee, Bo Kim", FontSize: BodySize, Page: 1},
		{Text: "Abstract", FontSize: BodySize, Bold: true, Page: 1},
		{Text: "We study things.", FontSize: BodySize, Page: 1},
		{Text: "More lines here.", FontSize: BodySize, Page: 1},
		{Text: "2 Method", FontSize: BodySize, Bold: true, Page: 2},
		{Text: "Body text.", FontSize: BodySize, Page: 2},
	}
	if got := doc.Lines(); !slices.Equal(got, want) {
		t.Errorf("lines mismatch\n got: %+v\nwant: %+v", got, want)
	}
	if doc.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", doc.PageCount)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	doc, err := (&TextParser{}).Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.PageCount != 1 || len(doc.Lines()) != 0 {
		t.Errorf("expected one empty page, got %d pages and %d lines", doc.PageCount, len(doc.Lines()))
	}
}

func TestTextParser_SingleLineIsTitle(t *testing.T) {
	doc, err := (&TextParser{}).Parse(strings.NewReader("Hello world"), "single.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := doc.Lines()
	if len(lines) != 1 || lines[0].FontSize != TitleSize {
		t.Errorf("expected a single title line, got %+v", lines)
	}
}

func TestTextParser_BlankAndWhitespaceLines(t *testing.T) {
	input := "A long first paragraph that is not a title because it has two lines.\nSecond line.\n\n\n   \nPara two."
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := doc.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l.FontSize != BodySize || l.Bold {
			t.Errorf("expected body line, got %+v", l)
		}
	}
}

func TestIsPlainHeading(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Introduction", true},
		{"3.2 Results", true},
		{"References:", true},
		{"2 Method.", false},
		{"Just a short line", false},
		{"12 apples were eaten", false},
	}
	for _, tc := range tests {
		if got := isPlainHeading(tc.text); got != tc.want {
			t.Errorf("isPlainHeading(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
