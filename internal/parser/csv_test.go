package parser

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dgallion1/papervox/internal/pack"
)

func TestCSVParser_HeaderReordersColumns(t *testing.T) {
	input := "page,text,font_size,bold\n1,Listening to Papers,18,true\n1,Body line,10,false\n3,Later page,10,\n"
	doc, err := (&CSVParser{}).Parse(strings.NewReader(input), "lines.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []pack.Line{
		{Text: "Listening to Papers", FontSize: 18, Bold: true, Page: 1},
		{Text: "Body line", FontSize: 10, Page: 1},
		{Text: "Later page", FontSize: 10, Page: 3},
	}
	if got := doc.Lines(); !slices.Equal(got, want) {
		t.Errorf("lines mismatch\n got: %+v\nwant: %+v", got, want)
	}
	if doc.PageCount != 3 || len(doc.Pages[1]) != 0 {
		t.Errorf("expected 3 pages with an empty second page, got %d", doc.PageCount)
	}
}

func TestCSVParser_Positional(t *testing.T) {
	input := "\"Hello, world\",11.5,true\nplain text only\n"
	doc, err := (&CSVParser{}).Parse(strings.NewReader(input), "lines.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []pack.Line{
		{Text: "Hello, world", FontSize: 11.5, Bold: true, Page: 1},
		{Text: "plain text only", FontSize: BodySize, Page: 1},
	}
	if got := doc.Lines(); !slices.Equal(got, want) {
		t.Errorf("lines mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestCSVParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad size", "text,font_size\nhello,big\n"},
		{"negative size", "hello,-1\n"},
		{"bad bold", "hello,10,maybe\n"},
		{"page goes back", "a,10,false,2\nb,10,false,1\n"},
		{"zero page", "a,10,false,0\n"},
		{"header without text", "font_size,page\n10,1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&CSVParser{}).Parse(strings.NewReader(tc.input), "bad.csv")
			if !errors.Is(err, pack.ErrInvalidDocument) {
				t.Errorf("expected invalid document, got %v", err)
			}
		})
	}
}
