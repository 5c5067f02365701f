package structure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

// Default section used for content that precedes the first heading.
const (
	DefaultSectionID    = "main"
	DefaultSectionTitle = "Main Content"
)

var headingNumber = regexp.MustCompile(`^\d+(\.\d+)*\s+`)

// Segmented is the output of Segment.
type Segmented struct {
	Sections  []pack.Section
	Sentences []pack.Sentence
}

type openSection struct {
	id, title string
	kind      pack.Kind
	sentences []string
}

// Segment walks paragraphs in order and groups sentences into sections.
// Everything before the first abstract or introduction paragraph is
// skipped as front matter. Sentences inside a bibliography are not
// extracted until an appendix heading ends it.
func Segment(paragraphs []pack.Paragraph, r *Rules) Segmented {
	var (
		out     Segmented
		current = openSection{id: DefaultSectionID, title: DefaultSectionTitle, kind: pack.KindBody}
		index   int
		inBib   bool
		started bool
	)

	closeSection := func() {
		if len(current.sentences) == 0 {
			return
		}
		out.Sections = append(out.Sections, pack.Section{
			ID:                current.id,
			Title:             current.title,
			Kind:              current.kind,
			SentenceIDs:       current.sentences,
			IncludedByDefault: current.kind == pack.KindBody,
		})
	}

	for _, p := range paragraphs {
		text := p.Text
		lower := strings.ToLower(text)

		if !started {
			if !r.startsContent(lower) {
				continue
			}
			started = true
		}

		if runeLen(text) < r.MinParagraphRunes {
			continue
		}
		if !inBib && hasAnyPrefix(lower, r.CaptionPrefixes...) {
			continue
		}

		if p.Heading {
			closeSection()
			switch p.Kind {
			case pack.KindBibliography:
				inBib = true
			case pack.KindAppendix:
				inBib = false
			}
			index++
			current = openSection{
				id:    fmt.Sprintf("sec%d", index),
				title: CleanHeading(text),
				kind:  p.Kind,
			}
			continue
		}
		if inBib {
			continue
		}

		for _, s := range SplitSentences(text, r.MergeBackRunes) {
			if runeLen(s) < r.MinSentenceRunes {
				continue
			}
			id := fmt.Sprintf("sent%d", len(out.Sentences))
			out.Sentences = append(out.Sentences, pack.Sentence{
				ID:         id,
				SectionID:  current.id,
				Text:       s,
				FigureRefs: FigureRefs(s),
			})
			current.sentences = append(current.sentences, id)
		}
	}
	closeSection()
	return out
}

func (r *Rules) startsContent(lower string) bool {
	return hasAnyPrefix(lower, "abstract", "introduction") || r.ContentStart.MatchString(lower)
}

// CleanHeading strips a leading section number and any colons.
func CleanHeading(text string) string {
	text = headingNumber.ReplaceAllString(text, "")
	return strings.TrimSpace(strings.ReplaceAll(text, ":", ""))
}
