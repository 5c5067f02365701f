package playback

import (
	"strings"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
)

// TokenKind identifies the three kinds of narration token.
type TokenKind string

const (
	TokenSilence  TokenKind = "silence"
	TokenHeading  TokenKind = "heading"
	TokenSentence TokenKind = "sentence"
)

// Token is one step of a narration sequence. Sentence is the index into
// Pack.Sentences for sentence tokens and -1 otherwise.
type Token struct {
	Kind       TokenKind     `json:"kind"`
	Text       string        `json:"text,omitempty"`
	SentenceID string        `json:"sentence_id,omitempty"`
	Sentence   int           `json:"sentence_index"`
	Silence    time.Duration `json:"silence_ns,omitempty"`
}

// Pauses inserted around announcements and section headings.
const (
	SilenceAfterMeta       = 400 * time.Millisecond
	SilenceBeforeHeading   = 300 * time.Millisecond
	SilenceAfterHeading    = 350 * time.Millisecond
	SilenceBeforeClosing   = 500 * time.Millisecond
	SilenceAfterConclusion = 500 * time.Millisecond
)

func silence(d time.Duration) Token {
	return Token{Kind: TokenSilence, Sentence: -1, Silence: d}
}

func heading(text string) Token {
	return Token{Kind: TokenHeading, Text: text, Sentence: -1}
}

// BuildSequence turns a pack and a playback configuration into the token
// list narrated by a Machine. Bibliography sections are never included;
// appendix and summary sections need their include flag as well as
// membership in the enabled set. The result depends only on its inputs.
func BuildSequence(p *pack.Pack, cfg pack.Config) []Token {
	seq := []Token{heading(Announcement(p.Meta)), silence(SilenceAfterMeta)}

	idx := p.SentenceIndex()
	for _, sec := range p.Sections {
		if !narrated(sec, cfg) {
			continue
		}
		seq = append(seq,
			silence(SilenceBeforeHeading),
			heading(sec.Title),
			silence(SilenceAfterHeading),
		)
		for _, id := range sec.SentenceIDs {
			i, ok := idx[id]
			if !ok {
				continue
			}
			seq = append(seq, Token{
				Kind:       TokenSentence,
				Text:       p.Sentences[i].Text,
				SentenceID: id,
				Sentence:   i,
			})
		}
	}

	return append(seq,
		silence(SilenceBeforeClosing),
		heading(Conclusion(p.Meta)),
		silence(SilenceAfterConclusion),
	)
}

func narrated(sec pack.Section, cfg pack.Config) bool {
	switch sec.Kind {
	case pack.KindBibliography:
		return false
	case pack.KindAppendix:
		if !cfg.IncludeAppendix {
			return false
		}
	case pack.KindSummary:
		if !cfg.IncludeSummary {
			return false
		}
	}
	return cfg.Enabled(sec.ID)
}

// Announcement is the opening line: "Title. By A and B. Published D".
// Authors are only read when there are one or two of them.
func Announcement(m pack.Meta) string {
	parts := []string{m.Title}
	if by := byline(m.Authors); by != "" {
		parts = append(parts, "By "+by)
	}
	if m.Date != "" {
		parts = append(parts, "Published "+m.Date)
	}
	return strings.Join(parts, ". ")
}

// Conclusion is the closing line: "We have now concluded Title by A and B".
func Conclusion(m pack.Meta) string {
	s := "We have now concluded " + m.Title
	if by := byline(m.Authors); by != "" {
		s += " by " + by
	}
	return s
}

func byline(authors []string) string {
	if len(authors) == 0 || len(authors) > 2 {
		return ""
	}
	return strings.Join(authors, " and ")
}

// SentenceCount returns the number of sentence tokens in seq.
func SentenceCount(seq []Token) int {
	n := 0
	for _, t := range seq {
		if t.Kind == TokenSentence {
			n++
		}
	}
	return n
}
