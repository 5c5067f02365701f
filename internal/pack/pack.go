package pack

import "time"

// Line is one extracted run of text with its font signature.
type Line struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	Bold     bool    `json:"bold"`
	Page     int     `json:"page"` // 1-based
}

// Document is what a parser hands to the structuring pipeline.
type Document struct {
	Filename  string
	PageCount int
	Pages     [][]Line // Pages[i] holds the lines of page i+1 in reading order
}

// Lines flattens all pages in order.
func (d *Document) Lines() []Line {
	var out []Line
	for _, p := range d.Pages {
		out = append(out, p...)
	}
	return out
}

// Kind classifies a section for playback filtering.
type Kind string

const (
	KindBody         Kind = "body"
	KindBibliography Kind = "bibliography"
	KindAppendix     Kind = "appendix"
	KindSummary      Kind = "summary" // reserved, never produced by the classifier
)

// Paragraph is a merged block of lines sharing one font signature.
type Paragraph struct {
	Text     string
	FontSize float64
	Bold     bool
	Page     int
	Heading  bool
	Kind     Kind
}

// Pack is the structured reading record produced for one document.
type Pack struct {
	ID        string     `json:"id"`
	Meta      Meta       `json:"meta"`
	Sections  []Section  `json:"sections"`
	Sentences []Sentence `json:"sentences"`
	Figures   []Figure   `json:"figures"`
	Source    Source     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}

// Meta is the title/author/date record of a document.
type Meta struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Date    string   `json:"date,omitempty"`
}

// UntitledTitle is used when no title could be recovered.
const UntitledTitle = "Untitled"

// Section is an ordered run of sentences under one heading.
type Section struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Kind              Kind     `json:"kind"`
	SentenceIDs       []string `json:"sentence_ids"`
	IncludedByDefault bool     `json:"included_by_default"`
}

// Sentence is the unit of narration.
type Sentence struct {
	ID         string   `json:"id"`
	SectionID  string   `json:"section_id"`
	Text       string   `json:"text"`
	FigureRefs []string `json:"figure_refs,omitempty"`
}

// Figure is a recovered caption. ImageRef is always empty; images are not extracted.
type Figure struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Caption  string `json:"caption"`
	ImageRef string `json:"image_ref"`
}

// Source records where a pack came from.
type Source struct {
	Filename string `json:"filename"`
	Hash     string `json:"hash,omitempty"`
	Pages    int    `json:"pages"`
}

// Section returns the section with the given id.
func (p *Pack) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// SentenceIndex maps sentence ids to their position in Sentences.
func (p *Pack) SentenceIndex() map[string]int {
	idx := make(map[string]int, len(p.Sentences))
	for i, s := range p.Sentences {
		idx[s.ID] = i
	}
	return idx
}

// Figure looks up a figure by label. Duplicate labels resolve to the first one.
func (p *Pack) Figure(label string) (Figure, bool) {
	for _, f := range p.Figures {
		if f.Label == label {
			return f, true
		}
	}
	return Figure{}, false
}

// Summary is the library listing view of a pack.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Date      string    `json:"date,omitempty"`
	Filename  string    `json:"filename"`
	Sections  int       `json:"sections"`
	Sentences int       `json:"sentences"`
	CreatedAt time.Time `json:"created_at"`
}

// Summarize builds the listing view.
func (p *Pack) Summarize() Summary {
	authors := p.Meta.Authors
	if authors == nil {
		authors = []string{}
	}
	return Summary{
		ID:        p.ID,
		Title:     p.Meta.Title,
		Authors:   authors,
		Date:      p.Meta.Date,
		Filename:  p.Source.Filename,
		Sections:  len(p.Sections),
		Sentences: len(p.Sentences),
		CreatedAt: p.CreatedAt,
	}
}
