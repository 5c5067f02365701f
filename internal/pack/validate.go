package pack

import (
	"errors"
	"fmt"
	"strings"
)

var validKinds = map[Kind]bool{
	KindBody:         true,
	KindBibliography: true,
	KindAppendix:     true,
	KindSummary:      true,
}

// Validate checks the referential invariants of a pack. Figure references
// are allowed to dangle. All problems are joined into one error.
func Validate(p *Pack) error {
	if p == nil {
		return errors.New("nil pack")
	}
	var errs []error
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, errors.New("empty pack id"))
	}
	if strings.TrimSpace(p.Meta.Title) == "" {
		errs = append(errs, errors.New("empty title"))
	}

	sentences := make(map[string]Sentence, len(p.Sentences))
	for _, s := range p.Sentences {
		if _, dup := sentences[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate sentence id %q", s.ID))
			continue
		}
		sentences[s.ID] = s
	}

	sections := make(map[string]bool, len(p.Sections))
	for _, sec := range p.Sections {
		if sections[sec.ID] {
			errs = append(errs, fmt.Errorf("duplicate section id %q", sec.ID))
		}
		sections[sec.ID] = true
		if !validKinds[sec.Kind] {
			errs = append(errs, fmt.Errorf("section %q: unknown kind %q", sec.ID, sec.Kind))
		}
		for _, sid := range sec.SentenceIDs {
			s, ok := sentences[sid]
			if !ok {
				errs = append(errs, fmt.Errorf("section %q: unknown sentence %q", sec.ID, sid))
				continue
			}
			if s.SectionID != sec.ID {
				errs = append(errs, fmt.Errorf("sentence %q listed under %q but belongs to %q", sid, sec.ID, s.SectionID))
			}
		}
	}

	for _, s := range p.Sentences {
		if !sections[s.SectionID] {
			errs = append(errs, fmt.Errorf("sentence %q: unknown section %q", s.ID, s.SectionID))
		}
	}
	return errors.Join(errs...)
}
