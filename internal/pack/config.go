package pack

import (
	"encoding/json"
	"sort"
)

// Config is a per-document playback configuration.
type Config struct {
	DocumentID      string          `json:"document_id"`
	EnabledSections map[string]bool `json:"-"`
	IncludeAppendix bool            `json:"include_appendix"`
	IncludeSummary  bool            `json:"include_summary"`
}

// DefaultConfig enables every section that is included by default.
func DefaultConfig(p *Pack) Config {
	cfg := Config{
		DocumentID:      p.ID,
		EnabledSections: make(map[string]bool, len(p.Sections)),
	}
	for _, s := range p.Sections {
		if s.IncludedByDefault {
			cfg.EnabledSections[s.ID] = true
		}
	}
	return cfg
}

// Enabled reports whether a section id is in the enabled set.
func (c Config) Enabled(id string) bool {
	return c.EnabledSections[id]
}

// SectionIDs returns the enabled section ids sorted, for stable output.
func (c Config) SectionIDs() []string {
	ids := make([]string, 0, len(c.EnabledSections))
	for id, on := range c.EnabledSections {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// WithSections returns a copy of c whose enabled set is exactly ids.
func (c Config) WithSections(ids ...string) Config {
	out := c
	out.EnabledSections = make(map[string]bool, len(ids))
	for _, id := range ids {
		out.EnabledSections[id] = true
	}
	return out
}

type configJSON struct {
	DocumentID      string   `json:"document_id"`
	EnabledSections []string `json:"enabled_sections"`
	IncludeAppendix bool     `json:"include_appendix"`
	IncludeSummary  bool     `json:"include_summary"`
}

// MarshalJSON encodes the enabled set as a sorted array.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configJSON{
		DocumentID:      c.DocumentID,
		EnabledSections: c.SectionIDs(),
		IncludeAppendix: c.IncludeAppendix,
		IncludeSummary:  c.IncludeSummary,
	})
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Config{
		DocumentID:      raw.DocumentID,
		IncludeAppendix: raw.IncludeAppendix,
		IncludeSummary:  raw.IncludeSummary,
	}.WithSections(raw.EnabledSections...)
	return nil
}
