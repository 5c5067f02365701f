package structure

import (
	"regexp"
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

var caption = regexp.MustCompile(`(?i)\b(fig(?:ure|\.)?|table)\s*(\d+[a-z]?)\s*[:.]\s*(.+)`)

// ExtractFigures collects caption text from every paragraph, including
// those inside suppressed bibliography sections. Labels are normalized to
// "Figure N" or "Table N" so they line up with sentence figure references.
// Labels are not deduplicated.
func ExtractFigures(paragraphs []pack.Paragraph) []pack.Figure {
	figures := []pack.Figure{}
	for _, p := range paragraphs {
		m := caption.FindStringSubmatch(p.Text)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[3])
		if text == "" {
			continue
		}
		label := NormalizeLabel(m[1], m[2])
		figures = append(figures, pack.Figure{
			ID:      label,
			Label:   label,
			Caption: text,
		})
	}
	return figures
}

// NormalizeLabel turns "fig.", "FIGURE" or "table" plus a number into a
// canonical label.
func NormalizeLabel(prefix, number string) string {
	if strings.HasPrefix(strings.ToLower(prefix), "tab") {
		return "Table " + number
	}
	return "Figure " + number
}
