// Package markdown implements the lossless split/join codec between a flat
// document and an ordered list of independently editable sections.
//
// A section boundary is any line beginning with "## " (a level-2 heading).
// Deeper headings stay inside the current section's body. Text before the
// first boundary becomes a section with the sentinel heading "Intro".
package markdown

import (
	"strings"

	"github.com/google/uuid"
)

// IntroHeading is the sentinel heading for leading un-headed text.
const IntroHeading = "Intro"

// Section is one editor-level unit of a document. IDs are opaque, freshly
// generated per Split call, and exist only to keep editor UI state stable —
// they carry no persistent identity.
type Section struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// FullText returns the section as it appears in the joined document.
func (s Section) FullText() string {
	if s.Heading == IntroHeading {
		return s.Body
	}
	return "## " + s.Heading + "\n\n" + s.Body
}

// Split breaks a markdown document into H2-delimited sections.
// Per-section bodies are trimmed of leading/trailing whitespace; this is the
// codec's only lossy normalization. Empty input yields an empty list.
func Split(doc string) []Section {
	if doc == "" {
		return nil
	}

	var sections []Section
	heading := IntroHeading
	var buf []string

	flush := func() {
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		// An empty Intro is noise, not content. Named sections keep their
		// heading even with an empty body.
		if heading == IntroHeading && body == "" {
			return
		}
		sections = append(sections, Section{
			ID:      uuid.NewString(),
			Heading: heading,
			Body:    body,
		})
	}

	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			heading = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			buf = buf[:0]
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return sections
}

// Join reassembles sections into a single markdown document.
// Join(Split(d)) reproduces d up to per-section whitespace trimming.
func Join(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.FullText())
	}
	return strings.Join(parts, "\n\n")
}
