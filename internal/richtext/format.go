// Package richtext turns the service's lightweight markup into a
// FormattedResponse and reads FormattedResponse back as typed spans.
//
// The markup emitted here is consumed by the terminal renderer only; it is not
// sanitized and must not be handed to an HTML renderer with untrusted input.
package richtext

import (
	"regexp"
	"strings"

	"curriculum-cli/internal/curriculum"
)

// Markers emitted by Format.
const (
	BoldOpen  = "<b>"
	BoldClose = "</b>"
	LineBreak = "<br/>"
)

var numberedItem = regexp.MustCompile(`\*\*\s*([0-9]+)\.`)

// Format converts raw service text into a FormattedResponse. It is a pure
// function of raw; output contains no asterisks and no newlines, so feeding the
// output back in returns it unchanged.
//
// Order matters: bold segments are wrapped before single asterisks become line
// breaks, otherwise every "**" would turn into two breaks.
func Format(raw curriculum.RawResponse) curriculum.FormattedResponse {
	parts := strings.Split(string(raw), "**")
	var b strings.Builder
	b.Grow(len(raw) + len(parts)*len(BoldOpen+BoldClose))
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString(BoldOpen)
			b.WriteString(part)
			b.WriteString(BoldClose)
			continue
		}
		b.WriteString(part)
	}

	out := strings.ReplaceAll(b.String(), "*", LineBreak)
	// Step 2 already consumed every asterisk; kept so a numbered item that
	// somehow survives still lands on its own line.
	out = numberedItem.ReplaceAllString(out, LineBreak+"$1.")
	out = strings.ReplaceAll(out, "\n\n", LineBreak+LineBreak)
	out = strings.ReplaceAll(out, "\n", LineBreak)
	return curriculum.FormattedResponse(out)
}

// FormatProjects renders project ideas into the same markup: a bold title
// (leading "## " dropped), the description, the URL, and a blank line between
// cards.
func FormatProjects(projects []curriculum.Project) curriculum.FormattedResponse {
	cards := make([]string, 0, len(projects))
	for _, p := range projects {
		title := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p.Title), "## "))
		title = strings.ReplaceAll(title, "*", "")
		var b strings.Builder
		b.WriteString(BoldOpen + title + BoldClose)
		if desc := strings.TrimSpace(p.Description); desc != "" {
			b.WriteString(LineBreak)
			b.WriteString(string(Format(curriculum.RawResponse(desc))))
		}
		if url := strings.TrimSpace(p.URL); url != "" {
			b.WriteString(LineBreak)
			b.WriteString(url)
		}
		cards = append(cards, b.String())
	}
	return curriculum.FormattedResponse(strings.Join(cards, LineBreak+LineBreak))
}
