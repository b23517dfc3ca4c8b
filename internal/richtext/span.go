package richtext

import "strings"

// SpanKind is the type of a rich-text span.
type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanBold
	SpanLineBreak
)

func (k SpanKind) String() string {
	switch k {
	case SpanPlain:
		return "plain"
	case SpanBold:
		return "bold"
	case SpanLineBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Span is one typed run of text. LineBreak spans carry no text.
type Span struct {
	Kind SpanKind
	Text string
}

// Spans is an ordered rich-text document.
type Spans []Span

// Parse reads a FormattedResponse. Markup other than the three markers is kept
// as literal text; an unclosed <b> runs to the end.
func Parse(formatted string) Spans {
	var d Decoder
	out := d.Feed(formatted)
	return append(out, d.Flush()...).Merge()
}

// Merge coalesces adjacent text spans of the same kind and drops empty ones.
func (s Spans) Merge() Spans {
	out := make(Spans, 0, len(s))
	for _, sp := range s {
		if sp.Kind != SpanLineBreak && sp.Text == "" {
			continue
		}
		if n := len(out); n > 0 && sp.Kind != SpanLineBreak && out[n-1].Kind == sp.Kind {
			out[n-1].Text += sp.Text
			continue
		}
		out = append(out, sp)
	}
	return out
}

// HTML re-emits canonical markup.
func (s Spans) HTML() string {
	var b strings.Builder
	for _, sp := range s {
		switch sp.Kind {
		case SpanBold:
			b.WriteString(BoldOpen + sp.Text + BoldClose)
		case SpanLineBreak:
			b.WriteString(LineBreak)
		default:
			b.WriteString(sp.Text)
		}
	}
	return b.String()
}

// Plain drops styling and turns breaks into newlines.
func (s Spans) Plain() string {
	var b strings.Builder
	for _, sp := range s {
		if sp.Kind == SpanLineBreak {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Lines splits the document at line breaks. An empty document has one empty
// line.
func (s Spans) Lines() []Spans {
	lines := []Spans{{}}
	for _, sp := range s {
		if sp.Kind == SpanLineBreak {
			lines = append(lines, Spans{})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], sp)
	}
	return lines
}
