package richtext

import "strings"

var markers = []string{BoldOpen, BoldClose, LineBreak, "<br>"}

// Decoder parses FormattedResponse incrementally. Bold state and any partial
// marker at the end of a chunk carry over to the next Feed, so feeding the
// playback tokens one by one yields the same document as Parse on the whole
// string (after Merge).
type Decoder struct {
	bold bool
	tail string
}

// Feed consumes chunk and returns the spans it completes.
func (d *Decoder) Feed(chunk string) Spans {
	s := d.tail + chunk
	d.tail = ""
	var out Spans
	var text strings.Builder
	flushText := func() {
		if text.Len() == 0 {
			return
		}
		kind := SpanPlain
		if d.bold {
			kind = SpanBold
		}
		out = append(out, Span{Kind: kind, Text: text.String()})
		text.Reset()
	}

	for len(s) > 0 {
		idx := strings.IndexByte(s, '<')
		if idx < 0 {
			text.WriteString(s)
			break
		}
		text.WriteString(s[:idx])
		s = s[idx:]

		marker, partial := matchMarker(s)
		switch {
		case marker != "":
			flushText()
			switch marker {
			case BoldOpen:
				d.bold = true
			case BoldClose:
				d.bold = false
			default:
				out = append(out, Span{Kind: SpanLineBreak})
			}
			s = s[len(marker):]
		case partial:
			// s is a proper prefix of a marker; wait for more input.
			d.tail = s
			s = ""
		default:
			text.WriteByte('<')
			s = s[1:]
		}
	}
	flushText()
	return out
}

// Flush returns any held partial marker as literal text.
func (d *Decoder) Flush() Spans {
	if d.tail == "" {
		return nil
	}
	kind := SpanPlain
	if d.bold {
		kind = SpanBold
	}
	tail := d.tail
	d.tail = ""
	return Spans{{Kind: kind, Text: tail}}
}

// Bold reports whether the decoder is inside a bold run.
func (d *Decoder) Bold() bool {
	return d.bold
}

func matchMarker(s string) (marker string, partial bool) {
	for _, m := range markers {
		if strings.HasPrefix(s, m) {
			return m, false
		}
		if len(s) < len(m) && strings.HasPrefix(m, s) {
			partial = true
		}
	}
	return "", partial
}
