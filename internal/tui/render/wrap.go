package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// word 是不含空白的一段，可能跨越多个样式 Span。
type word struct {
	segs  []Span
	width int
}

func (w *word) add(text string, sp Span) {
	w.segs = append(w.segs, Span{Text: text, Style: sp.Style})
	w.width += runewidth.StringWidth(text)
}

// wrapText 使用词级别换行，按显示宽度计算。
func wrapText(text string, width int) []string {
	lines := []string{}
	for _, raw := range strings.Split(text, "\n") {
		for _, l := range WrapLine(Line{Spans: []Span{{Text: raw}}}, width) {
			lines = append(lines, l.Plain())
		}
	}
	return lines
}

// WrapLine 按显示宽度折行，保留每个词的样式；连续空白折叠为一个空格。
func WrapLine(line Line, width int) []Line {
	if width <= 0 || lineWidth(line) <= width {
		return []Line{line}
	}
	out := []Line{}
	cur := Line{Style: line.Style}
	curW := 0
	flush := func() {
		out = append(out, cur)
		cur = Line{Style: line.Style}
		curW = 0
	}
	for _, w := range splitWords(line.Spans) {
		if curW > 0 && curW+1+w.width <= width {
			cur.Spans = append(cur.Spans, Span{Text: " "})
			cur.Spans = append(cur.Spans, w.segs...)
			curW += 1 + w.width
			continue
		}
		if curW > 0 {
			flush()
		}
		if w.width <= width {
			cur.Spans = append(cur.Spans, w.segs...)
			curW = w.width
			continue
		}
		pieces := breakLongWord(w, width)
		for _, p := range pieces[:len(pieces)-1] {
			out = append(out, Line{Spans: p.segs, Style: line.Style})
		}
		last := pieces[len(pieces)-1]
		cur.Spans = append(cur.Spans, last.segs...)
		curW = last.width
	}
	if curW > 0 || len(out) == 0 {
		out = append(out, cur)
	}
	return out
}

// WrapLines 对每一行调用 WrapLine。
func WrapLines(lines []Line, width int) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, WrapLine(l, width)...)
	}
	return out
}

func lineWidth(line Line) int {
	w := 0
	for _, sp := range line.Spans {
		w += runewidth.StringWidth(sp.Text)
	}
	return w
}

func splitWords(spans []Span) []word {
	var words []word
	var cur word
	for _, sp := range spans {
		start := -1
		for i, r := range sp.Text {
			if unicode.IsSpace(r) {
				if start >= 0 {
					cur.add(sp.Text[start:i], sp)
					start = -1
				}
				if len(cur.segs) > 0 {
					words = append(words, cur)
					cur = word{}
				}
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			cur.add(sp.Text[start:], sp)
		}
	}
	if len(cur.segs) > 0 {
		words = append(words, cur)
	}
	return words
}

// breakLongWord 按显示宽度切分超宽的词，宽字符不会被拆开。
func breakLongWord(w word, width int) []word {
	out := []word{}
	var cur word
	for _, seg := range w.segs {
		var b strings.Builder
		for _, r := range seg.Text {
			rw := runewidth.RuneWidth(r)
			if cur.width+runewidth.StringWidth(b.String())+rw > width && (cur.width > 0 || b.Len() > 0) {
				if b.Len() > 0 {
					cur.add(b.String(), seg)
					b.Reset()
				}
				out = append(out, cur)
				cur = word{}
			}
			b.WriteRune(r)
		}
		if b.Len() > 0 {
			cur.add(b.String(), seg)
		}
	}
	if len(cur.segs) > 0 || len(out) == 0 {
		out = append(out, cur)
	}
	return out
}
