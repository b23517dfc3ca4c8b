package render

import (
	"curriculum-cli/internal/richtext"

	"github.com/charmbracelet/lipgloss"
)

// BoldStyle 用于 <b> 段。
var BoldStyle = lipgloss.NewStyle().Bold(true)

// RichLines 将富文本按 <br/> 拆成行，<b> 段使用 BoldStyle。
func RichLines(spans richtext.Spans) []Line {
	docLines := spans.Lines()
	out := make([]Line, 0, len(docLines))
	for _, dl := range docLines {
		line := Line{Spans: make([]Span, 0, len(dl))}
		for _, sp := range dl {
			s := Span{Text: sp.Text}
			if sp.Kind == richtext.SpanBold {
				s.Style = BoldStyle
			}
			line.Spans = append(line.Spans, s)
		}
		out = append(out, line)
	}
	return out
}

// Rich 渲染 FormattedResponse 为折行后的终端字符串。
func Rich(formatted string, width int) []string {
	return LinesToStrings(WrapLines(RichLines(richtext.Parse(formatted)), width))
}
