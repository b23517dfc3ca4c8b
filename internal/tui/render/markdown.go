package render

import (
	"fmt"
	"strings"

	"curriculum-cli/internal/curriculum"

	"github.com/charmbracelet/glamour"
)

// Markdown 使用 glamour 渲染 markdown；style 为空时按终端背景自动选择。
func Markdown(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// DetailMarkdown 描述一条提交记录的 PDF。
func DetailMarkdown(d curriculum.Detail) string {
	var b strings.Builder
	title := strings.TrimSpace(d.PDF.Title)
	if title == "" {
		title = d.ID
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	if url := strings.TrimSpace(d.PDF.URL); url != "" {
		fmt.Fprintf(&b, "[%s](%s)\n", url, url)
	}
	return b.String()
}
