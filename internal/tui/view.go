package tui

import (
	"fmt"
	"strings"

	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/generation"
	"curriculum-cli/internal/history"
	"curriculum-cli/internal/i18n"
	"curriculum-cli/internal/tui/render"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent     = lipgloss.Color("#7D56F4")
	muted      = lipgloss.Color("#7D7A85")
	border     = lipgloss.Color("#5E6472")
	errorColor = lipgloss.Color("#E06C75")

	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)

// 固定区域高度：banner(4) + tabs(1) + 面板边框(2) + 输入(3) + 建议(1) + 状态(1) + 提示(1)。
const chromeHeight = 13

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	bodyHeight := max(3, height-chromeHeight)
	m.viewport.Resize(max(20, width-4), bodyHeight)
	m.topic.Width = max(10, width-24)
	m.dirty = true
}

// flush 将槽位或历史列表重新渲染进视口。
func (m *Model) flush() {
	m.dirty = false
	if m.tab == tabHistory {
		m.viewport.SetLines(m.renderHistoryLines())
		return
	}
	m.viewport.SetLines(m.renderSlotLines())
}

func (m *Model) renderSlotLines() []string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	lines := []string{}
	kind := m.tab.kind()
	for _, sv := range m.slots {
		if sv.kind != kind {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, promptStyle.Render("▸ "+sv.prompt))
		switch {
		case sv.failed:
			lines = append(lines, errorStyle.Render(sv.text))
		case sv.status == generation.StatusPending:
			lines = append(lines, mutedStyle.Render(m.spin.View()+" generating…"))
		default:
			lines = append(lines, render.Rich(sv.text, width)...)
		}
	}
	if len(lines) == 0 {
		hint := "Enter a topic and a count, then press Enter."
		if kind == curriculum.KindProject {
			hint = "Enter a topic to generate project ideas."
		}
		return []string{mutedStyle.Render(hint)}
	}
	return lines
}

func (m *Model) renderHistoryLines() []string {
	if m.loadingHistory && !m.historyLoaded {
		return []string{mutedStyle.Render(m.spin.View() + " loading history…")}
	}
	if len(m.filtered) == 0 {
		return []string{mutedStyle.Render(noHistoryText(m))}
	}
	lines := make([]string, 0, len(m.filtered))
	for i, idx := range m.filtered {
		rec := m.records[idx]
		when := ""
		if !rec.CreatedAt.IsZero() {
			when = rec.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		row := fmt.Sprintf("%-16s  %s", when, rec.Topic)
		if i == m.selected {
			lines = append(lines, selectedStyle.Render("› "+row))
			continue
		}
		lines = append(lines, "  "+row)
	}
	return lines
}

func noHistoryText(m *Model) string {
	if len(m.records) > 0 {
		return "no topic matches the filter"
	}
	return i18n.Text(m.lang, i18n.MsgNoHistory)
}

func (m *Model) View() string {
	banner := renderBanner(m.user, m.baseURL, m.width)
	tabs := renderTabs(m.tab, m.width)
	body := renderPane(m.viewport.View(), m.width, m.viewport.Height)
	inputs := m.renderInputs()
	suggest := m.renderSuggestions()
	status := m.statusLine()
	hints := renderHints(m.tab, m.width)
	content := lipgloss.JoinVertical(lipgloss.Left, banner, tabs, body, inputs, suggest, status, hints)

	if m.loadingDetail {
		return lipgloss.JoinVertical(lipgloss.Left, content, modalStyle.Render(m.spin.View()+" loading detail…"))
	}
	if m.detail != nil {
		help := mutedStyle.Render("[y] copy URL • [esc] close")
		return lipgloss.JoinVertical(lipgloss.Left, content, modalStyle.Render(m.detailText+"\n"+help))
	}
	return content
}

func (m *Model) renderInputs() string {
	if m.tab == tabHistory {
		return renderPane(m.topic.View(), m.width, 1)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, m.topic.View(), "   ", m.count.View())
	return renderPane(row, m.width, 1)
}

func (m *Model) renderSuggestions() string {
	if m.tab == tabHistory || m.focus != 0 {
		return ""
	}
	sugg := m.assist.Suggest(m.topic.Value())
	if len(sugg) == 0 {
		return ""
	}
	return mutedStyle.Render("  tab ⇥ " + strings.Join(sugg, " · "))
}

func (m *Model) statusLine() string {
	parts := []string{}
	if m.pending > 0 {
		parts = append(parts, fmt.Sprintf("%s generating %d", m.spin.View(), m.pending))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	line := mutedStyle.Padding(0, 1).Render(strings.Join(parts, " • "))
	if m.err != "" {
		line = errorStyle.Padding(0, 1).Render(m.err)
	}
	return line
}

func renderBanner(user, baseURL string, width int) string {
	title := promptStyle.Render(">_ Curriculum")
	info := []string{}
	if user != "" {
		info = append(info, user)
	}
	if baseURL != "" {
		info = append(info, baseURL)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(max(40, width-2)).
		Render(title + "\n" + mutedStyle.Render(strings.Join(info, " • ")))
}

func renderTabs(active tab, width int) string {
	parts := make([]string, 0, tabCount)
	for t := tabMCQ; t < tabCount; t++ {
		label := fmt.Sprintf(" F%d %s ", int(t)+1, t.title())
		if t == active {
			parts = append(parts, selectedStyle.Underline(true).Render(label))
			continue
		}
		parts = append(parts, mutedStyle.Render(label))
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(parts, " "))
}

func renderPane(body string, width, height int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(max(20, width-2))
	}
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(body)
}

func renderHints(t tab, width int) string {
	hint := "Enter 提交 • Tab 建议/切换 • ↑/↓ 历史主题 • Ctrl+R 重放 • Ctrl+L 清空 • F1-F3 切换页签 • Esc 退出"
	if t == tabHistory {
		hint = "↑/↓ 选择 • Enter 详情 • Ctrl+R 刷新 • 输入以过滤 • F1-F3 切换页签 • Esc 退出"
	}
	return mutedStyle.Padding(0, 1).Width(max(20, width)).Render(hint)
}

// filterRecords 按主题模糊过滤，空查询保留原顺序（最新在前）。
func filterRecords(query string, recs []curriculum.RequestRecord) []int {
	return history.Filter(query, len(recs), func(i int) string { return recs[i].Topic })
}
