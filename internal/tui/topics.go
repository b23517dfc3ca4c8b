package tui

import (
	"strings"

	"curriculum-cli/internal/history"
)

const maxSuggestions = 3

// topicAssist 为主题输入框提供历史浏览（上下箭头）与模糊建议。
// known 按最近使用排序；cursor == -1 表示未在浏览历史。
type topicAssist struct {
	known  []string
	cursor int
	draft  string
}

func newTopicAssist(known []string) topicAssist {
	return topicAssist{known: append([]string(nil), known...), cursor: -1}
}

// Remember 将 topic 移到最前，大小写不敏感去重。
func (a *topicAssist) Remember(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return
	}
	out := make([]string, 0, len(a.known)+1)
	out = append(out, topic)
	for _, t := range a.known {
		if !strings.EqualFold(t, topic) {
			out = append(out, t)
		}
	}
	a.known = out
	a.Reset()
}

func (a *topicAssist) Reset() {
	a.cursor = -1
	a.draft = ""
}

func (a *topicAssist) Browsing() bool {
	return a.cursor >= 0
}

// Older 返回更早的主题；首次调用时保存当前输入。
func (a *topicAssist) Older(current string) (string, bool) {
	if len(a.known) == 0 {
		return "", false
	}
	if a.cursor < 0 {
		a.draft = current
	}
	if a.cursor < len(a.known)-1 {
		a.cursor++
	}
	return a.known[a.cursor], true
}

// Newer 向最近方向移动，越过最新一条时恢复草稿。
func (a *topicAssist) Newer() (string, bool) {
	if a.cursor < 0 {
		return "", false
	}
	a.cursor--
	if a.cursor < 0 {
		draft := a.draft
		a.draft = ""
		return draft, true
	}
	return a.known[a.cursor], true
}

// Suggest 返回与 query 模糊匹配的主题，不含与输入完全相同的项。
func (a *topicAssist) Suggest(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	out := []string{}
	for _, s := range history.Suggest(query, a.known, maxSuggestions+1) {
		if strings.EqualFold(s, query) {
			continue
		}
		out = append(out, s)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
