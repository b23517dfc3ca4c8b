package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"curriculum-cli/internal/client"
	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/events"
	"curriculum-cli/internal/generation"
	"curriculum-cli/internal/i18n"
	"curriculum-cli/internal/logger"
	"curriculum-cli/internal/playback"
	"curriculum-cli/internal/tui/render"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HistorySource 是远端提交历史的只读接口，由 *client.Client 实现。
type HistorySource interface {
	History(ctx context.Context) ([]curriculum.RequestRecord, error)
	Detail(ctx context.Context, id string) (curriculum.Detail, error)
}

type Options struct {
	Board  *generation.Board
	Bus    *events.Bus
	Player *playback.Player
	Remote HistorySource
	// Topics 为最近提交的主题，最新在前。
	Topics   []string
	Language i18n.Language
	User     string
	BaseURL  string
	// MarkdownStyle 传给 glamour；为空时自动检测终端背景。
	MarkdownStyle string
	// Copy 默认写系统剪贴板。
	Copy func(string) error
	Log  *logger.LogEntry
}

type tab int

const (
	tabMCQ tab = iota
	tabProjects
	tabHistory
	tabCount
)

func (t tab) title() string {
	switch t {
	case tabMCQ:
		return "MCQ"
	case tabProjects:
		return "Projects"
	default:
		return "History"
	}
}

func (t tab) kind() curriculum.Kind {
	if t == tabProjects {
		return curriculum.KindProject
	}
	return curriculum.KindMCQ
}

type slotReadyMsg struct {
	Slot generation.Slot
}

type tokenMsg struct {
	Index int
	Seq   int
	Token string
}

type playbackDoneMsg struct {
	Index int
	Seq   int
}

type busEventMsg struct {
	Event events.Event
}

type historyLoadedMsg struct {
	Records []curriculum.RequestRecord
	Err     error
}

type detailLoadedMsg struct {
	Detail curriculum.Detail
	Err    error
}

type statusMsg struct {
	Text string
}

// slotView 是一个请求槽位在界面上的状态；seq 区分同一槽位的多次播放。
type slotView struct {
	index   int
	id      string
	kind    curriculum.Kind
	prompt  string
	status  generation.Status
	text    string
	failed  bool
	playing bool
	seq     int
	handle  *playback.Handle
	cancel  context.CancelFunc
	tokens  <-chan string
}

// stop 同步取消当前播放：返回后不会再有 token 写入。
func (s *slotView) stop() {
	if s.handle != nil {
		s.handle.Cancel()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.handle = nil
	s.cancel = nil
	s.tokens = nil
	s.playing = false
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	board    *generation.Board
	player   *playback.Player
	remote   HistorySource
	eventsCh <-chan events.Event
	lang     i18n.Language
	user     string
	baseURL  string
	mdStyle  string
	copy     func(string) error
	log      *logger.LogEntry

	tab      tab
	topic    textinput.Model
	count    textinput.Model
	focus    int
	assist   topicAssist
	viewport render.Viewport
	spin     spinner.Model

	slots   []*slotView
	pending int
	status  string
	err     string

	records        []curriculum.RequestRecord
	filtered       []int
	selected       int
	historyLoaded  bool
	loadingHistory bool
	detail         *curriculum.Detail
	detailText     string
	loadingDetail  bool

	width  int
	height int
	dirty  bool
}

func New(opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	topic := textinput.New()
	topic.Prompt = "Topic › "
	topic.CharLimit = 120
	topic.Width = 50
	topic.Focus()

	count := textinput.New()
	count.Prompt = "Count › "
	count.CharLimit = 2
	count.Width = 4
	count.SetValue("3")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(accent)

	player := opts.Player
	if player == nil {
		player = playback.New(playback.Options{})
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	log := opts.Log
	if log == nil {
		log = logger.Named("tui")
	}

	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		board:    opts.Board,
		player:   player,
		remote:   opts.Remote,
		lang:     i18n.Normalize(string(opts.Language)),
		user:     opts.User,
		baseURL:  opts.BaseURL,
		mdStyle:  opts.MarkdownStyle,
		copy:     copyFn,
		log:      log,
		topic:    topic,
		count:    count,
		assist:   newTopicAssist(opts.Topics),
		viewport: render.NewViewport(90, 14),
		spin:     spin,
		width:    90,
		height:   30,
		dirty:    true,
	}
	if opts.Bus != nil {
		m.eventsCh = opts.Bus.Subscribe()
	}
	m.applyTabPlaceholder()
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}
	if cmd := m.listenEvents(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Close 取消所有播放与进行中的请求。可重复调用。
func (m *Model) Close() {
	for _, s := range m.slots {
		s.stop()
	}
	m.cancel()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m.finish(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	case busEventMsg:
		m.handleBusEvent(msg.Event)
		if cmd := m.listenEvents(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m.finish(cmds...)
	case slotReadyMsg:
		cmds = append(cmds, m.handleSlotReady(msg))
		return m.finish(cmds...)
	case tokenMsg:
		cmds = append(cmds, m.handleToken(msg))
		return m.finish(cmds...)
	case playbackDoneMsg:
		m.handlePlaybackDone(msg)
		return m.finish(cmds...)
	case historyLoadedMsg:
		m.handleHistoryLoaded(msg)
		return m.finish(cmds...)
	case detailLoadedMsg:
		m.handleDetailLoaded(msg)
		return m.finish(cmds...)
	case statusMsg:
		m.status = msg.Text
		return m.finish(cmds...)
	case tea.MouseMsg:
		cmds = append(cmds, m.viewport.HandleUpdate(msg))
		return m.finish(cmds...)
	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		cmds = append(cmds, cmd)
		if handled {
			return m.finish(cmds...)
		}
	}

	cmds = append(cmds, m.updateInputs(msg))
	return m.finish(cmds...)
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	if m.dirty {
		m.flush()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.detail != nil || m.loadingDetail {
		switch msg.String() {
		case "y":
			return m.copyDetailURL(), true
		case "esc", "q", "enter":
			m.detail = nil
			m.detailText = ""
			m.loadingDetail = false
			return nil, true
		case "ctrl+c":
			m.Close()
			return tea.Quit, true
		}
		return nil, true
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		m.Close()
		return tea.Quit, true
	case "ctrl+right", "f4":
		return m.switchTab((m.tab + 1) % tabCount), true
	case "ctrl+left":
		return m.switchTab((m.tab + tabCount - 1) % tabCount), true
	case "f1":
		return m.switchTab(tabMCQ), true
	case "f2":
		return m.switchTab(tabProjects), true
	case "f3":
		return m.switchTab(tabHistory), true
	case "pgup":
		m.viewport.PageUp()
		return nil, true
	case "pgdown":
		m.viewport.PageDown()
		return nil, true
	}

	if m.tab == tabHistory {
		return m.handleHistoryKey(msg)
	}

	switch msg.String() {
	case "enter":
		return m.submit(), true
	case "tab":
		if m.focus == 0 {
			if sugg := m.assist.Suggest(m.topic.Value()); len(sugg) > 0 {
				m.topic.SetValue(sugg[0])
				m.topic.CursorEnd()
				return nil, true
			}
		}
		m.toggleFocus()
		return nil, true
	case "shift+tab":
		m.toggleFocus()
		return nil, true
	case "up":
		if m.focus == 0 {
			if v, ok := m.assist.Older(m.topic.Value()); ok {
				m.topic.SetValue(v)
				m.topic.CursorEnd()
			}
			return nil, true
		}
	case "down":
		if m.focus == 0 {
			if v, ok := m.assist.Newer(); ok {
				m.topic.SetValue(v)
				m.topic.CursorEnd()
			}
			return nil, true
		}
	case "ctrl+r":
		return m.replayLatest(), true
	case "ctrl+l":
		m.clearSlots()
		return nil, true
	}
	return nil, false
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == 0 {
		before := m.topic.Value()
		m.topic, cmd = m.topic.Update(msg)
		if m.topic.Value() != before {
			m.assist.Reset()
			if m.tab == tabHistory {
				m.refilter()
			}
		}
		return cmd
	}
	m.count, cmd = m.count.Update(msg)
	return cmd
}

func (m *Model) toggleFocus() {
	if m.tab == tabHistory || m.focus == 1 {
		m.focus = 0
		m.count.Blur()
		m.topic.Focus()
		return
	}
	m.focus = 1
	m.topic.Blur()
	m.count.Focus()
}

func (m *Model) switchTab(t tab) tea.Cmd {
	if t == m.tab {
		return nil
	}
	m.tab = t
	m.err = ""
	m.focus = 1
	m.toggleFocus()
	m.topic.SetValue("")
	m.assist.Reset()
	m.applyTabPlaceholder()
	m.dirty = true
	if t == tabHistory {
		if !m.historyLoaded && !m.loadingHistory {
			return m.loadHistory()
		}
		m.refilter()
	}
	return nil
}

func (m *Model) applyTabPlaceholder() {
	switch m.tab {
	case tabHistory:
		m.topic.Prompt = "Filter › "
		m.topic.Placeholder = "fuzzy filter by topic"
	case tabProjects:
		m.topic.Prompt = "Topic › "
		m.topic.Placeholder = i18n.Text(m.lang, i18n.MsgEmptyPrompt)
	default:
		m.topic.Prompt = "Topic › "
		m.topic.Placeholder = "e.g. Python loops"
	}
}

// submit 校验输入并提交新槽位，返回等待其结果的命令。
func (m *Model) submit() tea.Cmd {
	if m.board == nil {
		m.err = "generation is not configured"
		return nil
	}
	count, err := strconv.Atoi(strings.TrimSpace(m.count.Value()))
	if err != nil {
		count = 0
	}
	req := generation.Request{Kind: m.tab.kind(), Topic: m.topic.Value(), Count: count}
	slot, err := m.board.Submit(req)
	if err != nil {
		var verr *generation.ValidationError
		if errors.As(err, &verr) {
			m.err = verr.Message(m.lang)
		} else {
			m.err = err.Error()
		}
		return nil
	}
	m.err = ""
	m.status = ""
	m.assist.Remember(slot.Request.Topic)
	m.topic.SetValue("")
	m.slots = append(m.slots, &slotView{
		index:  slot.Index,
		id:     slot.ID,
		kind:   slot.Request.Kind,
		prompt: slot.Request.Prompt(m.lang),
		status: generation.StatusPending,
	})
	m.dirty = true
	m.viewport.GotoBottom()
	return m.fetchSlot(slot.Index)
}

func (m *Model) fetchSlot(index int) tea.Cmd {
	board := m.board
	ctx := m.ctx
	return func() tea.Msg {
		s, _ := board.Fetch(ctx, index)
		return slotReadyMsg{Slot: s}
	}
}

func (m *Model) slotAt(index int) *slotView {
	for _, s := range m.slots {
		if s.index == index {
			return s
		}
	}
	return nil
}

func (m *Model) handleSlotReady(msg slotReadyMsg) tea.Cmd {
	sv := m.slotAt(msg.Slot.Index)
	if sv == nil || sv.id != msg.Slot.ID {
		return nil
	}
	sv.status = msg.Slot.Status
	m.dirty = true
	if msg.Slot.Status == generation.StatusFailed {
		sv.stop()
		sv.failed = true
		sv.text = string(msg.Slot.Response)
		return nil
	}
	return m.startPlayback(sv, string(msg.Slot.Response))
}

// startPlayback 取消该槽位已有的播放，重新逐词播放 formatted。
// 通道容量等于 token 数，回调不会阻塞。
func (m *Model) startPlayback(sv *slotView, formatted string) tea.Cmd {
	sv.stop()
	sv.seq++
	sv.text = ""
	sv.playing = true

	ctx, cancel := context.WithCancel(m.ctx)
	ch := make(chan string, len(playback.Tokenize(formatted)))
	sv.cancel = cancel
	sv.tokens = ch
	sv.handle = m.player.Play(ctx, formatted, func(tok string) { ch <- tok })
	return m.nextToken(sv)
}

func listenTokens(index, seq int, ch <-chan string, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case tok := <-ch:
			return tokenMsg{Index: index, Seq: seq, Token: tok}
		case <-done:
			select {
			case tok := <-ch:
				return tokenMsg{Index: index, Seq: seq, Token: tok}
			default:
				return playbackDoneMsg{Index: index, Seq: seq}
			}
		}
	}
}

func (m *Model) handleToken(msg tokenMsg) tea.Cmd {
	sv := m.slotAt(msg.Index)
	if sv == nil || sv.seq != msg.Seq || sv.handle == nil {
		return nil
	}
	sv.text += msg.Token
	m.dirty = true
	return m.nextToken(sv)
}

func (m *Model) nextToken(sv *slotView) tea.Cmd {
	if sv.handle == nil || sv.tokens == nil {
		return nil
	}
	return listenTokens(sv.index, sv.seq, sv.tokens, sv.handle.Done())
}

func (m *Model) handlePlaybackDone(msg playbackDoneMsg) {
	sv := m.slotAt(msg.Index)
	if sv == nil || sv.seq != msg.Seq {
		return
	}
	sv.playing = false
	m.dirty = true
}

// replayLatest 重放当前页签最新槽位的缓存结果，不会重新请求。
func (m *Model) replayLatest() tea.Cmd {
	if m.board == nil {
		return nil
	}
	for i := len(m.slots) - 1; i >= 0; i-- {
		sv := m.slots[i]
		if sv.kind != m.tab.kind() || sv.failed {
			continue
		}
		resp, ok := m.board.Response(sv.index)
		if !ok {
			return nil
		}
		m.dirty = true
		return m.startPlayback(sv, string(resp))
	}
	return nil
}

// clearSlots 清空当前页签的槽位，并取消其播放。
func (m *Model) clearSlots() {
	kept := m.slots[:0]
	for _, s := range m.slots {
		if s.kind == m.tab.kind() {
			s.stop()
			continue
		}
		kept = append(kept, s)
	}
	m.slots = kept
	m.dirty = true
}

func (m *Model) listenEvents() tea.Cmd {
	if m.eventsCh == nil {
		return nil
	}
	ch := m.eventsCh
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg{Event: evt}
	}
}

func (m *Model) handleBusEvent(evt events.Event) {
	switch evt.Type {
	case events.SlotStarted:
		m.pending++
	case events.SlotFinished:
		m.pending = max(0, m.pending-1)
	case events.SlotFailed:
		m.pending = max(0, m.pending-1)
		m.log.WithField("slot", evt.SlotID).WithField("error", evt.Err).Debug("slot failed")
	}
}

func (m *Model) loadHistory() tea.Cmd {
	if m.remote == nil {
		m.err = "history is not configured"
		return nil
	}
	m.loadingHistory = true
	remote := m.remote
	ctx := m.ctx
	return func() tea.Msg {
		recs, err := remote.History(ctx)
		return historyLoadedMsg{Records: recs, Err: err}
	}
}

func (m *Model) handleHistoryLoaded(msg historyLoadedMsg) {
	m.loadingHistory = false
	if msg.Err != nil {
		m.err = client.UserMessage(msg.Err, m.lang)
		m.log.WithField("error", msg.Err).Warn("history load failed")
		return
	}
	m.err = ""
	m.historyLoaded = true
	m.records = msg.Records
	m.refilter()
}

func (m *Model) refilter() {
	recs := m.records
	m.filtered = filterRecords(m.topic.Value(), recs)
	if m.selected >= len(m.filtered) {
		m.selected = max(0, len(m.filtered)-1)
	}
	m.dirty = true
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "up":
		if m.selected > 0 {
			m.selected--
			m.dirty = true
		}
		return nil, true
	case "down":
		if m.selected < len(m.filtered)-1 {
			m.selected++
			m.dirty = true
		}
		return nil, true
	case "ctrl+r":
		if m.loadingHistory {
			return nil, true
		}
		return m.loadHistory(), true
	case "enter":
		return m.openDetail(), true
	}
	return nil, false
}

func (m *Model) selectedRecord() (curriculum.RequestRecord, bool) {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return curriculum.RequestRecord{}, false
	}
	return m.records[m.filtered[m.selected]], true
}

func (m *Model) openDetail() tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok || m.remote == nil {
		return nil
	}
	m.loadingDetail = true
	remote := m.remote
	ctx := m.ctx
	return func() tea.Msg {
		d, err := remote.Detail(ctx, rec.ID)
		return detailLoadedMsg{Detail: d, Err: err}
	}
}

func (m *Model) handleDetailLoaded(msg detailLoadedMsg) {
	if !m.loadingDetail {
		return
	}
	m.loadingDetail = false
	if msg.Err != nil {
		m.err = client.UserMessage(msg.Err, m.lang)
		return
	}
	d := msg.Detail
	m.detail = &d
	md := render.DetailMarkdown(d)
	text, err := render.Markdown(md, max(20, m.width-8), m.mdStyle)
	if err != nil {
		m.log.WithField("error", err).Warn("markdown render failed")
		text = md
	}
	m.detailText = text
}

func (m *Model) copyDetailURL() tea.Cmd {
	if m.detail == nil || strings.TrimSpace(m.detail.PDF.URL) == "" {
		return nil
	}
	url := m.detail.PDF.URL
	copyFn := m.copy
	return func() tea.Msg {
		if err := copyFn(url); err != nil {
			return statusMsg{Text: fmt.Sprintf("copy failed: %v", err)}
		}
		return statusMsg{Text: "copied " + url}
	}
}
