// Package widgettui hosts the chat timeline in a bubbletea terminal program.
package widgettui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tOgg1/chatline/internal/config"
	"github.com/tOgg1/chatline/internal/history"
	"github.com/tOgg1/chatline/internal/logging"
	"github.com/tOgg1/chatline/internal/models"
	"github.com/tOgg1/chatline/internal/timeline"
	"github.com/tOgg1/chatline/internal/widgettui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// chromeRows is header (2) + typing line + input + footer. Quick buttons
	// take one more row while offered.
	chromeRows = 5

	wheelStep = 3
)

// Options configures a Model.
type Options struct {
	Config   *config.Config
	Archive  *history.Archive
	Recorder timeline.Recorder
	Session  *config.SessionStore
	Theme    string
}

// olderPageMsg carries a page fetched by the history loader.
type olderPageMsg struct {
	page history.Page
}

// hostReplyMsg asks the host to answer a submitted prompt.
type hostReplyMsg struct {
	prompt string
}

// Model is the bubbletea model for the chat widget.
type Model struct {
	cfg      config.WidgetConfig
	widget   *timeline.Widget
	feed     *historyFeed
	delegate *termDelegate
	session  *config.SessionStore
	theme    styles.Theme
	logger   zerolog.Logger

	viewport viewport.Model
	input    textinput.Model

	// hostMsgs carries loader results onto the program goroutine.
	hostMsgs chan tea.Msg
	// outbox holds prompts submitted during the current update.
	outbox []string
	// quickFocus is the selected quick button, -1 for none.
	quickFocus int

	width  int
	height int
}

// NewModel builds the widget, loads the newest archived page and restores
// the saved session.
func NewModel(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Archive == nil {
		return nil, fmt.Errorf("history archive is required")
	}

	theme := styles.Lookup(opts.Theme)
	m := &Model{
		cfg:      cfg.Widget,
		feed:     newHistoryFeed(opts.Archive, cfg.Pagination.PageSize),
		delegate: newTermDelegate(theme, cfg.Widget.ShowTimestamp),
		session:  opts.Session,
		theme:    theme,
		logger:   logging.Component("widgettui"),
		viewport: viewport.New(defaultWidth, defaultHeight-chromeRows),
		input:    textinput.New(),
		hostMsgs:   make(chan tea.Msg, 4),
		quickFocus: -1,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.input.Placeholder = cfg.Widget.SenderPlaceholder
	m.input.Prompt = "› "
	m.input.CharLimit = 2000
	m.input.Width = defaultWidth - 4

	open := cfg.Widget.OpenOnStart
	var restoredBadge int
	if m.session != nil {
		session, ok, err := m.session.Load()
		if err != nil {
			m.logger.Warn().Err(err).Msg("ignoring unreadable session")
		} else if ok {
			open = session.Open
			restoredBadge = session.BadgeCount
		}
	}

	widget, err := timeline.NewWidget(timeline.Options{
		ID:             "terminal",
		Surface:        viewportSurface{vp: &m.viewport},
		Layout:         m.layout,
		Loader:         m.loadOlder,
		LoadTimeout:    cfg.Pagination.LoadTimeout,
		NewUserMessage: m.acceptPrompt,
		SubmitGate:     m.handleCommand,
		OnToggle:       m.onToggle,
		Open:           open,
		Recorder:       opts.Recorder,

		QuickButtonClicked: m.onQuickButton,
	})
	if err != nil {
		return nil, err
	}
	if err := widget.Start(); err != nil {
		return nil, err
	}
	m.widget = widget
	m.onToggle(open)

	page, err := m.feed.first(context.Background())
	if err != nil {
		_ = widget.Shutdown()
		return nil, err
	}
	for _, msg := range page.Messages {
		widget.AppendNew(msg)
	}
	if !open && restoredBadge > widget.BadgeCount() {
		widget.SetBadgeCount(restoredBadge)
	}
	return m, nil
}

// Widget exposes the timeline widget.
func (m *Model) Widget() *timeline.Widget {
	return m.widget
}

// Close saves the session and releases the widget.
func (m *Model) Close() error {
	if m.session != nil {
		if err := m.session.Save(&config.Session{
			Open:       m.widget.IsOpen(),
			BadgeCount: m.widget.BadgeCount(),
		}); err != nil {
			m.logger.Warn().Err(err).Msg("failed to save session")
		}
	}
	return m.widget.Shutdown()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForHost(m.hostMsgs))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
	case olderPageMsg:
		m.applyOlderPage(typed.page)
		cmd = waitForHost(m.hostMsgs)
	case hostReplyMsg:
		m.reply(typed.prompt)
	case tea.MouseMsg:
		if m.widget.IsOpen() {
			switch typed.Button {
			case tea.MouseButtonWheelUp:
				m.scrollBy(-wheelStep)
			case tea.MouseButtonWheelDown:
				m.scrollBy(wheelStep)
			}
		}
	case tea.KeyMsg:
		cmd = m.handleKey(typed)
	}
	m.fitViewport()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+o":
		m.widget.Toggle()
		return nil
	}
	if !m.widget.IsOpen() {
		return nil
	}

	switch msg.String() {
	case "up":
		m.scrollBy(-1)
	case "down":
		m.scrollBy(1)
	case "pgup":
		m.scrollBy(-m.viewport.Height)
	case "pgdown":
		m.scrollBy(m.viewport.Height)
	case "home":
		m.scrollBy(-m.viewport.TotalLineCount())
	case "end":
		m.scrollBy(m.viewport.TotalLineCount())
	case "tab":
		m.moveQuickFocus(1)
	case "shift+tab":
		m.moveQuickFocus(-1)
	case "esc":
		m.quickFocus = -1
	case "ctrl+l":
		m.widget.ToggleInputDisabled()
		m.syncInputFocus()
	case "enter":
		if m.quickFocus >= 0 {
			index := m.quickFocus
			m.quickFocus = -1
			m.widget.ClickQuickButton(index)
			return nil
		}
		value := m.input.Value()
		if m.widget.InputDisabled() {
			return nil
		}
		m.widget.Submit(value)
		if strings.TrimSpace(value) != "" {
			m.input.Reset()
		}
		return m.flushOutbox()
	default:
		if m.widget.InputDisabled() {
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

// moveQuickFocus cycles the selected quick button by step.
func (m *Model) moveQuickFocus(step int) {
	n := len(m.widget.QuickButtons())
	if n == 0 {
		m.quickFocus = -1
		return
	}
	if m.quickFocus < 0 {
		if step > 0 {
			m.quickFocus = 0
		} else {
			m.quickFocus = n - 1
		}
		return
	}
	m.quickFocus = ((m.quickFocus+step)%n + n) % n
}

// scrollBy moves the viewport as the user and reports the new position.
func (m *Model) scrollBy(delta int) {
	m.viewport.SetYOffset(m.viewport.YOffset + delta)
	m.widget.UserScrolled()
	m.refreshSentinel()
}

func (m *Model) resize(width, height int) {
	m.width = maxInt(20, width)
	m.height = maxInt(chromeRows+3, height)
	m.viewport.Width = m.width
	m.viewport.Height = m.height - m.chromeHeight()
	m.input.Width = m.width - 4
	m.delegate.width = m.width - 2

	wasAtBottom := m.widget.AtBottom()
	m.viewport.SetContent(m.renderContent(m.widget.Snapshot()))
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) onToggle(open bool) {
	m.syncInputFocus()
}

// syncInputFocus focuses the input only while the widget is open and the
// input accepts submissions.
func (m *Model) syncInputFocus() {
	if m.widget != nil && m.widget.IsOpen() && !m.widget.InputDisabled() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) chromeHeight() int {
	if m.widget != nil && len(m.widget.QuickButtons()) > 0 {
		return chromeRows + 1
	}
	return chromeRows
}

// fitViewport gives the timeline whatever rows the chrome leaves, keeping
// the tail in view when the reader follows it.
func (m *Model) fitViewport() {
	if m.quickFocus >= len(m.widget.QuickButtons()) {
		m.quickFocus = -1
	}
	height := m.height - m.chromeHeight()
	if m.viewport.Height == height {
		return
	}
	m.viewport.Height = height
	if m.widget.AtBottom() {
		m.viewport.GotoBottom()
	}
}

// layout re-renders the timeline after every Store change. It is registered
// ahead of the scroll anchor so the anchor measures the new content.
func (m *Model) layout(change models.Change) {
	m.viewport.SetContent(m.renderContent(change.After))
}

func (m *Model) refreshSentinel() {
	m.viewport.SetContent(m.renderContent(m.widget.Snapshot()))
}

func (m *Model) renderContent(snap models.Snapshot) string {
	parts := make([]string, 0, snap.Len()+1)
	parts = append(parts, m.delegate.styles.RenderSentinel(m.sentinelLabel(), m.delegate.width))
	for _, block := range timeline.RenderAll(m.delegate, snap.Messages) {
		parts = append(parts, strings.TrimSuffix(block, "\n"))
		if strings.HasSuffix(block, "\n") {
			parts = append(parts, "")
		}
	}
	return strings.Join(parts, "\n")
}

func (m *Model) sentinelLabel() string {
	switch {
	case m.widget != nil && m.widget.Pager().State() == timeline.StateLoadingOlder:
		return "Loading earlier messages…"
	case m.feed.hasMore():
		return "↑ Scroll up for earlier messages"
	default:
		return "Beginning of conversation"
	}
}

// loadOlder runs on the pager's goroutine. It only reads the archive and
// hands the page to the program; the Store is mutated in Update.
func (m *Model) loadOlder(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	page, err := m.feed.next(ctx)
	if err != nil {
		return err
	}
	if len(page.Messages) == 0 {
		logger.Debug().Msg("archive exhausted")
		return nil
	}
	logger.Debug().Int("messages", len(page.Messages)).Str("oldest", page.Oldest()).Msg("older page fetched")
	select {
	case m.hostMsgs <- olderPageMsg{page: page}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Model) applyOlderPage(page history.Page) {
	// AppendOld prepends, so walk newest to oldest to keep conversation order.
	for i := len(page.Messages) - 1; i >= 0; i-- {
		m.widget.AppendOld(page.Messages[i])
	}
	m.feed.advance(page)
	m.refreshSentinel()
	m.logger.Debug().Int("messages", len(page.Messages)).Bool("has_more", page.HasMore).Msg("older page applied")
}

func (m *Model) flushOutbox() tea.Cmd {
	if len(m.outbox) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.outbox))
	for _, prompt := range m.outbox {
		prompt := prompt
		cmds = append(cmds, tea.Tick(m.cfg.ResponseDelay, func(time.Time) tea.Msg {
			return hostReplyMsg{prompt: prompt}
		}))
	}
	m.outbox = nil
	return tea.Batch(cmds...)
}

func waitForHost(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
