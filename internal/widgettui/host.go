package widgettui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tOgg1/chatline/internal/history"
	"github.com/tOgg1/chatline/internal/models"
	"github.com/tOgg1/chatline/internal/timeline"
)

// historyFeed pages backwards through the archive. The cursor is read on
// the loader goroutine and advanced on the program goroutine.
type historyFeed struct {
	archive  *history.Archive
	pageSize int

	mu     sync.Mutex
	cursor string
	more   bool
}

func newHistoryFeed(archive *history.Archive, pageSize int) *historyFeed {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &historyFeed{archive: archive, pageSize: pageSize}
}

// first returns the newest page and positions the cursor before it.
func (f *historyFeed) first(ctx context.Context) (history.Page, error) {
	page, err := f.archive.Before(ctx, "", f.pageSize)
	if err != nil {
		return history.Page{}, fmt.Errorf("failed to load recent history: %w", err)
	}
	f.advance(page)
	return page, nil
}

// next fetches the page before the cursor. An exhausted archive yields an
// empty page.
func (f *historyFeed) next(ctx context.Context) (history.Page, error) {
	f.mu.Lock()
	cursor, more := f.cursor, f.more
	f.mu.Unlock()
	if !more {
		return history.Page{}, nil
	}
	page, err := f.archive.Before(ctx, cursor, f.pageSize)
	if err != nil {
		return history.Page{}, fmt.Errorf("failed to load older history: %w", err)
	}
	return page, nil
}

func (f *historyFeed) advance(page history.Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if oldest := page.Oldest(); oldest != "" {
		f.cursor = oldest
	}
	f.more = page.HasMore
}

func (f *historyFeed) hasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.more
}

// acceptPrompt appends the user's message and queues a host reply.
func (m *Model) acceptPrompt(text string, respond func(id string)) {
	respond("")
	m.widget.SetTyping(true)
	m.outbox = append(m.outbox, text)
}

// handleCommand consumes slash commands. Anything else is a prompt.
func (m *Model) handleCommand(text string) bool {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return true
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "clear":
		m.widget.DropAll()
		if m.session != nil {
			if err := m.session.Clear(); err != nil {
				m.logger.Warn().Err(err).Msg("failed to clear session")
			}
		}
	case "undo":
		n := 1
		if v, err := strconv.Atoi(arg); err == nil {
			n = v
		}
		m.widget.DeleteTrailing(n)
	case "delete":
		m.widget.DeleteByID(arg)
	case "read":
		m.widget.MarkAllRead()
	case "badge":
		if v, err := strconv.Atoi(arg); err == nil {
			m.widget.SetBadgeCount(v)
		}
	case "hide":
		snap := m.widget.Snapshot()
		m.widget.HideAvatar(snap.Len() - 1)
	case "typing":
		m.widget.ToggleTyping()
	case "lock":
		m.widget.SetInputDisabled(true)
		m.syncInputFocus()
	default:
		m.logger.Debug().Str("command", name).Msg("unknown command")
	}
	return false
}

// reply answers a prompt the way a scripted support agent would.
func (m *Model) reply(prompt string) {
	m.widget.SetTyping(false)
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "fruits"):
		m.widget.SetQuickButtons(fruitButtons)
	case strings.Contains(lower, "link"), strings.Contains(lower, "docs"):
		m.widget.AddLinkSnippet(models.LinkSnippet{
			Link:  "https://example.com/help",
			Title: "Help center",
		}, "", time.Time{})
	case strings.Contains(lower, "rate"):
		m.widget.RenderCustomComponent("rating", map[string]any{
			"stars": 5,
			"label": "How did we do?",
		}, true, "")
	default:
		m.widget.AddResponseMessage(fmt.Sprintf("You said: *%s*", prompt), "", time.Time{})
	}
}

var fruitButtons = []timeline.QuickButton{
	{Label: "Apple", Value: "apple"},
	{Label: "Orange", Value: "orange"},
	{Label: "Pear", Value: "pear"},
	{Label: "Banana", Value: "banana"},
}

// onQuickButton answers a picked quick button and withdraws the offer.
func (m *Model) onQuickButton(value string) {
	m.widget.AddResponseMessage("Selected "+value, "", time.Time{})
	m.widget.SetQuickButtons(nil)
	m.quickFocus = -1
}
