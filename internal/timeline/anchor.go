package timeline

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/chatline/internal/events"
	"github.com/tOgg1/chatline/internal/logging"
	"github.com/tOgg1/chatline/internal/models"
)

const anchorSubscriptionID = "scroll-anchor"

// Anchor keeps the user's reading position stationary across timeline
// mutations and decides when to follow the tail.
type Anchor struct {
	store   *Store
	surface ScrollSurface
	tracker *BadgeTracker
	logger  zerolog.Logger

	mu       sync.Mutex
	open     bool
	atBottom bool

	// lastExtent is the content extent observed after the previous change.
	lastExtent int
	// pendingExtent is the extent captured when a prepend was requested.
	pendingExtent int
	hasPending    bool
	started       bool
}

// NewAnchor creates a coordinator over the given surface.
// The user is assumed to start at the bottom.
func NewAnchor(store *Store, surface ScrollSurface, tracker *BadgeTracker) *Anchor {
	return &Anchor{
		store:    store,
		surface:  surface,
		tracker:  tracker,
		logger:   logging.Component("anchor"),
		atBottom: true,
	}
}

// Start subscribes to Store changes.
func (a *Anchor) Start() error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.lastExtent = a.surface.ContentExtent()
	a.mu.Unlock()
	return a.store.Subscribe(anchorSubscriptionID, events.Filter{}, a.handleChange)
}

// Stop unsubscribes from the Store.
func (a *Anchor) Stop() error {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = false
	a.mu.Unlock()
	return a.store.Unsubscribe(anchorSubscriptionID)
}

// AtBottom reports the last known at-bottom state.
func (a *Anchor) AtBottom() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.atBottom
}

// SetOpen records whether the widget is open. Opening while at the bottom
// reads everything.
func (a *Anchor) SetOpen(open bool) {
	a.mu.Lock()
	a.open = open
	a.mu.Unlock()
	a.maybeMarkRead()
}

// UserScrolled re-reads the at-bottom state after a user scroll.
func (a *Anchor) UserScrolled() {
	atBottom := a.surface.IsAtBottom()
	a.mu.Lock()
	a.atBottom = atBottom
	a.mu.Unlock()
	a.maybeMarkRead()
}

// BeginPrepend records the content extent measured when older history was
// requested. The next prepend adjusts the offset relative to it.
func (a *Anchor) BeginPrepend(extentBefore int) {
	a.mu.Lock()
	a.pendingExtent = extentBefore
	a.hasPending = true
	a.mu.Unlock()
}

// AbandonPrepend forgets a captured extent after a request gave up.
func (a *Anchor) AbandonPrepend() {
	a.mu.Lock()
	a.hasPending = false
	a.mu.Unlock()
}

func (a *Anchor) handleChange(change models.Change) {
	beforeOldest, afterOldest := change.Before.OldestID(), change.After.OldestID()
	beforeNewest, afterNewest := change.Before.NewestID(), change.After.NewestID()
	oldestChanged := beforeOldest != afterOldest
	newestChanged := beforeNewest != afterNewest
	extent := a.surface.ContentExtent()

	a.mu.Lock()
	// Growth from anything but the awaited prepend moves the pending base
	// with it, so the prepend delta only covers the prepended rows.
	if a.hasPending && !(change.Op == models.OpAppendOld && oldestChanged && !newestChanged) {
		a.pendingExtent += extent - a.lastExtent
		if change.Op == models.OpAppendOld {
			a.hasPending = false
		}
	}
	switch {
	case newestChanged && (!oldestChanged || change.Before.Len() == 0):
		newest, _ := change.After.Newest()
		if newest.Sender == models.SenderClient || change.Before.Len() == 0 || a.atBottom {
			a.mu.Unlock()
			scrollToBottom(a.surface, true)
			a.mu.Lock()
			a.atBottom = true
		} else {
			a.mu.Unlock()
			a.tracker.Recount()
			a.mu.Lock()
		}
	case oldestChanged && !newestChanged:
		before := a.lastExtent
		if a.hasPending && change.Op == models.OpAppendOld {
			before = a.pendingExtent
			a.hasPending = false
		}
		delta := extent - before
		a.mu.Unlock()
		if delta != 0 {
			a.surface.ScrollTo(a.surface.VisibleOffset()+delta, ScrollOptions{Animated: false})
		}
		a.logger.Debug().Int("delta", delta).Str("oldest", afterOldest).Msg("prepend anchored")
		a.mu.Lock()
	case !oldestChanged && !newestChanged && a.atBottom:
		a.mu.Unlock()
		scrollToBottom(a.surface, false)
		a.mu.Lock()
	}
	a.lastExtent = a.surface.ContentExtent()
	a.mu.Unlock()

	a.maybeMarkRead()
}

// maybeMarkRead reads everything when the user can see the tail of an open widget.
func (a *Anchor) maybeMarkRead() {
	a.mu.Lock()
	ready := a.atBottom && a.open
	a.mu.Unlock()
	if ready && a.tracker.Count() > 0 {
		a.tracker.MarkAllRead()
	}
}
