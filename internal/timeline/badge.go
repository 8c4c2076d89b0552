package timeline

import "github.com/tOgg1/chatline/internal/models"

// BadgeTracker marks messages read and maintains the unread badge through
// the Store. The badge is always the Store's tracked integer, never a count
// recomputed by readers.
type BadgeTracker struct {
	store *Store
}

// NewBadgeTracker creates a tracker bound to store.
func NewBadgeTracker(store *Store) *BadgeTracker {
	return &BadgeTracker{store: store}
}

// MarkAllRead clears every unread flag and the badge.
func (t *BadgeTracker) MarkAllRead() models.Snapshot {
	return t.store.MarkAllRead()
}

// SetBadgeCount overrides the badge, e.g. to restore a count while closed.
func (t *BadgeTracker) SetBadgeCount(n int) models.Snapshot {
	return t.store.SetBadgeCount(n)
}

// Recount sets the badge to the number of unread response messages.
func (t *BadgeTracker) Recount() models.Snapshot {
	snap := t.store.Snapshot()
	unread := snap.UnreadCount()
	if unread == snap.BadgeCount {
		return snap
	}
	return t.store.SetBadgeCount(unread)
}

// Count returns the current badge.
func (t *BadgeTracker) Count() int {
	return t.store.Snapshot().BadgeCount
}
