package models

// Op names a Store transition.
type Op string

const (
	OpAppendNew      Op = "append_new"
	OpAppendOld      Op = "append_old"
	OpDropAll        Op = "drop_all"
	OpDeleteByID     Op = "delete_by_id"
	OpDeleteTrailing Op = "delete_trailing"
	OpMarkAllRead    Op = "mark_all_read"
	OpSetBadgeCount  Op = "set_badge_count"
	OpHideAvatar     Op = "hide_avatar"
)

// Snapshot is an immutable view of the timeline at one Store version.
// Callers must not modify Messages.
type Snapshot struct {
	Messages   []Message
	BadgeCount int
	Version    uint64
}

// Len returns the number of messages in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Messages)
}

// Oldest returns the head of the timeline.
func (s Snapshot) Oldest() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[0], true
}

// Newest returns the tail of the timeline.
func (s Snapshot) Newest() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// OldestID returns the head message ID, or "" when empty.
func (s Snapshot) OldestID() string {
	msg, _ := s.Oldest()
	return msg.ID
}

// NewestID returns the tail message ID, or "" when empty.
func (s Snapshot) NewestID() string {
	msg, _ := s.Newest()
	return msg.ID
}

// UnreadCount counts unread response messages.
func (s Snapshot) UnreadCount() int {
	count := 0
	for i := range s.Messages {
		if s.Messages[i].IsUnreadResponse() {
			count++
		}
	}
	return count
}

// Change describes one committed Store transition.
type Change struct {
	Op     Op
	Before Snapshot
	After  Snapshot
}
