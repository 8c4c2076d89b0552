// Package timeline implements the chat message timeline engine: an ordered
// message store with bidirectional pagination, unread badge accounting and
// scroll anchoring.
package timeline

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/chatline/internal/events"
	"github.com/tOgg1/chatline/internal/logging"
	"github.com/tOgg1/chatline/internal/models"
)

// Store owns the canonical timeline and badge count.
//
// Every operation commits atomically and produces exactly one models.Change.
// Changes are delivered synchronously in commit order; a handler that calls
// back into the Store has its change queued behind the one being delivered.
type Store struct {
	mu         sync.Mutex
	messages   []models.Message
	badge      int
	version    uint64
	pending    []models.Change
	delivering bool

	publisher *events.Publisher
	recorder  Recorder
	logger    zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithStoreLogger overrides the store logger.
func WithStoreLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		publisher: events.NewPublisher(),
		recorder:  nopRecorder{},
		logger:    logging.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state without mutating it.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a change handler. Handlers run in subscription order.
func (s *Store) Subscribe(id string, filter events.Filter, handler events.Handler) error {
	return s.publisher.Subscribe(id, filter, handler)
}

// SubscriberCount returns the number of registered change handlers.
func (s *Store) SubscriberCount() int {
	return s.publisher.SubscriberCount()
}

// Unsubscribe removes a change handler.
func (s *Store) Unsubscribe(id string) error {
	return s.publisher.Unsubscribe(id)
}

// AppendNew inserts a message at the tail.
func (s *Store) AppendNew(msg models.Message) models.Snapshot {
	return s.commit(models.OpAppendNew, func() {
		s.messages = append(s.messages, msg)
		if msg.IsUnreadResponse() {
			s.badge++
		}
	})
}

// AppendOld inserts a message at the head. Older unread responses still count
// toward the badge.
func (s *Store) AppendOld(msg models.Message) models.Snapshot {
	return s.commit(models.OpAppendOld, func() {
		next := make([]models.Message, 0, len(s.messages)+1)
		next = append(next, msg)
		s.messages = append(next, s.messages...)
		if msg.IsUnreadResponse() {
			s.badge++
		}
	})
}

// DropAll empties the timeline and resets the badge.
func (s *Store) DropAll() models.Snapshot {
	return s.commit(models.OpDropAll, func() {
		s.messages = nil
		s.badge = 0
	})
}

// DeleteByID removes the first message with the given id. Unknown ids are a no-op.
func (s *Store) DeleteByID(id string) models.Snapshot {
	return s.commit(models.OpDeleteByID, func() {
		for i := range s.messages {
			if s.messages[i].ID != id {
				continue
			}
			removed := s.messages[i]
			next := make([]models.Message, 0, len(s.messages)-1)
			next = append(next, s.messages[:i]...)
			s.messages = append(next, s.messages[i+1:]...)
			if removed.IsUnreadResponse() {
				s.decrementBadgeLocked(1)
			}
			return
		}
	})
}

// DeleteTrailing removes the last count messages. Non-positive counts are a
// no-op; counts beyond the length clamp.
func (s *Store) DeleteTrailing(count int) models.Snapshot {
	return s.commit(models.OpDeleteTrailing, func() {
		if count <= 0 || len(s.messages) == 0 {
			return
		}
		if count > len(s.messages) {
			count = len(s.messages)
		}
		keep := len(s.messages) - count
		unread := 0
		for _, msg := range s.messages[keep:] {
			if msg.IsUnreadResponse() {
				unread++
			}
		}
		s.messages = append([]models.Message(nil), s.messages[:keep]...)
		s.decrementBadgeLocked(unread)
	})
}

// MarkAllRead clears every unread flag and the badge.
func (s *Store) MarkAllRead() models.Snapshot {
	return s.commit(models.OpMarkAllRead, func() {
		next := make([]models.Message, len(s.messages))
		for i, msg := range s.messages {
			msg.Unread = false
			next[i] = msg
		}
		s.messages = next
		s.badge = 0
	})
}

// SetBadgeCount sets the badge directly. Negative values clamp to zero.
func (s *Store) SetBadgeCount(n int) models.Snapshot {
	return s.commit(models.OpSetBadgeCount, func() {
		if n < 0 {
			n = 0
		}
		s.badge = n
	})
}

// HideAvatar turns off the avatar of the message at index. Out-of-range
// indexes are a no-op.
func (s *Store) HideAvatar(index int) models.Snapshot {
	return s.commit(models.OpHideAvatar, func() {
		if index < 0 || index >= len(s.messages) || !s.messages[index].ShowAvatar {
			return
		}
		next := append([]models.Message(nil), s.messages...)
		next[index].ShowAvatar = false
		s.messages = next
	})
}

func (s *Store) decrementBadgeLocked(n int) {
	s.badge -= n
	if s.badge < 0 {
		s.badge = 0
	}
}

// snapshotLocked shares the backing array; every mutation replaces
// s.messages instead of writing through it, so published snapshots stay immutable.
func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Messages:   s.messages[:len(s.messages):len(s.messages)],
		BadgeCount: s.badge,
		Version:    s.version,
	}
}

func (s *Store) commit(op models.Op, mutate func()) models.Snapshot {
	s.mu.Lock()
	before := s.snapshotLocked()
	mutate()
	s.version++
	after := s.snapshotLocked()
	s.pending = append(s.pending, models.Change{Op: op, Before: before, After: after})

	s.logger.Debug().
		Str("op", string(op)).
		Int("messages", after.Len()).
		Int("badge", after.BadgeCount).
		Uint64("version", after.Version).
		Msg("committed")
	s.recorder.StoreChanged(op, after.BadgeCount)

	if s.delivering {
		s.mu.Unlock()
		return after
	}
	s.delivering = true
	for len(s.pending) > 0 {
		change := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		s.publisher.Publish(change)
		s.mu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
	return after
}
