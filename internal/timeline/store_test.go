package timeline

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/chatline/internal/events"
	"github.com/tOgg1/chatline/internal/models"
)

func TestStoreAppendResponseCountsBadge(t *testing.T) {
	s := NewStore()

	snap := s.AppendNew(models.NewText(models.SenderResponse, "hi", "", baseTime))
	require.Equal(t, 1, snap.Len())
	require.Equal(t, 1, snap.BadgeCount)

	snap = s.AppendNew(client("c-1"))
	require.Equal(t, 2, snap.Len())
	require.Equal(t, 1, snap.BadgeCount)
}

func TestStoreOrderingFollowsInsertionNotTimestamps(t *testing.T) {
	s := NewStore()
	rng := rand.New(rand.NewSource(7))

	var want []string
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("m-%03d", i)
		msg := textAt(models.SenderClient, id, 0)
		msg.Timestamp = baseTime.Add(-time.Duration(rng.Int63n(1e12)))
		if rng.Intn(2) == 0 {
			s.AppendNew(msg)
			want = append(want, id)
		} else {
			s.AppendOld(msg)
			want = append([]string{id}, want...)
		}
	}
	require.Equal(t, want, ids(s.Snapshot()))
}

func TestStoreBadgeInvariantUnderRandomOps(t *testing.T) {
	s := NewStore()
	rng := rand.New(rand.NewSource(42))

	next := 0
	for i := 0; i < 2000; i++ {
		var snap models.Snapshot
		switch rng.Intn(8) {
		case 0, 1:
			sender := models.SenderClient
			if rng.Intn(2) == 0 {
				sender = models.SenderResponse
			}
			snap = s.AppendNew(textAt(sender, fmt.Sprintf("n-%d", next), 0))
			next++
		case 2, 3:
			snap = s.AppendOld(textAt(models.SenderResponse, fmt.Sprintf("o-%d", next), 0))
			next++
		case 4:
			cur := s.Snapshot()
			if cur.Len() > 0 {
				snap = s.DeleteByID(cur.Messages[rng.Intn(cur.Len())].ID)
			} else {
				snap = s.DeleteByID("missing")
			}
		case 5:
			snap = s.DeleteTrailing(rng.Intn(4) - 1)
		case 6:
			snap = s.MarkAllRead()
		case 7:
			if rng.Intn(20) == 0 {
				snap = s.DropAll()
			} else {
				snap = s.HideAvatar(rng.Intn(10))
			}
		}
		require.Equal(t, snap.UnreadCount(), snap.BadgeCount, "op %d", i)
	}
}

func TestStoreMarkAllReadIdempotent(t *testing.T) {
	s := NewStore()
	s.AppendNew(response("r-1"))
	s.AppendNew(client("c-1"))
	s.AppendOld(response("r-0"))

	once := s.MarkAllRead()
	twice := s.MarkAllRead()

	require.Equal(t, once.Messages, twice.Messages)
	require.Equal(t, once.BadgeCount, twice.BadgeCount)
	require.Zero(t, twice.BadgeCount)
	for _, msg := range twice.Messages {
		require.False(t, msg.Unread)
	}
}

func TestStoreDeleteByIDMissingIsNoop(t *testing.T) {
	s := NewStore()
	s.AppendNew(response("r-1"))
	s.AppendNew(client("c-1"))
	before := s.Snapshot()

	after := s.DeleteByID("nonexistent")
	require.Equal(t, before.Messages, after.Messages)
	require.Equal(t, before.BadgeCount, after.BadgeCount)
}

func TestStoreDeleteByIDRemovesFirstMatchOnly(t *testing.T) {
	s := NewStore()
	s.AppendNew(response("dup"))
	s.AppendNew(client("x"))
	s.AppendNew(response("dup"))

	snap := s.DeleteByID("dup")
	require.Equal(t, []string{"x", "dup"}, ids(snap))
	require.Equal(t, 1, snap.BadgeCount)
}

func TestStoreDeleteTrailing(t *testing.T) {
	s := NewStore()
	all := seq("m", 10)
	for _, id := range all {
		s.AppendNew(client(id))
	}

	snap := s.DeleteTrailing(3)
	require.Equal(t, all[:7], ids(snap))

	require.Equal(t, all[:7], ids(s.DeleteTrailing(0)))
	require.Equal(t, all[:7], ids(s.DeleteTrailing(-2)))
	require.Empty(t, ids(s.DeleteTrailing(50)))
}

func TestStoreDeleteTrailingAdjustsBadge(t *testing.T) {
	s := NewStore()
	s.AppendNew(response("r-1"))
	s.AppendNew(response("r-2"))
	s.AppendNew(client("c-1"))

	snap := s.DeleteTrailing(2)
	require.Equal(t, []string{"r-1"}, ids(snap))
	require.Equal(t, 1, snap.BadgeCount)
}

func TestStoreDropAllAndSetBadgeCount(t *testing.T) {
	s := NewStore()
	s.AppendNew(response("r-1"))
	s.AppendNew(response("r-2"))

	snap := s.SetBadgeCount(7)
	require.Equal(t, 7, snap.BadgeCount)
	require.Equal(t, 0, s.SetBadgeCount(-3).BadgeCount)

	snap = s.DropAll()
	require.Zero(t, snap.Len())
	require.Zero(t, snap.BadgeCount)
}

func TestStoreHideAvatar(t *testing.T) {
	s := NewStore()
	s.AppendNew(response("r-1"))
	s.AppendNew(response("r-2"))

	snap := s.HideAvatar(0)
	require.False(t, snap.Messages[0].ShowAvatar)
	require.True(t, snap.Messages[1].ShowAvatar)

	require.Equal(t, snap.Messages, s.HideAvatar(9).Messages)
}

func TestStoreSnapshotsAreImmutable(t *testing.T) {
	s := NewStore()
	s.AppendNew(response("r-1"))
	first := s.Snapshot()

	s.AppendNew(response("r-2"))
	s.MarkAllRead()
	s.HideAvatar(0)

	require.Equal(t, []string{"r-1"}, ids(first))
	require.True(t, first.Messages[0].Unread)
	require.True(t, first.Messages[0].ShowAvatar)
	require.Equal(t, 1, first.BadgeCount)
}

func TestStoreDeliversChangesInCommitOrderWithReentrantMutation(t *testing.T) {
	s := NewStore()

	var seen []models.Op
	require.NoError(t, s.Subscribe("reader", events.Filter{}, func(change models.Change) {
		seen = append(seen, change.Op)
		if change.Op == models.OpAppendNew {
			s.MarkAllRead()
		}
	}))
	var second []models.Op
	require.NoError(t, s.Subscribe("second", events.Filter{}, func(change models.Change) {
		second = append(second, change.Op)
	}))

	snap := s.AppendNew(response("r-1"))
	require.Equal(t, 1, snap.BadgeCount)

	want := []models.Op{models.OpAppendNew, models.OpMarkAllRead}
	require.Equal(t, want, seen)
	require.Equal(t, want, second)
	require.Zero(t, s.Snapshot().BadgeCount)
}

func TestStoreChangeCarriesBeforeAndAfter(t *testing.T) {
	s := NewStore()
	s.AppendNew(client("a"))

	var got models.Change
	require.NoError(t, s.Subscribe("c", events.Filter{Ops: []models.Op{models.OpAppendOld}}, func(change models.Change) {
		got = change
	}))
	s.AppendNew(client("b"))
	s.AppendOld(client("z"))

	require.Equal(t, models.OpAppendOld, got.Op)
	require.Equal(t, []string{"a", "b"}, ids(got.Before))
	require.Equal(t, []string{"z", "a", "b"}, ids(got.After))
	require.Equal(t, got.Before.Version+1, got.After.Version)
}

func TestStoreRecordsChanges(t *testing.T) {
	rec := newCountingRecorder()
	s := NewStore(WithRecorder(rec))
	s.AppendNew(response("r-1"))
	s.AppendOld(response("r-0"))
	s.MarkAllRead()

	require.Equal(t, 1, rec.ops[models.OpAppendNew])
	require.Equal(t, 1, rec.ops[models.OpAppendOld])
	require.Equal(t, 1, rec.ops[models.OpMarkAllRead])
	require.Zero(t, rec.lastBdg)
}
