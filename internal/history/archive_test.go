package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/chatline/internal/models"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func pageIDs(p Page) []string {
	out := make([]string, 0, len(p.Messages))
	for _, m := range p.Messages {
		out = append(out, m.ID)
	}
	return out
}

func TestArchiveBeforePagesBackwards(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		require.NoError(t, a.Insert(ctx, models.NewText(models.SenderClient, "msg", id, now.Add(time.Duration(i)*time.Minute))))
	}

	page, err := a.Before(ctx, "", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"m4", "m5"}, pageIDs(page))
	require.True(t, page.HasMore)

	page, err = a.Before(ctx, page.Oldest(), 2)
	require.NoError(t, err)
	require.Equal(t, []string{"m2", "m3"}, pageIDs(page))
	require.True(t, page.HasMore)

	page, err = a.Before(ctx, page.Oldest(), 2)
	require.NoError(t, err)
	require.Equal(t, []string{"m1"}, pageIDs(page))
	require.False(t, page.HasMore)

	page, err = a.Before(ctx, "m1", 2)
	require.NoError(t, err)
	require.Empty(t, page.Messages)
	require.Equal(t, "", page.Oldest())
}

func TestArchiveRoundTripsPayloads(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123, time.UTC)

	in := []models.Message{
		models.NewText(models.SenderResponse, "**hi**", "t", ts),
		models.NewLinkSnippet(models.LinkSnippet{Link: "https://example.com", Title: "Example"}, "l", ts),
		models.NewComponent("rating", map[string]any{"stars": float64(4)}, false, "c"),
	}
	in[2].Timestamp = ts
	require.NoError(t, a.Insert(ctx, in...))

	page, err := a.Before(ctx, "", 10)
	require.NoError(t, err)
	require.Equal(t, in, page.Messages)
}

func TestArchiveRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)

	err := a.Insert(ctx, models.Message{ID: "x", Sender: models.SenderClient})
	require.ErrorIs(t, err, models.ErrMissingPayload)

	_, err = a.Before(ctx, "", 0)
	require.ErrorIs(t, err, ErrInvalidLimit)

	_, err = a.Before(ctx, "nope", 3)
	require.ErrorIs(t, err, ErrCursorNotFound)

	require.NoError(t, a.Insert(ctx, models.NewText(models.SenderClient, "a", "dup", time.Time{})))
	require.Error(t, a.Insert(ctx, models.NewText(models.SenderClient, "b", "dup", time.Time{})))
	n, err := a.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestArchiveSeed(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	msgs, err := a.Seed(ctx, 40, now)
	require.NoError(t, err)
	require.Len(t, msgs, 40)

	n, err := a.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 40, n)

	for i := 1; i < len(msgs); i++ {
		require.True(t, msgs[i-1].Timestamp.Before(msgs[i].Timestamp), "index %d", i)
	}
	require.True(t, msgs[len(msgs)-1].Timestamp.Before(now))
	require.Equal(t, models.KindLinkSnippet, msgs[34].Kind())
	require.Greater(t, msgs[7].Timestamp.Sub(msgs[6].Timestamp), time.Hour)

	none, err := a.Seed(ctx, 0, now)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestArchiveOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	a, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, a.Insert(ctx, models.NewText(models.SenderClient, "persisted", "p1", time.Time{})))
	require.NoError(t, a.Close())

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()
	n, err := b.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestArchiveNilIsClosed(t *testing.T) {
	var a *Archive
	_, err := a.Count(context.Background())
	require.ErrorIs(t, err, ErrArchiveClosed)
	require.NoError(t, a.Close())
}
