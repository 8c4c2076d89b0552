package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorsIs(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add("id", ErrMissingID)

	err := validation.Err()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingID))
}

func TestValidationErrorsNestedFields(t *testing.T) {
	nested := &ValidationErrors{}
	nested.AddMessage("body", "message body is required")

	validation := &ValidationErrors{}
	validation.Add("payload", nested)

	var list *ValidationErrors
	require.ErrorAs(t, validation.Err(), &list)
	require.Len(t, list.Errors, 1)
	require.Equal(t, "payload.body", list.Errors[0].Field)
}

func TestMessageValidate(t *testing.T) {
	ts := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

	require.NoError(t, NewText(SenderClient, "", "c-1", ts).Validate())
	require.NoError(t, NewLinkSnippet(LinkSnippet{Link: "https://example.com"}, "l-1", ts).Validate())

	err := Message{Sender: "bot"}.Validate()
	require.ErrorIs(t, err, ErrMissingID)
	require.ErrorIs(t, err, ErrUnknownSender)
	require.ErrorIs(t, err, ErrMissingPayload)

	err = NewComponent("", nil, false, "x").Validate()
	require.ErrorIs(t, err, ErrMissingName)
}

func TestConstructorsDefaults(t *testing.T) {
	client := NewText(SenderClient, "hi", "", time.Time{})
	require.NotEmpty(t, client.ID)
	require.False(t, client.Timestamp.IsZero())
	require.False(t, client.Unread)
	require.False(t, client.ShowAvatar)
	require.Equal(t, KindText, client.Kind())

	response := NewText(SenderResponse, "hello", "r-1", time.Time{})
	require.Equal(t, "r-1", response.ID)
	require.True(t, response.IsUnreadResponse())
	require.True(t, response.ShowAvatar)

	link := NewLinkSnippet(LinkSnippet{Link: "https://example.com", Title: "Example"}, "", time.Time{})
	require.Equal(t, DefaultLinkTarget, link.Payload.(LinkSnippet).Target)
	require.True(t, link.IsUnreadResponse())

	comp := NewComponent("card", map[string]any{"n": 1}, false, "")
	require.Equal(t, KindComponent, comp.Kind())
	require.False(t, comp.ShowAvatar)
}

func TestSnapshotEnds(t *testing.T) {
	var empty Snapshot
	require.Equal(t, "", empty.OldestID())
	require.Equal(t, "", empty.NewestID())

	snap := Snapshot{Messages: []Message{
		NewText(SenderClient, "a", "a", time.Time{}),
		NewText(SenderResponse, "b", "b", time.Time{}),
		NewText(SenderResponse, "c", "c", time.Time{}),
	}}
	snap.Messages[2].Unread = false
	require.Equal(t, "a", snap.OldestID())
	require.Equal(t, "c", snap.NewestID())
	require.Equal(t, 1, snap.UnreadCount())
}
