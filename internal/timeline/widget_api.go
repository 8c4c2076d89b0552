package timeline

import (
	"time"

	"github.com/tOgg1/chatline/internal/logging"
	"github.com/tOgg1/chatline/internal/models"
)

// AddUserMessage appends a client text message. Empty ids are generated and
// a zero time defaults to now, as in every Add helper.
func (w *Widget) AddUserMessage(text, id string, ts time.Time) models.Snapshot {
	return w.store.AppendNew(models.NewText(models.SenderClient, text, id, ts))
}

// AddResponseMessage appends an unread response text message.
func (w *Widget) AddResponseMessage(text, id string, ts time.Time) models.Snapshot {
	return w.store.AppendNew(models.NewText(models.SenderResponse, text, id, ts))
}

// AddLinkSnippet appends an unread response link snippet.
func (w *Widget) AddLinkSnippet(link models.LinkSnippet, id string, ts time.Time) models.Snapshot {
	return w.store.AppendNew(models.NewLinkSnippet(link, id, ts))
}

// AddOldUserMessage prepends an older client text message.
func (w *Widget) AddOldUserMessage(text, id string, ts time.Time) models.Snapshot {
	return w.store.AppendOld(models.NewText(models.SenderClient, text, id, ts))
}

// AddOldResponseMessage prepends an older response text message.
func (w *Widget) AddOldResponseMessage(text, id string, ts time.Time) models.Snapshot {
	return w.store.AppendOld(models.NewText(models.SenderResponse, text, id, ts))
}

// AddOldLinkSnippet prepends an older link snippet.
func (w *Widget) AddOldLinkSnippet(link models.LinkSnippet, id string, ts time.Time) models.Snapshot {
	return w.store.AppendOld(models.NewLinkSnippet(link, id, ts))
}

// RenderCustomComponent appends a host component message at the tail.
func (w *Widget) RenderCustomComponent(name string, props map[string]any, showAvatar bool, id string) models.Snapshot {
	w.logger.Debug().
		Str("component_name", name).
		Interface("props", logging.RedactProps(props)).
		Msg("custom component")
	return w.store.AppendNew(models.NewComponent(name, props, showAvatar, id))
}
