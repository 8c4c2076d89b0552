package timeline

import "github.com/tOgg1/chatline/internal/models"

// Delegate renders one message variant into a view.
// Component messages render their own props and never see display hints.
type Delegate interface {
	RenderText(msg models.Message, body models.Text, hints DisplayHints) string
	RenderLink(msg models.Message, link models.LinkSnippet, hints DisplayHints) string
	RenderComponent(msg models.Message, comp models.Component) string
}

// Render dispatches messages[index] to the delegate method for its variant.
// Messages without a payload, or indexes out of range, render as "".
func Render(d Delegate, messages []models.Message, index int) string {
	if index < 0 || index >= len(messages) {
		return ""
	}
	msg := messages[index]
	switch p := msg.Payload.(type) {
	case models.Text:
		return d.RenderText(msg, p, Classify(messages, index))
	case models.LinkSnippet:
		return d.RenderLink(msg, p, Classify(messages, index))
	case models.Component:
		return d.RenderComponent(msg, p)
	default:
		return ""
	}
}

// RenderAll renders every message in order.
func RenderAll(d Delegate, messages []models.Message) []string {
	out := make([]string, len(messages))
	for i := range messages {
		out[i] = Render(d, messages, i)
	}
	return out
}
