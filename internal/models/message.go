package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderClient   Sender = "client"
	SenderResponse Sender = "response"
)

// Kind tags the payload variant carried by a message.
type Kind string

const (
	KindText        Kind = "text"
	KindLinkSnippet Kind = "snippet"
	KindComponent   Kind = "component"
)

// DefaultLinkTarget is the target used for link snippets that do not name one.
const DefaultLinkTarget = "_blank"

// Payload is the variant-specific body of a message.
// The set of implementations is closed: Text, LinkSnippet and Component.
type Payload interface {
	Kind() Kind
	isPayload()
}

// Text is a plain or markdown text body.
type Text struct {
	Body string `json:"body"`
}

// LinkSnippet is a titled link card.
type LinkSnippet struct {
	Link   string `json:"link"`
	Title  string `json:"title"`
	Target string `json:"target,omitempty"`
}

// Component references a host-registered component by name.
type Component struct {
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

func (Text) Kind() Kind        { return KindText }
func (LinkSnippet) Kind() Kind { return KindLinkSnippet }
func (Component) Kind() Kind   { return KindComponent }

func (Text) isPayload()        {}
func (LinkSnippet) isPayload() {}
func (Component) isPayload()   {}

// Message is a single timeline entry.
type Message struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Sender     Sender    `json:"sender"`
	Unread     bool      `json:"unread"`
	ShowAvatar bool      `json:"show_avatar"`
	Payload    Payload   `json:"-"`
}

// Kind returns the payload kind, or "" for a message without a payload.
func (m Message) Kind() Kind {
	if m.Payload == nil {
		return ""
	}
	return m.Payload.Kind()
}

// IsUnreadResponse reports whether the message counts toward the badge.
func (m Message) IsUnreadResponse() bool {
	return m.Sender == SenderResponse && m.Unread
}

// NewID returns a fresh message identifier.
func NewID() string {
	return uuid.New().String()
}

// NewText builds a text message. Response messages start unread and show the
// avatar; client messages do neither.
func NewText(sender Sender, body, id string, ts time.Time) Message {
	return Message{
		ID:         orNewID(id),
		Timestamp:  orNow(ts),
		Sender:     sender,
		Unread:     sender == SenderResponse,
		ShowAvatar: sender == SenderResponse,
		Payload:    Text{Body: body},
	}
}

// NewLinkSnippet builds a response-side link snippet.
func NewLinkSnippet(link LinkSnippet, id string, ts time.Time) Message {
	if link.Target == "" {
		link.Target = DefaultLinkTarget
	}
	return Message{
		ID:         orNewID(id),
		Timestamp:  orNow(ts),
		Sender:     SenderResponse,
		Unread:     true,
		ShowAvatar: true,
		Payload:    link,
	}
}

// NewComponent builds a response-side custom component message.
func NewComponent(name string, props map[string]any, showAvatar bool, id string) Message {
	return Message{
		ID:         orNewID(id),
		Timestamp:  time.Now(),
		Sender:     SenderResponse,
		Unread:     true,
		ShowAvatar: showAvatar,
		Payload:    Component{Name: name, Props: props},
	}
}

func orNewID(id string) string {
	if id == "" {
		return NewID()
	}
	return id
}

func orNow(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now()
	}
	return ts
}
