// Package events provides ordered change publishing and subscription for the timeline.
package events

import (
	"sync"

	"github.com/tOgg1/chatline/internal/models"
)

// Handler is a callback invoked when a change matches a subscription.
type Handler func(change models.Change)

// Filter defines criteria for matching changes.
type Filter struct {
	// Ops filters by Store operation (nil = all operations).
	Ops []models.Op
}

// Matches returns true if the change matches the filter criteria.
func (f *Filter) Matches(change models.Change) bool {
	if len(f.Ops) == 0 {
		return true
	}
	for _, op := range f.Ops {
		if change.Op == op {
			return true
		}
	}
	return false
}

type subscription struct {
	id      string
	filter  Filter
	handler Handler
}

// Publisher delivers changes to subscribers in subscription order.
type Publisher struct {
	mu            sync.RWMutex
	subscriptions []*subscription
}

// NewPublisher creates an empty publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish sends a change to all matching subscribers, synchronously and in
// the order they subscribed.
func (p *Publisher) Publish(change models.Change) {
	p.mu.RLock()
	handlers := make([]Handler, 0, len(p.subscriptions))
	for _, sub := range p.subscriptions {
		if sub.filter.Matches(change) {
			handlers = append(handlers, sub.handler)
		}
	}
	p.mu.RUnlock()

	// Invoke handlers outside the lock so they may (un)subscribe.
	for _, handler := range handlers {
		handler(change)
	}
}

// Subscribe registers a handler to receive changes matching the filter.
func (p *Publisher) Subscribe(id string, filter Filter, handler Handler) error {
	if id == "" {
		return ErrInvalidSubscriptionID
	}
	if handler == nil {
		return ErrNilHandler
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.indexLocked(id) >= 0 {
		return ErrSubscriptionExists
	}
	p.subscriptions = append(p.subscriptions, &subscription{
		id:      id,
		filter:  filter,
		handler: handler,
	})
	return nil
}

// Unsubscribe removes a subscription by ID.
func (p *Publisher) Unsubscribe(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexLocked(id)
	if idx < 0 {
		return ErrSubscriptionNotFound
	}
	p.subscriptions = append(p.subscriptions[:idx:idx], p.subscriptions[idx+1:]...)
	return nil
}

// SubscriberCount returns the number of active subscribers.
func (p *Publisher) SubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscriptions)
}

func (p *Publisher) indexLocked(id string) int {
	for i, sub := range p.subscriptions {
		if sub.id == id {
			return i
		}
	}
	return -1
}

// Errors for publisher operations.
var (
	ErrInvalidSubscriptionID = &PublisherError{Message: "subscription ID is required"}
	ErrNilHandler            = &PublisherError{Message: "handler cannot be nil"}
	ErrSubscriptionExists    = &PublisherError{Message: "subscription with this ID already exists"}
	ErrSubscriptionNotFound  = &PublisherError{Message: "subscription not found"}
)

// PublisherError represents an error from publisher operations.
type PublisherError struct {
	Message string
}

func (e *PublisherError) Error() string {
	return e.Message
}
