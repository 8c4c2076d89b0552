package timeline

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/chatline/internal/events"
	"github.com/tOgg1/chatline/internal/logging"
	"github.com/tOgg1/chatline/internal/models"
)

const layoutSubscriptionID = "layout"

// ErrNoSurface is returned when a widget is built without a scroll surface.
var ErrNoSurface = errors.New("scroll surface is required")

// Options configures a Widget.
type Options struct {
	// ID names the widget in logs. Generated when empty.
	ID string

	// Surface is the viewport the timeline is displayed in.
	Surface ScrollSurface

	// Layout re-renders content onto the surface after each change. It is
	// subscribed ahead of the anchor so extents are current when anchoring.
	Layout events.Handler

	// Loader fetches older history (loadMoreMessages). Optional.
	Loader Loader

	// LoadTimeout bounds an in-flight history request.
	LoadTimeout time.Duration

	// NewUserMessage receives submitted input; calling respond(id) appends
	// the client message. Optional.
	NewUserMessage func(text string, respond func(id string))

	// SubmitGate may veto a submission (handleSubmit). Optional.
	SubmitGate func(text string) bool

	// OnToggle observes open/close transitions. Optional.
	OnToggle func(open bool)

	// QuickButtonClicked receives the value of a clicked quick button
	// (handleQuickButtonClicked). Optional.
	QuickButtonClicked func(value string)

	// Open starts the widget open.
	Open bool

	Recorder Recorder
}

// Widget composes the Store with the anchor, pager and badge tracker.
type Widget struct {
	id      string
	store   *Store
	tracker *BadgeTracker
	anchor  *Anchor
	pager   *Pager
	opts    Options
	logger  zerolog.Logger

	mu            sync.Mutex
	open          bool
	typing        bool
	inputDisabled bool
	quickButtons  []QuickButton
}

// NewWidget builds a widget. Call Start before mutating the timeline.
func NewWidget(opts Options) (*Widget, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	if opts.ID == "" {
		opts.ID = models.NewID()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	logger := logging.WithWidget(opts.ID)
	store := NewStore(WithRecorder(opts.Recorder), WithStoreLogger(logger.With().Str("component", "store").Logger()))
	tracker := NewBadgeTracker(store)
	anchor := NewAnchor(store, opts.Surface, tracker)
	pager := NewPager(store, opts.Surface, anchor, PagerConfig{
		Loader:   opts.Loader,
		Timeout:  opts.LoadTimeout,
		Recorder: opts.Recorder,
	})

	return &Widget{
		id:      opts.ID,
		store:   store,
		tracker: tracker,
		anchor:  anchor,
		pager:   pager,
		opts:    opts,
		logger:  logger,
		open:    opts.Open,
	}, nil
}

// Start wires subscriptions: layout first, then anchor, then pager.
func (w *Widget) Start() error {
	if w.opts.Layout != nil {
		if err := w.store.Subscribe(layoutSubscriptionID, events.Filter{}, w.opts.Layout); err != nil {
			return fmt.Errorf("subscribe layout: %w", err)
		}
	}
	if err := w.anchor.Start(); err != nil {
		return fmt.Errorf("start anchor: %w", err)
	}
	if err := w.pager.Start(); err != nil {
		return fmt.Errorf("start pager: %w", err)
	}
	w.anchor.SetOpen(w.IsOpen())
	w.logger.Debug().Bool("open", w.IsOpen()).Int("subscribers", w.store.SubscriberCount()).Msg("widget started")
	return nil
}

// Shutdown releases subscriptions and cancels any in-flight history request.
func (w *Widget) Shutdown() error {
	var errs []error
	if err := w.pager.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := w.anchor.Stop(); err != nil {
		errs = append(errs, err)
	}
	if w.opts.Layout != nil {
		if err := w.store.Unsubscribe(layoutSubscriptionID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ID returns the widget identifier.
func (w *Widget) ID() string { return w.id }

// Store exposes the underlying Store, e.g. for extra subscribers.
func (w *Widget) Store() *Store { return w.store }

// Pager exposes the pagination controller.
func (w *Widget) Pager() *Pager { return w.pager }

// Snapshot returns the current timeline state.
func (w *Widget) Snapshot() models.Snapshot { return w.store.Snapshot() }

// AppendNew appends a message at the tail.
func (w *Widget) AppendNew(msg models.Message) models.Snapshot { return w.store.AppendNew(msg) }

// AppendOld prepends an older message at the head.
func (w *Widget) AppendOld(msg models.Message) models.Snapshot { return w.store.AppendOld(msg) }

// DropAll clears the timeline.
func (w *Widget) DropAll() models.Snapshot { return w.store.DropAll() }

// DeleteByID removes the first message with id.
func (w *Widget) DeleteByID(id string) models.Snapshot { return w.store.DeleteByID(id) }

// DeleteTrailing removes the last count messages.
func (w *Widget) DeleteTrailing(count int) models.Snapshot { return w.store.DeleteTrailing(count) }

// HideAvatar hides the avatar of the message at index.
func (w *Widget) HideAvatar(index int) models.Snapshot { return w.store.HideAvatar(index) }

// MarkAllRead marks everything read.
func (w *Widget) MarkAllRead() models.Snapshot { return w.tracker.MarkAllRead() }

// SetBadgeCount overrides the badge.
func (w *Widget) SetBadgeCount(n int) models.Snapshot { return w.tracker.SetBadgeCount(n) }

// BadgeCount returns the Store's tracked badge.
func (w *Widget) BadgeCount() int { return w.tracker.Count() }

// AtBottom reports whether the viewport is following the tail.
func (w *Widget) AtBottom() bool { return w.anchor.AtBottom() }

// UserScrolled must be called after the user moves the viewport. It updates
// the at-bottom state and fires a near-top event when the sentinel shows.
func (w *Widget) UserScrolled() {
	w.anchor.UserScrolled()
	w.pager.Check()
}

// IsOpen reports whether the widget is open.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Open opens the widget.
func (w *Widget) Open() { w.setOpen(true) }

// Close closes the widget.
func (w *Widget) Close() { w.setOpen(false) }

// Toggle flips the widget between open and closed.
func (w *Widget) Toggle() {
	w.mu.Lock()
	next := !w.open
	w.mu.Unlock()
	w.setOpen(next)
}

func (w *Widget) setOpen(open bool) {
	w.mu.Lock()
	changed := w.open != open
	w.open = open
	w.mu.Unlock()
	if !changed {
		return
	}
	w.anchor.SetOpen(open)
	if w.opts.OnToggle != nil {
		w.opts.OnToggle(open)
	}
	w.logger.Debug().Bool("open", open).Msg("toggled")
}

// SetTyping shows or hides the response-in-progress indicator.
func (w *Widget) SetTyping(typing bool) {
	w.mu.Lock()
	w.typing = typing
	w.mu.Unlock()
}

// ToggleTyping flips the response-in-progress indicator.
func (w *Widget) ToggleTyping() {
	w.mu.Lock()
	w.typing = !w.typing
	w.mu.Unlock()
}

// Typing reports whether the indicator is shown.
func (w *Widget) Typing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.typing
}

// Submit handles user input. Blank input, input while disabled and vetoed
// input are dropped without touching the timeline. It reports whether the input was accepted.
func (w *Widget) Submit(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if w.InputDisabled() {
		w.logger.Debug().Str("text", logging.Preview(text)).Msg("input disabled")
		return false
	}
	if w.opts.SubmitGate != nil && !w.opts.SubmitGate(text) {
		w.logger.Debug().Str("text", logging.Preview(text)).Msg("submission vetoed")
		return false
	}

	respond := func(id string) {
		w.store.AppendNew(models.NewText(models.SenderClient, text, id, time.Time{}))
	}
	if w.opts.NewUserMessage == nil {
		respond("")
	} else {
		w.opts.NewUserMessage(text, respond)
	}
	w.logger.Debug().Str("text", logging.Preview(text)).Msg("submitted")
	return true
}
