package timeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/chatline/internal/events"
	"github.com/tOgg1/chatline/internal/logging"
	"github.com/tOgg1/chatline/internal/models"
)

const (
	pagerSubscriptionID = "pagination"

	// DefaultLoadTimeout bounds how long a history request may stay in flight
	// before the pager treats it as exhausted or failed.
	DefaultLoadTimeout = 5 * time.Second
)

// Loader asks the host for older history. It is expected to eventually call
// AppendOld one or more times. The context is cancelled only on shutdown.
type Loader func(ctx context.Context) error

// PagerState is the pagination controller state.
type PagerState int

const (
	StateIdle PagerState = iota
	StateLoadingOlder
)

func (s PagerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingOlder:
		return "loading-older"
	default:
		return fmt.Sprintf("PagerState(%d)", int(s))
	}
}

// prependAnchor is the part of the Anchor the pager hands measurements to.
type prependAnchor interface {
	BeginPrepend(extentBefore int)
	AbandonPrepend()
}

// PagerConfig configures a Pager.
type PagerConfig struct {
	Loader   Loader
	Timeout  time.Duration
	Recorder Recorder
}

// Pager requests older history when the viewport nears the top, allowing at
// most one request in flight.
type Pager struct {
	store   *Store
	surface ScrollSurface
	anchor  prependAnchor
	loader  Loader
	timeout time.Duration
	rec     Recorder
	logger  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     PagerState
	gen       uint64
	timer     *time.Timer
	requested string
	started   bool
}

// NewPager creates a pagination controller.
func NewPager(store *Store, surface ScrollSurface, anchor prependAnchor, cfg PagerConfig) *Pager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLoadTimeout
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	logger := logging.Component("pager")
	// Loaders log through logging.FromContext under the pager's component.
	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), logger))
	return &Pager{
		store:   store,
		surface: surface,
		anchor:  anchor,
		loader:  cfg.Loader,
		timeout: cfg.Timeout,
		rec:     cfg.Recorder,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start subscribes to Store changes to observe landed prepends.
func (p *Pager) Start() error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.mu.Unlock()
	return p.store.Subscribe(pagerSubscriptionID, events.Filter{}, p.handleChange)
}

// Stop unsubscribes, disarms the timeout and cancels the loader context.
func (p *Pager) Stop() error {
	p.mu.Lock()
	wasStarted := p.started
	wasLoading := p.state == StateLoadingOlder
	p.started = false
	p.resetLocked()
	p.mu.Unlock()
	p.cancel()
	if wasLoading {
		p.anchor.AbandonPrepend()
	}
	if !wasStarted {
		return nil
	}
	return p.store.Unsubscribe(pagerSubscriptionID)
}

// State returns the current controller state.
func (p *Pager) State() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Check forwards a near-top event if the surface reports one.
func (p *Pager) Check() bool {
	if !p.surface.IsNearTop() {
		return false
	}
	return p.NearTop()
}

// NearTop handles a near-top event. It returns true when a request started.
// Events while a request is in flight, or without a loader, are ignored.
func (p *Pager) NearTop() bool {
	p.mu.Lock()
	if p.state != StateIdle || p.loader == nil || p.ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	p.state = StateLoadingOlder
	p.gen++
	gen := p.gen
	requested := p.store.Snapshot().OldestID()
	p.requested = requested
	extent := p.surface.ContentExtent()
	p.anchor.BeginPrepend(extent)
	p.timer = time.AfterFunc(p.timeout, func() { p.expire(gen) })
	p.mu.Unlock()

	p.rec.HistoryLoad(LoadStarted)
	p.logger.Debug().Int("extent", extent).Str("oldest", requested).Msg("loading older history")

	go p.invoke(gen)
	return true
}

func (p *Pager) invoke(gen uint64) {
	defer func() {
		if r := recover(); r != nil {
			p.rec.HistoryLoad(LoadFailed)
			p.logger.Warn().Interface("panic", r).Uint64("gen", gen).Msg("history loader panicked")
		}
	}()
	if err := p.loader(p.ctx); err != nil {
		p.rec.HistoryLoad(LoadFailed)
		p.logger.Warn().Err(err).Uint64("gen", gen).Msg("history loader failed")
	}
}

func (p *Pager) handleChange(change models.Change) {
	p.mu.Lock()
	// Only a head insert answers the request. Drops and deletes that
	// change the oldest id leave it in flight.
	if p.state != StateLoadingOlder || change.Op != models.OpAppendOld || change.After.OldestID() == p.requested {
		p.mu.Unlock()
		return
	}
	p.resetLocked()
	p.mu.Unlock()

	p.rec.HistoryLoad(LoadLanded)
	p.logger.Debug().Str("oldest", change.After.OldestID()).Msg("older history landed")
}

func (p *Pager) expire(gen uint64) {
	p.mu.Lock()
	if p.state != StateLoadingOlder || p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.resetLocked()
	p.mu.Unlock()

	p.anchor.AbandonPrepend()
	p.rec.HistoryLoad(LoadTimeout)
	p.logger.Debug().Dur("timeout", p.timeout).Msg("older history request timed out")
}

func (p *Pager) resetLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.state = StateIdle
	p.requested = ""
}
