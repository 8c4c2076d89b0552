package timeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/tOgg1/chatline/internal/models"
)

var baseTime = time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

func textAt(sender models.Sender, id string, offset time.Duration) models.Message {
	return models.NewText(sender, "body "+id, id, baseTime.Add(offset))
}

func response(id string) models.Message {
	return textAt(models.SenderResponse, id, 0)
}

func client(id string) models.Message {
	return textAt(models.SenderClient, id, 0)
}

func ids(snap models.Snapshot) []string {
	out := make([]string, 0, snap.Len())
	for _, msg := range snap.Messages {
		out = append(out, msg.ID)
	}
	return out
}

func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%02d", prefix, i)
	}
	return out
}

type scrollCall struct {
	offset   int
	animated bool
}

// stubSurface is a viewport where every message occupies rowHeight units.
type stubSurface struct {
	mu        sync.Mutex
	rowHeight int
	height    int
	extent    int
	offset    int
	calls     []scrollCall
}

func newStubSurface(rowHeight, height int) *stubSurface {
	return &stubSurface{rowHeight: rowHeight, height: height}
}

// layout is subscribed ahead of the anchor, like a real renderer.
func (s *stubSurface) layout(change models.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extent = change.After.Len() * s.rowHeight
	s.offset = s.clampLocked(s.offset)
}

func (s *stubSurface) ContentExtent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extent
}

func (s *stubSurface) VisibleOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *stubSurface) ScrollTo(offset int, opts ScrollOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = s.clampLocked(offset)
	s.calls = append(s.calls, scrollCall{offset: s.offset, animated: opts.Animated})
}

func (s *stubSurface) IsNearTop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset == 0
}

func (s *stubSurface) IsAtBottom() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset >= s.maxOffsetLocked()
}

// userScroll moves the viewport without recording a coordinator scroll.
func (s *stubSurface) userScroll(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = s.clampLocked(offset)
}

func (s *stubSurface) scrollCalls() []scrollCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scrollCall(nil), s.calls...)
}

func (s *stubSurface) maxOffsetLocked() int {
	if s.extent <= s.height {
		return 0
	}
	return s.extent - s.height
}

func (s *stubSurface) clampLocked(offset int) int {
	if offset < 0 {
		return 0
	}
	if max := s.maxOffsetLocked(); offset > max {
		return max
	}
	return offset
}

type stubAnchor struct {
	mu        sync.Mutex
	begun     []int
	abandoned int
}

func (a *stubAnchor) BeginPrepend(extent int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.begun = append(a.begun, extent)
}

func (a *stubAnchor) AbandonPrepend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abandoned++
}

func (a *stubAnchor) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.begun), a.abandoned
}

type countingRecorder struct {
	mu      sync.Mutex
	ops     map[models.Op]int
	loads   map[LoadOutcome]int
	lastBdg int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{ops: map[models.Op]int{}, loads: map[LoadOutcome]int{}}
}

func (r *countingRecorder) StoreChanged(op models.Op, badge int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op]++
	r.lastBdg = badge
}

func (r *countingRecorder) HistoryLoad(outcome LoadOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads[outcome]++
}

func (r *countingRecorder) load(outcome LoadOutcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads[outcome]
}
