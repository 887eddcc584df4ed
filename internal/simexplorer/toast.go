package simexplorer

import (
	"sync"
	"time"
)

// DefaultToastDelay is how long a compare toast stays up.
const DefaultToastDelay = 3 * time.Second

// Toaster shows the latest compare event and dismisses it after a fixed
// delay. Showing a new event cancels the pending dismissal of the previous
// one. It is safe for concurrent use; onDismiss runs on the timer goroutine.
type Toaster struct {
	mu        sync.Mutex
	delay     time.Duration
	timer     *time.Timer
	current   *CompareEvent
	closed    bool
	onDismiss func(CompareEvent)
}

// NewToaster creates a Toaster. onDismiss may be nil.
func NewToaster(delay time.Duration, onDismiss func(CompareEvent)) *Toaster {
	if delay <= 0 {
		delay = DefaultToastDelay
	}
	return &Toaster{delay: delay, onDismiss: onDismiss}
}

// Show displays ev and restarts the dismiss timer.
func (t *Toaster) Show(ev CompareEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = &ev
	seq := ev.Seq
	t.timer = time.AfterFunc(t.delay, func() { t.expire(seq) })
}

// Current returns the toast on screen, if any.
func (t *Toaster) Current() (CompareEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return CompareEvent{}, false
	}
	return *t.current, true
}

// Dismiss hides the toast immediately without calling onDismiss.
func (t *Toaster) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Close cancels any pending dismissal. Later calls to Show are ignored.
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.closed = true
}

func (t *Toaster) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.current = nil
}

// expire dismisses the toast with the given sequence number. A timer that
// fired after being replaced finds a different sequence and does nothing.
func (t *Toaster) expire(seq uint64) {
	t.mu.Lock()
	if t.current == nil || t.current.Seq != seq {
		t.mu.Unlock()
		return
	}
	ev := *t.current
	t.current = nil
	t.timer = nil
	cb := t.onDismiss
	t.mu.Unlock()

	if cb != nil {
		cb(ev)
	}
}
