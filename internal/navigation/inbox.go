package navigation

import (
	"sync"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

// Inbox holds at most one pending deep link until a consumer acknowledges
// it. Posting replaces a link that was never consumed.
type Inbox struct {
	mu      sync.Mutex
	pending *core.DeepLink
}

// Post stores link as the pending deep link.
func (b *Inbox) Post(link core.DeepLink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = &link
}

// Pending returns the pending link without consuming it.
func (b *Inbox) Pending() (core.DeepLink, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return core.DeepLink{}, false
	}
	return *b.pending, true
}

// Ack marks the pending link as consumed.
func (b *Inbox) Ack() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
}
