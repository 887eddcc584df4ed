// Package notifier pings SSE listeners when a workspace changes.
package notifier

import "sync"

// Notifier fans out update pings by topic. A topic is a workspace id;
// listeners receive an empty struct and re-read the workspace snapshot.
type Notifier struct {
	mu     sync.RWMutex
	topics map[string]map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		topics: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives pings for topic.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(topic string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.topics[topic]
	if !ok {
		set = make(map[chan struct{}]struct{})
		n.topics[topic] = set
	}
	set[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(topic string, ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.topics[topic]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(n.topics, topic)
	}
	close(ch)
}

// Notify pings every listener of topic.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Notify(topic string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.topics[topic] {
		ping(ch)
	}
}

// Broadcast pings every listener of every topic.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, set := range n.topics {
		for ch := range set {
			ping(ch)
		}
	}
}

// Listeners returns the number of listeners on topic.
func (n *Notifier) Listeners(topic string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.topics[topic])
}

func ping(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
		// Channel full, the listener will re-read everything on its pending ping
	}
}
