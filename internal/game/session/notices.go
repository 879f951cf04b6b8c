package session

import (
	"fmt"
	"sync"
)

// Notices routes user-facing notices to a channel that the connection
// writer drains.
type Notices struct {
	owner  string
	events chan string
	mu     sync.Mutex
	closed bool
}

// NewNotices creates a Notices queue with room for bufferSize messages.
//
// Postcondition: Returns a Notices with an open channel.
func NewNotices(owner string, bufferSize int) *Notices {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Notices{
		owner:  owner,
		events: make(chan string, bufferSize),
	}
}

// Notify enqueues message without blocking.
//
// Postcondition: the message is queued, or an error is returned when the
// queue is closed or full.
func (n *Notices) Notify(message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return fmt.Errorf("notices for %s are closed", n.owner)
	}
	select {
	case n.events <- message:
		return nil
	default:
		return fmt.Errorf("notices for %s: buffer full", n.owner)
	}
}

// Events returns the read-only notice channel.
func (n *Notices) Events() <-chan string {
	return n.events
}

// Close closes the notice channel. Further Notify calls return an error.
func (n *Notices) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.closed {
		n.closed = true
		close(n.events)
	}
	return nil
}

// IsClosed reports whether the queue has been closed.
func (n *Notices) IsClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}
