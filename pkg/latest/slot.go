// Package latest holds a published value that only the most recently issued
// request may replace. Requests are tagged with a monotonically increasing
// ticket; a result whose ticket has been superseded is dropped on arrival.
package latest

import (
	"sync"
	"sync/atomic"
)

// Ticket tags one request. Higher tickets were issued later.
type Ticket uint64

// Slot is safe for concurrent use. Readers never block writers: Load returns
// whatever snapshot was last published, and published values must be treated
// as immutable.
type Slot[T any] struct {
	mu     sync.Mutex
	issued Ticket
	value  atomic.Pointer[T]
}

// Issue reserves the next ticket, superseding every ticket issued before it.
func (s *Slot[T]) Issue() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Publish stores v if t is still the latest issued ticket and reports whether
// it did.
func (s *Slot[T]) Publish(t Ticket, v *T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.issued {
		return false
	}
	s.value.Store(v)
	return true
}

// IsLatest reports whether no ticket has been issued after t.
func (s *Slot[T]) IsLatest(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t == s.issued
}

// Load returns the published value, or nil if nothing was published yet.
func (s *Slot[T]) Load() *T {
	return s.value.Load()
}
