// Package memory implements store.Store entirely in process memory.
// Safe for concurrent access. Intended for unit testing and development.
package memory

import (
	"context"
	"sync"
	"time"

	redisq "github.com/Renuu007/RedisQ"
	"github.com/Renuu007/RedisQ/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// queueState holds one queue's pending payloads plus a pulse channel that
// wakes a blocked popper when something is pushed.
type queueState struct {
	items  [][]byte
	notify chan struct{}
}

// Store is an in-memory implementation of store.Store. Queues are created
// implicitly on first use and FIFO order is kept per queue.
type Store struct {
	mu     sync.Mutex
	queues map[string]*queueState
	closed bool
	done   chan struct{}
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		queues: make(map[string]*queueState),
		done:   make(chan struct{}),
	}
}

// queue returns the named queue's state, creating it if needed.
// Callers must hold s.mu.
func (s *Store) queue(name string) *queueState {
	q, ok := s.queues[name]
	if !ok {
		q = &queueState{notify: make(chan struct{}, 1)}
		s.queues[name] = q
	}
	return q
}

// Push appends payload to the tail of the named queue.
func (s *Store) Push(_ context.Context, queue string, payload []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return redisq.ErrStoreClosed
	}
	q := s.queue(queue)
	cp := make([]byte, len(payload))
	copy(cp, payload)
	q.items = append(q.items, cp)
	s.mu.Unlock()

	// Wake one blocked popper. A full buffer already means a wakeup is
	// pending, so dropping the pulse is fine.
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pop removes and returns the head of the named queue, blocking for up to
// timeout. It returns redisq.ErrEmpty when the window elapses empty.
func (s *Store) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, redisq.ErrStoreClosed
		}
		q := s.queue(queue)
		if len(q.items) > 0 {
			head := q.items[0]
			q.items = q.items[1:]
			s.mu.Unlock()
			return head, nil
		}
		notify := q.notify
		s.mu.Unlock()

		// A pulse can be stale (another popper took the item first), so
		// loop and re-check rather than trusting it.
		select {
		case <-notify:
		case <-deadline.C:
			return nil, redisq.ErrEmpty
		case <-s.done:
			return nil, redisq.ErrStoreClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Ping reports whether the store is still open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return redisq.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed and releases every blocked popper.
// Pending payloads are discarded.
func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.queues = make(map[string]*queueState)
	close(s.done)
	return nil
}

// Len reports the number of pending payloads in the named queue.
func (s *Store) Len(queue string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.queues[queue]; ok {
		return len(q.items)
	}
	return 0
}
