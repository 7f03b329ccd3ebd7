// Package store defines the queue store contract: a thin adapter over an
// external ordered-list collaborator with append-to-tail and
// blocking-pop-from-head primitives. Backends: Redis and Memory.
package store

import (
	"context"
	"time"
)

// Store is the adapter the producers push through and the consumer loops
// pop from. One instance is shared by every loop in the process, so
// implementations must be safe for concurrent use.
//
// Push failures propagate to the producer untouched; nothing is retried
// or silently dropped at this layer.
type Store interface {
	// Push appends payload to the tail of the named queue. The queue is
	// created implicitly on first push.
	Push(ctx context.Context, queue string, payload []byte) error

	// Pop blocks for up to timeout waiting for a payload at the head of
	// the named queue. It returns redisq.ErrEmpty when nothing arrives
	// within the window; it never blocks indefinitely.
	Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)

	// Ping checks store connectivity.
	Ping(ctx context.Context) error

	// Close releases resources owned by the store.
	Close(ctx context.Context) error
}
