// Package store defines the queue store contract.
//
// A Store is a deliberately thin adapter over an external ordered-list
// collaborator: Push appends a serialized task envelope to the tail of a
// named queue, Pop blocks for up to a timeout waiting to remove one from
// the head. FIFO order per queue is the store's responsibility; this
// package only fixes the contract.
//
//	type Store interface {
//	    Push(ctx context.Context, queue string, payload []byte) error
//	    Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
//	    Ping(ctx context.Context) error
//	    Close(ctx context.Context) error
//	}
//
// Pop returns redisq.ErrEmpty — never a nil payload — when the timeout
// elapses with nothing to deliver.
//
// # Available Backends
//
//   - store/redis — Redis lists via RPUSH/BLPOP (the production backend)
//   - store/memory — in-memory store for development and testing
//
// # Usage
//
//	import redisstore "github.com/Renuu007/RedisQ/store/redis"
//
//	s, err := redisstore.Open("redis://localhost:6379")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close(ctx)
package store
