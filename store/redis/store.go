// Package redis implements store.Store on a Redis server using one plain
// list per queue: Push is RPUSH to the tail, Pop is BLPOP from the head,
// so Redis itself provides the per-queue FIFO guarantee.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	redisq "github.com/Renuu007/RedisQ"
	"github.com/Renuu007/RedisQ/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// DefaultURL is the connection target used when neither the caller nor
// the REDIS_URL environment variable names one.
const DefaultURL = "redis://localhost:6379"

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store implements store.Store backed by Redis lists.
type Store struct {
	client goredis.Cmdable
	logger *slog.Logger

	// closer releases the connection when the store owns it (Open);
	// stores built with New leave the client lifecycle to the caller.
	closer func() error
}

// New creates a Redis-backed store. The caller owns the Redis client
// lifecycle.
func New(client goredis.Cmdable, opts ...Option) *Store {
	s := &Store{client: client, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open connects to the Redis server at url. An empty url falls back to
// the REDIS_URL environment variable, then to DefaultURL. The returned
// store owns the connection; Close releases it.
func Open(url string, opts ...Option) (*Store, error) {
	if url == "" {
		url = os.Getenv("REDIS_URL")
	}
	if url == "" {
		url = DefaultURL
	}
	ropts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redisq/redis: parse url: %w", err)
	}
	client := goredis.NewClient(ropts)
	s := New(client, opts...)
	s.closer = client.Close
	return s, nil
}

// Client returns the underlying Redis client.
func (s *Store) Client() goredis.Cmdable { return s.client }

// Push appends payload to the tail of the queue's list.
func (s *Store) Push(ctx context.Context, queue string, payload []byte) error {
	if err := s.client.RPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("redisq/redis: push to %q: %w", queue, err)
	}
	s.logger.Debug("enqueued payload", slog.String("queue", queue))
	return nil
}

// Pop removes and returns the head of the queue's list, blocking for up
// to timeout. An empty window maps to redisq.ErrEmpty.
func (s *Store) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	reply, err := s.client.BLPop(ctx, timeout, queue).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, redisq.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redisq/redis: pop from %q: %w", queue, err)
	}
	// BLPOP replies [key, value].
	if len(reply) != 2 {
		return nil, fmt.Errorf("redisq/redis: pop from %q: unexpected reply of %d elements", queue, len(reply))
	}
	s.logger.Debug("dequeued payload", slog.String("queue", queue))
	return []byte(reply[1]), nil
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection if the store owns it (Open); otherwise it
// is a no-op and the caller keeps the client.
func (s *Store) Close(_ context.Context) error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
