// Package worker runs the consumer side of the queue — a Consumer loop
// that drains a single queue, and a Supervisor that launches one loop per
// queue known to the registry.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	redisq "github.com/Renuu007/RedisQ"
	"github.com/Renuu007/RedisQ/registry"
	"github.com/Renuu007/RedisQ/store"
)

const (
	// DefaultPopTimeout bounds each blocking pop.
	DefaultPopTimeout = time.Second

	// DefaultIdleBackoff is slept after an empty pop so an idle queue
	// never turns into a hot spin-wait.
	DefaultIdleBackoff = 100 * time.Millisecond
)

// Consumer drains a single queue: blocking-pop, resolve the function
// path, invoke, repeat. A task that fails — malformed payload, unknown
// function, handler error or panic — is logged and dropped, and the loop
// keeps serving the queue; there is no retry and no redelivery.
type Consumer struct {
	queue       string
	registry    *registry.Registry
	store       store.Store
	logger      *slog.Logger
	popTimeout  time.Duration
	idleBackoff time.Duration
}

// NewConsumer creates a consumer for one queue. Zero durations fall back
// to DefaultPopTimeout and DefaultIdleBackoff; a nil logger falls back to
// slog.Default().
func NewConsumer(
	queue string,
	reg *registry.Registry,
	st store.Store,
	logger *slog.Logger,
	popTimeout, idleBackoff time.Duration,
) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if popTimeout <= 0 {
		popTimeout = DefaultPopTimeout
	}
	if idleBackoff <= 0 {
		idleBackoff = DefaultIdleBackoff
	}
	return &Consumer{
		queue:       queue,
		registry:    reg,
		store:       st,
		logger:      logger,
		popTimeout:  popTimeout,
		idleBackoff: idleBackoff,
	}
}

// Queue returns the queue this consumer serves.
func (c *Consumer) Queue() string { return c.queue }

// Run loops until ctx is cancelled. It is the long-running body of one
// consumer goroutine; each iteration blocks only inside Pop (bounded by
// the pop timeout) and inside the invoked function itself.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Debug("consumer started", slog.String("queue", c.queue))

	for {
		if ctx.Err() != nil {
			c.logger.Debug("consumer stopped", slog.String("queue", c.queue))
			return
		}

		payload, err := c.store.Pop(ctx, c.queue, c.popTimeout)
		switch {
		case errors.Is(err, redisq.ErrEmpty):
			c.idle(ctx)
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			continue
		case err != nil:
			c.logger.Error("pop failed",
				slog.String("queue", c.queue),
				slog.String("error", err.Error()),
			)
			c.idle(ctx)
			continue
		}

		c.dispatch(ctx, payload)
	}
}

// dispatch decodes one payload, resolves its function, and invokes it.
// Every failure path logs and returns so Run can serve the next pop.
func (c *Consumer) dispatch(ctx context.Context, payload []byte) {
	env, err := redisq.Decode(c.queue, payload)
	if err != nil {
		c.logger.Error("dropping malformed payload",
			slog.String("queue", c.queue),
			slog.String("error", err.Error()),
		)
		return
	}

	entry, ok := c.registry.Resolve(env.Path)
	if !ok {
		// Deployment skew: the producer assumed a registration this
		// process does not have. The payload is lost, the loop lives.
		c.logger.Error("dropping task for unregistered function",
			slog.String("queue", c.queue),
			slog.String("path", env.Path),
		)
		return
	}

	if err := c.invoke(ctx, entry, env); err != nil {
		c.logger.Error("task failed",
			slog.String("queue", c.queue),
			slog.String("path", entry.Path),
			slog.String("error", err.Error()),
		)
		return
	}

	c.logger.Debug("task executed",
		slog.String("queue", c.queue),
		slog.String("path", entry.Path),
	)
}

// invoke runs the task function, converting a panic into an error so one
// bad task cannot take the whole queue's loop down with it.
func (c *Consumer) invoke(ctx context.Context, entry *registry.Entry, env *redisq.Envelope) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("task handler panicked",
				slog.String("queue", c.queue),
				slog.String("path", entry.Path),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			retErr = fmt.Errorf("panic in task %s: %v", entry.Path, r)
		}
	}()
	return entry.Func(ctx, env.Args, env.Kwargs)
}

func (c *Consumer) idle(ctx context.Context) {
	select {
	case <-time.After(c.idleBackoff):
	case <-ctx.Done():
	}
}
