// Package engine wires the function registry, queue store, and worker
// supervisor together and exposes the registration surface. It sits above
// the subsystem packages so they stay free of each other.
//
// Registration mirrors the decorator it replaces: FIFO(queue) returns a
// transform that turns any task function into a fire-and-forget dispatch
// function with the same signature.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redisq "github.com/Renuu007/RedisQ"
	"github.com/Renuu007/RedisQ/registry"
	"github.com/Renuu007/RedisQ/store"
	"github.com/Renuu007/RedisQ/worker"
)

// DispatchFunc enqueues one invocation of a registered function. It never
// runs the function body; it reports only whether the push to the store
// succeeded. The deferred execution's outcome is not observable here.
type DispatchFunc func(ctx context.Context, args []any, kwargs map[string]any) error

// Engine owns the process-wide registry, the shared queue store, and the
// worker supervisor. Every dependency is explicit: build an Engine per
// process, or one per test with its own registry and store.
type Engine struct {
	registry    *registry.Registry
	store       store.Store
	logger      *slog.Logger
	popTimeout  time.Duration
	idleBackoff time.Duration
	supervisor  *worker.Supervisor
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRegistry substitutes an externally built registry, e.g. one shared
// with another engine or isolated for a test.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithPopTimeout bounds each consumer's blocking pop.
func WithPopTimeout(d time.Duration) Option {
	return func(e *Engine) { e.popTimeout = d }
}

// WithIdleBackoff sets the consumers' sleep after an empty pop.
func WithIdleBackoff(d time.Duration) Option {
	return func(e *Engine) { e.idleBackoff = d }
}

// New creates an engine over the given store.
func New(st store.Store, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, redisq.ErrNoStore
	}
	e := &Engine{
		registry: registry.New(),
		store:    st,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.supervisor = worker.NewSupervisor(e.registry, e.store,
		worker.WithLogger(e.logger),
		worker.WithPopTimeout(e.popTimeout),
		worker.WithIdleBackoff(e.idleBackoff),
	)
	return e, nil
}

// Register binds fn to queue and returns its dispatch function. Calling
// the result encodes the arguments into a task envelope and pushes it to
// the queue; exactly one push per call, no batching, no deduplication.
// Push failures surface to the caller untouched.
//
// Registering the same function again returns a dispatch function for the
// original entry, whatever queue is given now.
func (e *Engine) Register(queue string, fn registry.Func) DispatchFunc {
	entry := e.registry.Register(fn, queue)

	return func(ctx context.Context, args []any, kwargs map[string]any) error {
		payload, err := redisq.NewEnvelope(entry.Queue, entry.Path, args, kwargs).Encode()
		if err != nil {
			return fmt.Errorf("redisq/engine: dispatch %s: %w", entry.Path, err)
		}
		e.logger.Debug("dispatching task",
			slog.String("path", entry.Path),
			slog.String("queue", entry.Queue),
		)
		return e.store.Push(ctx, entry.Queue, payload)
	}
}

// FIFO returns the transform form of Register: it fixes the queue and can
// then wrap any number of task functions.
//
//	enqueue := e.FIFO("email")
//	sendWelcome := enqueue(SendWelcome)
//	sendReceipt := enqueue(SendReceipt)
func (e *Engine) FIFO(queue string) func(registry.Func) DispatchFunc {
	return func(fn registry.Func) DispatchFunc {
		return e.Register(queue, fn)
	}
}

// Start launches one consumer loop per queue currently known to the
// registry and returns immediately. Register every function before
// calling Start: later registrations are not picked up.
func (e *Engine) Start(ctx context.Context) error {
	return e.supervisor.Start(ctx)
}

// Stop shuts the consumer loops down, waiting up to the context deadline.
func (e *Engine) Stop(ctx context.Context) error {
	return e.supervisor.Stop(ctx)
}

// Registry returns the engine's function registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Workers returns the engine's worker supervisor.
func (e *Engine) Workers() *worker.Supervisor { return e.supervisor }
