package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Renuu007/RedisQ/registry"
	"github.com/Renuu007/RedisQ/store"
)

// Supervisor launches exactly one Consumer per distinct queue known to
// the registry and keeps them running until Stop.
type Supervisor struct {
	registry    *registry.Registry
	store       store.Store
	logger      *slog.Logger
	popTimeout  time.Duration
	idleBackoff time.Duration
	workerID    string

	mu      sync.Mutex
	running bool
	queues  []string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// WithPopTimeout bounds each blocking pop.
func WithPopTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.popTimeout = d }
}

// WithIdleBackoff sets the sleep after an empty pop.
func WithIdleBackoff(d time.Duration) Option {
	return func(s *Supervisor) { s.idleBackoff = d }
}

// NewSupervisor creates a supervisor over the given registry and store.
func NewSupervisor(reg *registry.Registry, st store.Store, opts ...Option) *Supervisor {
	s := &Supervisor{
		registry:    reg,
		store:       st,
		logger:      slog.Default(),
		popTimeout:  DefaultPopTimeout,
		idleBackoff: DefaultIdleBackoff,
		workerID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WorkerID returns the supervisor's unique identifier, used to correlate
// its log lines.
func (s *Supervisor) WorkerID() string { return s.workerID }

// Start snapshots the distinct queues currently known to the registry and
// launches one consumer goroutine per queue. It returns immediately; the
// loops run in the background until Stop. Starting twice is a no-op.
//
// The queue set is fixed at this point: functions registered after Start
// are never serviced by this supervisor, so register everything first.
func (s *Supervisor) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.running = true

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.queues = s.registry.Queues()

	s.logger.Info("worker supervisor starting",
		slog.String("worker_id", s.workerID),
		slog.Any("queues", s.queues),
	)

	for _, q := range s.queues {
		c := NewConsumer(q, s.registry, s.store, s.logger, s.popTimeout, s.idleBackoff)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c.Run(loopCtx)
		}()
	}

	return nil
}

// Stop signals every consumer to stop and waits for them to finish, up to
// the context deadline.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	s.logger.Info("worker supervisor stopping", slog.String("worker_id", s.workerID))
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("worker supervisor stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("worker supervisor shutdown timed out")
		return ctx.Err()
	}
}

// Queues returns the queue snapshot the running consumers were started
// with; empty until Start is called.
func (s *Supervisor) Queues() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queues))
	copy(out, s.queues)
	return out
}
