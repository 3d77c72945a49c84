// Package app wires the scoring service together and implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/okian/finch/internal/adapters/mq/queue"
	"github.com/okian/finch/internal/adapters/mq/scheduler"
	"github.com/okian/finch/internal/adapters/repository"
	"github.com/okian/finch/internal/adapters/twitter"
	"github.com/okian/finch/internal/domain/lease"
	"github.com/okian/finch/internal/domain/status"
	"github.com/okian/finch/pkg/logger"
)

// Default service configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultTickInterval  = 500 * time.Millisecond
	defaultLeaseTTL      = 3 * time.Hour
	defaultStatusTTL     = 3 * time.Hour
	defaultMaxAttempts   = 3
	shutdownTimeout      = 10 * time.Second
)

// Service owns every component of the scoring pipeline. The store and the
// metrics source are injected; the queue, status cache, lease and scheduler
// are built on Start.
type Service struct {
	mu sync.Mutex

	store  repository.Store
	source twitter.Source

	statuses *status.InMemoryCache
	queue    *queue.InMemoryQueue
	lease    *lease.Lease
	sched    *scheduler.Scheduler

	queueCapacity int
	tickInterval  time.Duration
	leaseTTL      time.Duration
	statusTTL     time.Duration
	maxAttempts   int

	started  bool
	stopLoop context.CancelFunc

	logger logger.Logger
}

// New constructs a Service with configuration options. WithStore and
// WithSource are required before Start.
func New(opts ...Option) *Service {
	s := &Service{
		queueCapacity: defaultQueueCapacity,
		tickInterval:  defaultTickInterval,
		leaseTTL:      defaultLeaseTTL,
		statusTTL:     defaultStatusTTL,
		maxAttempts:   defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start migrates the store, builds the pipeline components and launches the
// scheduler loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}
	if s.source == nil {
		return ErrNoSource
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if err := s.store.Migrate(ctx); err != nil {
		return err
	}

	s.statuses = status.NewInMemoryCache()
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueCapacity))
	s.lease = lease.New(lease.WithTTL(s.leaseTTL))
	s.sched = scheduler.New(s.queue, s.statuses, s.lease, s.source, s.store,
		scheduler.WithTickInterval(s.tickInterval),
		scheduler.WithStatusTTL(s.statusTTL),
		scheduler.WithMaxAttempts(s.maxAttempts),
		scheduler.WithLogger(s.logger.Named("scheduler")),
	)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopLoop = cancel
	go s.sched.Run(loopCtx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("queueCapacity", s.queueCapacity),
		logger.Duration("tickInterval", s.tickInterval),
		logger.Duration("leaseTTL", s.leaseTTL),
		logger.Int("maxAttempts", s.maxAttempts),
	)
	return nil
}

// Stop closes the queue and waits for the scheduler to drain its tick.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	_ = s.queue.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.sched.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "scheduler shutdown incomplete", logger.Error(err))
	}
	s.stopLoop()

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// Lookup returns the stored score record for a handle.
func (s *Service) Lookup(ctx context.Context, handle string) (*repository.User, error) {
	return s.store.FindByUsername(ctx, handle)
}

// QueueStatus returns the handle's current job state.
func (s *Service) QueueStatus(ctx context.Context, handle string) status.State {
	return s.statuses.Status(ctx, handle)
}

// Enqueue admits a scoring job for handle. Admission through the status
// cache is the sole deduplication gate: a handle with a live mark is never
// enqueued twice.
func (s *Service) Enqueue(ctx context.Context, handle string) bool {
	if !s.statuses.Admit(ctx, handle, s.statusTTL) {
		return false
	}
	if !s.queue.Enqueue(ctx, queue.Job{Handle: handle}) {
		// Roll back the mark so the handle is not stuck queued while absent
		// from the queue.
		s.statuses.Mark(ctx, handle, status.Absent, 0)
		return false
	}
	return true
}
