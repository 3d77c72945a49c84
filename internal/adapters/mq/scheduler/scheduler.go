// Package scheduler runs the lease-guarded worker loop that turns pending
// handles into persisted scores.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/finch/internal/adapters/mq/queue"
	"github.com/okian/finch/internal/adapters/repository"
	"github.com/okian/finch/internal/adapters/twitter"
	"github.com/okian/finch/internal/domain/lease"
	"github.com/okian/finch/internal/domain/scoring"
	"github.com/okian/finch/internal/domain/status"
	"github.com/okian/finch/pkg/logger"
	"github.com/okian/finch/pkg/metrics"
)

// Default scheduler configuration constants.
const (
	defaultTickInterval = 500 * time.Millisecond
	defaultStatusTTL    = 3 * time.Hour
	defaultMaxAttempts  = 3
)

// Scheduler dequeues at most one job per tick and runs the fetch, score and
// persist pipeline under the global worker lease. All shared state comes in
// as explicit dependencies.
type Scheduler struct {
	queue    queue.Queue
	statuses status.Cache
	lease    *lease.Lease
	source   twitter.Source
	store    repository.Store

	tickInterval time.Duration
	statusTTL    time.Duration
	maxAttempts  int

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a scheduler with configuration options.
func New(q queue.Queue, statuses status.Cache, l *lease.Lease, source twitter.Source, store repository.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		queue:        q,
		statuses:     statuses,
		lease:        l,
		source:       source,
		store:        store,
		tickInterval: defaultTickInterval,
		statusTTL:    defaultStatusTTL,
		maxAttempts:  defaultMaxAttempts,
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		logger:       logger.Get().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes ticks on the configured interval until ctx is canceled or
// Shutdown is called.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case <-ticker.C:
			s.RunTick(ctx)
		}
	}
}

// Shutdown stops the loop and waits for the in-flight tick to finish.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	close(s.shutdown)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown timed out: %w", ctx.Err())
	}
}

// RunTick processes at most one pending job. A tick that finds the lease
// held requeues the job at the front instead of dropping it; every other
// outcome releases the lease before returning.
func (s *Scheduler) RunTick(ctx context.Context) {
	job, ok := s.queue.TryDequeue(ctx)
	if !ok {
		return
	}

	s.statuses.Mark(ctx, job.Handle, status.Running, s.statusTTL)

	tok, ok := s.lease.Acquire(ctx)
	if !ok {
		metrics.RecordLeaseConflict()
		s.statuses.Mark(ctx, job.Handle, status.Queued, s.statusTTL)
		s.queue.Requeue(ctx, job)
		s.logger.Debug(ctx, "lease held, job requeued", logger.String("handle", job.Handle))
		return
	}
	defer func() {
		if err := s.lease.Release(tok); err != nil {
			s.logger.Error(ctx, "lease release failed", logger.String("handle", job.Handle), logger.Error(err))
		}
	}()

	start := time.Now()

	profile, err := s.source.Lookup(ctx, job.Handle)
	if err != nil {
		s.failJob(ctx, job, err, twitter.Retryable(err))
		return
	}

	score := scoring.Score(profile.Metrics)

	outcome, err := s.store.Insert(ctx, repository.User{
		ID:       profile.ID,
		Username: profile.Handle,
		Score:    score,
	})
	if err != nil {
		s.failJob(ctx, job, err, true)
		return
	}

	s.statuses.Mark(ctx, job.Handle, status.Done, 0)
	metrics.RecordScore(score)
	metrics.RecordJobCompleted()
	metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))

	if outcome == repository.AlreadyExists {
		s.logger.Debug(ctx, "score already recorded", logger.String("handle", job.Handle), logger.Int64("id", profile.ID))
		return
	}
	s.logger.Info(ctx, "score persisted",
		logger.String("handle", job.Handle),
		logger.Int64("id", profile.ID),
		logger.Int("score", score),
		logger.Int("attempt", job.Attempts+1),
	)
}

// failJob routes a pipeline failure: retryable jobs with budget left go back
// to the front of the queue as Queued; everything else is marked Failed. The
// Failed mark carries the status TTL so the handle eventually becomes
// requestable again.
func (s *Scheduler) failJob(ctx context.Context, job queue.Job, err error, retryable bool) {
	job.Attempts++

	if retryable && job.Attempts < s.maxAttempts {
		s.statuses.Mark(ctx, job.Handle, status.Queued, s.statusTTL)
		s.queue.Requeue(ctx, job)
		metrics.RecordJobRetried()
		s.logger.Warn(ctx, "job failed, retrying",
			logger.String("handle", job.Handle),
			logger.Int("attempt", job.Attempts),
			logger.Error(err),
		)
		return
	}

	s.statuses.Mark(ctx, job.Handle, status.Failed, s.statusTTL)
	metrics.RecordJobFailed()
	s.logger.Error(ctx, "job failed permanently",
		logger.String("handle", job.Handle),
		logger.Int("attempt", job.Attempts),
		logger.Error(err),
	)
}
