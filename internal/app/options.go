package app

import (
	"time"

	"github.com/okian/finch/internal/adapters/repository"
	"github.com/okian/finch/internal/adapters/twitter"
	"github.com/okian/finch/pkg/logger"
)

// Option configures a Service.
type Option func(*Service)

// WithStore injects the score store. Required.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSource injects the account metrics source. Required.
func WithSource(source twitter.Source) Option {
	return func(s *Service) {
		s.source = source
	}
}

// WithQueueCapacity bounds the pending queue.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueCapacity = n
		}
	}
}

// WithTickInterval sets the scheduler tick interval.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithLeaseTTL bounds how long a crashed worker can hold the lease.
func WithLeaseTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.leaseTTL = d
		}
	}
}

// WithStatusTTL bounds queued and running status marks.
func WithStatusTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.statusTTL = d
		}
	}
}

// WithMaxAttempts caps pipeline runs per job.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}
