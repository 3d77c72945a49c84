package scheduler

import (
	"time"

	"github.com/okian/finch/pkg/logger"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithTickInterval sets the time between ticks.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithStatusTTL bounds how long queued and running marks live.
func WithStatusTTL(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.statusTTL = d
		}
	}
}

// WithMaxAttempts caps pipeline runs per job before it is marked failed.
func WithMaxAttempts(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}
