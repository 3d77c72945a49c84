package lease

import "time"

// Option applies a configuration option to the Lease.
type Option func(*Lease)

// WithTTL sets the lease duration.
func WithTTL(ttl time.Duration) Option {
	return func(l *Lease) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithClock overrides the time source, for tests exercising expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Lease) {
		if now != nil {
			l.now = now
		}
	}
}
