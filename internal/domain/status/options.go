package status

import "time"

// Option applies a configuration option to the InMemoryCache.
type Option func(*InMemoryCache)

// WithClock overrides the time source, for tests exercising expiry.
func WithClock(now func() time.Time) Option {
	return func(c *InMemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}
