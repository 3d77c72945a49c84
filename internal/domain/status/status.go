// Package status tracks the job state of each handle with bounded leases.
package status

import (
	"context"
	"sync"
	"time"
)

// State is the closed set of job states for a handle.
type State int

const (
	// Absent means no record exists; the handle may be admitted.
	Absent State = iota
	// Queued means the handle is waiting in the pending queue.
	Queued
	// Running means the worker pipeline is processing the handle.
	Running
	// Done means a score was computed and persisted.
	Done
	// Failed means the job exhausted its retry budget.
	Failed
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// InFlight reports whether the state blocks a new admission.
func (s State) InFlight() bool {
	return s == Queued || s == Running
}

// Cache records each handle's current job state. Queued and Running marks
// carry a TTL so a crashed worker cannot wedge a handle forever; expired
// marks read as Absent.
type Cache interface {
	// Admit atomically marks handle Queued with ttl if and only if its
	// current state is Absent. Returns false when the handle already has a
	// live mark. This is the sole admission gate for new jobs.
	Admit(ctx context.Context, handle string, ttl time.Duration) bool

	// Mark sets the state for handle. A zero ttl means the mark never
	// expires.
	Mark(ctx context.Context, handle string, state State, ttl time.Duration)

	// Status returns the current state for handle, or Absent when no live
	// mark exists.
	Status(ctx context.Context, handle string) State
}

type entry struct {
	state     State
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryCache implements Cache with a mutex-guarded map and read-time
// expiry.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewInMemoryCache creates a cache with configuration options.
func NewInMemoryCache(opts ...Option) *InMemoryCache {
	c := &InMemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Admit atomically admits handle when no live mark exists.
func (c *InMemoryCache) Admit(_ context.Context, handle string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[handle]; ok && !e.expired(now) {
		return false
	}
	c.entries[handle] = entry{state: Queued, expiresAt: expiry(now, ttl)}
	return true
}

// Mark sets the state for handle.
func (c *InMemoryCache) Mark(_ context.Context, handle string, state State, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == Absent {
		delete(c.entries, handle)
		return
	}
	c.entries[handle] = entry{state: state, expiresAt: expiry(c.now(), ttl)}
}

// Status returns the live state for handle. Expired marks are reaped here.
func (c *InMemoryCache) Status(_ context.Context, handle string) State {
	c.mu.RLock()
	e, ok := c.entries[handle]
	c.mu.RUnlock()
	if !ok {
		return Absent
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock; a fresh mark may have landed.
		if cur, ok := c.entries[handle]; ok && cur.expired(c.now()) {
			delete(c.entries, handle)
		}
		c.mu.Unlock()
		return Absent
	}
	return e.state
}

// Len returns the number of live and not-yet-reaped marks.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
