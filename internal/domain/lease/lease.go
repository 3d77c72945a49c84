// Package lease provides the time-bounded mutual-exclusion token that keeps
// at most one scoring pipeline in flight.
package lease

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTTL = 3 * time.Hour

// Token identifies the current holder. Release requires the token handed out
// by Acquire, so a stale holder cannot release a lease it no longer owns.
type Token string

// Lease is a single test-and-set flag with a hard expiry. An expired lease
// reads as unlocked, which bounds how long a crashed worker can block the
// scheduler.
type Lease struct {
	mu        sync.Mutex
	token     Token
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// New creates an unlocked lease with configuration options.
func New(opts ...Option) *Lease {
	l := &Lease{
		ttl: defaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire attempts to take the lease. On success it returns the holder token
// and true; when the lease is live and held elsewhere it returns false.
func (l *Lease) Acquire(_ context.Context) (Token, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.token != "" && now.Before(l.expiresAt) {
		return "", false
	}

	tok := Token(uuid.NewString())
	l.token = tok
	l.expiresAt = now.Add(l.ttl)
	return tok, true
}

// Release frees the lease. The token must match the current holder; releasing
// an expired or reacquired lease reports an error instead of unlocking
// someone else's run.
func (l *Lease) Release(tok Token) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == "" {
		return ErrNotHeld
	}
	if l.token != tok {
		return ErrWrongToken
	}
	l.token = ""
	l.expiresAt = time.Time{}
	return nil
}

// Held reports whether a live holder exists.
func (l *Lease) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token != "" && l.now().Before(l.expiresAt)
}

// TTL returns the configured lease duration.
func (l *Lease) TTL() time.Duration {
	return l.ttl
}
