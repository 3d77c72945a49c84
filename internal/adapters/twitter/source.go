// Package twitter fetches profile metrics from the Twitter v1.1 REST API.
package twitter

import (
	"context"

	"github.com/okian/finch/internal/domain/scoring"
)

// Profile is a resolved account: the stable numeric ID plus the metrics
// snapshot the calculator consumes.
type Profile struct {
	ID      int64
	Handle  string
	Metrics scoring.Metrics
}

// Source resolves a handle into a profile. Implementations talk to a
// rate-limited upstream; callers must not assume low latency.
type Source interface {
	Lookup(ctx context.Context, handle string) (Profile, error)
}
