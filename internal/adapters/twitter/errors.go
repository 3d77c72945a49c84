package twitter

import "errors"

// Sentinel kinds for metrics source errors.
var (
	ErrNotFound    = errors.New("account not found")
	ErrRateLimited = errors.New("rate limited by upstream")
)

// Retryable reports whether a lookup failure is worth another attempt.
// Unknown accounts are terminal; rate limits and transport faults are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNotFound)
}
