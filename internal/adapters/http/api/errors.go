package api

import "errors"

// Sentinel kinds for API errors. The messages for validation and duplicate
// admission are part of the wire contract and must not change.
var (
	ErrMissingHandle    = errors.New("screen_name is required")
	ErrAlreadyQueued    = errors.New("User is already queued for scoring")
	ErrQueueSaturated   = errors.New("scoring queue is full, try again later")
	ErrStoreUnavailable = errors.New("score store is temporarily unavailable")
)
