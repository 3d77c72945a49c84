package app

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoStore  = errors.New("no store configured")
	ErrNoSource = errors.New("no metrics source configured")
)
