package lease

import "errors"

// Sentinel kinds for lease errors.
var (
	ErrNotHeld    = errors.New("lease not held")
	ErrWrongToken = errors.New("lease held by another token")
)
