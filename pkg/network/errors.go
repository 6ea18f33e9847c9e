package network

import "errors"

// Tagged error kinds surfaced by the Network Preparer and Hole Closer. These
// are configuration/input failures: callers fail the call, never retry
// automatically.
var (
	// ErrEmptyNetwork is returned when zero rows remain after cleaning.
	ErrEmptyNetwork = errors.New("network: empty after cleaning")

	// ErrInvalidGeometry is returned when any input row has non-line
	// geometry. Lines that reduce to zero length are not reported with it:
	// Prepare drops them as rings.
	ErrInvalidGeometry = errors.New("network: invalid geometry")
)
