package trackselect

import "errors"

var (
	// ErrFetchFailed is returned when the engine rejects a manifest fetch.
	ErrFetchFailed = errors.New("video manifest fetch failed")

	// ErrSwitchFailed is returned when the engine rejects a track switch.
	ErrSwitchFailed = errors.New("video track switch failed")

	// ErrInvalidIndex is returned when a selection index is outside the
	// option list. It indicates a caller bug; the index is never clamped.
	ErrInvalidIndex = errors.New("selection index out of range")

	// ErrDetached is returned when refreshing a binding that has been detached.
	ErrDetached = errors.New("binding detached")
)
