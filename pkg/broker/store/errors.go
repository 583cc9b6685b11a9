package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for staging.
var (
	// ErrDuplicateEntry indicates a key is already occupied in the bag.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInvocation indicates the reserved NoInvocation identifier was used.
	ErrInvalidInvocation = errors.New("invalid invocation id")

	// ErrNilType indicates a Key without a payload type.
	ErrNilType = errors.New("payload type is required")
)

// DuplicateEntryError reports a Stage into an occupied key.
type DuplicateEntryError struct {
	// ID is the invocation whose bag already held the key.
	ID InvocationID
	// Key is the occupied key.
	Key Key
}

// Error implements the error interface.
func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("invocation %d: %s: %v", e.ID, e.Key, ErrDuplicateEntry)
}

// Unwrap returns ErrDuplicateEntry for errors.Is support.
func (e *DuplicateEntryError) Unwrap() error {
	return ErrDuplicateEntry
}
