package broker

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/eventbroker/pkg/broker/store"
)

// Sentinel errors for publishing.
var (
	// ErrClosed indicates the broker has been closed.
	ErrClosed = errors.New("broker closed")

	// ErrMaxDepth indicates nested publishes exceeded the configured depth.
	ErrMaxDepth = errors.New("exceeded maximum publish depth")

	// ErrDuplicateEntry indicates a staged key was already occupied.
	ErrDuplicateEntry = store.ErrDuplicateEntry
)

// HandlerPanicError wraps a panic recovered from a handler.
type HandlerPanicError struct {
	// Event is the event name being dispatched.
	Event string
	// ID is the invocation being dispatched.
	ID InvocationID
	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("event %s invocation %d: handler panicked: %v", e.Event, e.ID, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *HandlerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
