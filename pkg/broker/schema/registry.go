// Package schema declares the message type each event name is expected to
// carry, so a broker can reject mistyped publishes before dispatch.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// ErrUnknownEvent indicates a strict registry has no schema for the event.
var ErrUnknownEvent = errors.New("unknown event")

// Schema describes one event name.
type Schema struct {
	// Event is the event name the schema applies to.
	Event string

	// Message is the expected runtime type of the primary message.
	// Nil accepts any message.
	Message reflect.Type

	// Description explains when the event is published.
	Description string

	// Deprecated marks the event as scheduled for removal.
	Deprecated bool
}

// For builds a Schema whose message type is T.
func For[T any](event, description string) *Schema {
	return &Schema{
		Event:       event,
		Message:     reflect.TypeFor[T](),
		Description: description,
	}
}

// Accepts reports whether message satisfies the schema. Interface message
// types accept any value implementing them.
func (s *Schema) Accepts(message any) bool {
	if s.Message == nil {
		return true
	}
	got := reflect.TypeOf(message)
	if got == nil {
		return s.Message.Kind() == reflect.Interface
	}
	if s.Message.Kind() == reflect.Interface {
		return got.Implements(s.Message)
	}
	return got == s.Message
}

// MismatchError reports a message whose type does not match its schema.
type MismatchError struct {
	Event    string
	Expected reflect.Type
	Got      reflect.Type
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("event %s: expected message of type %v, got %v", e.Event, e.Expected, e.Got)
}

// Registry holds schemas keyed by event name.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	strict  bool
}

// Option configures a Registry.
type Option func(*Registry)

// Strict makes Validate reject events without a schema.
func Strict() Option {
	return func(r *Registry) {
		r.strict = true
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{schemas: make(map[string]*Schema)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces the schema for s.Event.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.Event == "" {
		return fmt.Errorf("event name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.Event] = s
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(s *Schema) {
	if err := r.Register(s); err != nil {
		panic(fmt.Sprintf("failed to register event schema: %v", err))
	}
}

// Get returns the schema for event.
func (r *Registry) Get(event string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[event]
	return s, ok
}

// Has reports whether event has a schema.
func (r *Registry) Has(event string) bool {
	_, ok := r.Get(event)
	return ok
}

// Events returns all registered event names, sorted.
func (r *Registry) Events() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Validate checks message against the schema for event.
func (r *Registry) Validate(event string, message any) error {
	s, ok := r.Get(event)
	if !ok {
		if r.strict {
			return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
		}
		return nil
	}
	if !s.Accepts(message) {
		return &MismatchError{Event: event, Expected: s.Message, Got: reflect.TypeOf(message)}
	}
	return nil
}
