package store

import (
	"cmp"
	"reflect"
	"slices"
	"sync"
)

// Bag is the set of values staged for one invocation.
type Bag struct {
	lifetime Lifetime
	entries  map[Key]any
}

// Store maps invocation identifiers to bags.
// It is safe for concurrent use; no lock is held while caller code runs.
type Store struct {
	mu   sync.Mutex
	bags map[InvocationID]*Bag
}

// New creates an empty store.
func New() *Store {
	return &Store{bags: make(map[InvocationID]*Bag)}
}

// Stage inserts value under (typ, tag) in the bag for id.
//
// The bag is created with lifetime if it does not exist yet. An existing
// bag keeps the lifetime it was created with. An occupied key returns a
// *DuplicateEntryError and nothing is modified.
func (s *Store) Stage(id InvocationID, typ reflect.Type, tag string, value any, lifetime Lifetime) error {
	if id == NoInvocation {
		return ErrInvalidInvocation
	}
	if typ == nil {
		return ErrNilType
	}
	key := Key{Type: typ, Tag: tag}

	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[id]
	if !ok {
		bag = &Bag{lifetime: lifetime, entries: make(map[Key]any, 1)}
		bag.entries[key] = value
		s.bags[id] = bag
		return nil
	}
	if _, taken := bag.entries[key]; taken {
		return &DuplicateEntryError{ID: id, Key: key}
	}
	bag.entries[key] = value
	return nil
}

// Read returns the value stored at (typ, tag) for id.
//
// A missing bag or key yields (nil, false). A hit on a DeleteAfterUse bag
// destroys the bag after the value has been taken.
func (s *Store) Read(id InvocationID, typ reflect.Type, tag string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[id]
	if !ok {
		return nil, false
	}
	v, ok := bag.entries[Key{Type: typ, Tag: tag}]
	if !ok {
		return nil, false
	}
	if bag.lifetime == DeleteAfterUse {
		delete(s.bags, id)
	}
	return v, true
}

// Amend overwrites (or adds) the value at (typ, tag) in an existing bag.
// It returns false and does nothing when id has no bag.
func (s *Store) Amend(id InvocationID, typ reflect.Type, tag string, value any) bool {
	if typ == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[id]
	if !ok {
		return false
	}
	bag.entries[Key{Type: typ, Tag: tag}] = value
	return true
}

// Remove destroys the bag for id when its lifetime is DeleteByCommand.
// It reports whether a bag was removed.
func (s *Store) Remove(id InvocationID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[id]
	if !ok || bag.lifetime != DeleteByCommand {
		return false
	}
	delete(s.bags, id)
	return true
}

// Lifetime returns the lifetime of the bag for id.
func (s *Store) Lifetime(id InvocationID) (Lifetime, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bag, ok := s.bags[id]
	if !ok {
		return DeleteByCommand, false
	}
	return bag.lifetime, true
}

// Has reports whether a bag exists for id.
func (s *Store) Has(id InvocationID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bags[id]
	return ok
}

// Keys lists the keys held for id, ordered by type name then tag.
// Listing does not count as a read.
func (s *Store) Keys(id InvocationID) []Key {
	s.mu.Lock()
	bag, ok := s.bags[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	keys := make([]Key, 0, len(bag.entries))
	for k := range bag.entries {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(typeName(a.Type), typeName(b.Type)); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return keys
}

// Len returns the number of live bags.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bags)
}

// Clear drops every bag regardless of lifetime.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bags = make(map[InvocationID]*Bag)
}

// StageValue stages value keyed by the static type T.
func StageValue[T any](s *Store, id InvocationID, tag string, value T, lifetime Lifetime) error {
	return s.Stage(id, reflect.TypeFor[T](), tag, value, lifetime)
}

// ReadValue reads the value keyed by the static type T.
func ReadValue[T any](s *Store, id InvocationID, tag string) (T, bool) {
	var zero T
	v, ok := s.Read(id, reflect.TypeFor[T](), tag)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		// Only reachable when T is an interface and a nil was staged.
		return zero, true
	}
	return typed, true
}

// AmendValue amends the value keyed by the static type T.
func AmendValue[T any](s *Store, id InvocationID, tag string, value T) bool {
	return s.Amend(id, reflect.TypeFor[T](), tag, value)
}
