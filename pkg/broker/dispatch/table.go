// Package dispatch maps event names to ordered handler lists and fans out
// synchronously to them.
package dispatch

import (
	"context"
	"reflect"
	"slices"
	"sync"
)

// Handler receives dispatched arguments.
type Handler[A any] interface {
	Handle(ctx context.Context, args A)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[A any] func(ctx context.Context, args A)

// Handle implements Handler.
func (f HandlerFunc[A]) Handle(ctx context.Context, args A) {
	f(ctx, args)
}

// Subscription represents one registration of a handler under a name.
type Subscription interface {
	// Name returns the event name the handler was registered under.
	Name() string

	// Unsubscribe removes this registration. It reports whether the
	// registration was still present.
	Unsubscribe() bool
}

// Table is an event name to handler list mapping.
// It is safe for concurrent use; handlers run without the lock held.
type Table[A any] struct {
	mu    sync.Mutex
	lists map[string][]*registration[A]
}

type registration[A any] struct {
	name    string
	handler Handler[A]
	table   *Table[A]
}

func (r *registration[A]) Name() string { return r.name }

func (r *registration[A]) Unsubscribe() bool {
	return r.table.Unsubscribe(r.name, r)
}

// NewTable creates an empty table.
func NewTable[A any]() *Table[A] {
	return &Table[A]{lists: make(map[string][]*registration[A])}
}

// Subscribe appends handler to the list for name. Subscribing the same
// handler twice yields two registrations and two calls per dispatch.
func (t *Table[A]) Subscribe(name string, handler Handler[A]) Subscription {
	reg := &registration[A]{name: name, handler: handler, table: t}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lists[name] = append(t.lists[name], reg)
	return reg
}

// Unsubscribe removes the registration sub from name. Unknown names and
// registrations are ignored.
func (t *Table[A]) Unsubscribe(name string, sub Subscription) bool {
	reg, ok := sub.(*registration[A])
	if !ok || reg == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeAt(name, slices.Index(t.lists[name], reg))
}

// UnsubscribeHandler removes the earliest registration of handler under
// name. Handlers are matched with ==, so only comparable handler values
// (pointers, comparable structs) can be removed this way. Use the
// Subscription for closures.
func (t *Table[A]) UnsubscribeHandler(name string, handler Handler[A]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := slices.IndexFunc(t.lists[name], func(r *registration[A]) bool {
		return sameHandler(r.handler, handler)
	})
	return t.removeAt(name, idx)
}

// removeAt drops the entry and the whole list once it is empty, so a name
// with no handlers is indistinguishable from an unknown name.
// Caller must hold t.mu.
func (t *Table[A]) removeAt(name string, idx int) bool {
	if idx < 0 {
		return false
	}
	list := t.lists[name]
	// Build a new slice; in-flight dispatches hold the old one.
	next := make([]*registration[A], 0, len(list)-1)
	next = append(next, list[:idx]...)
	next = append(next, list[idx+1:]...)
	if len(next) == 0 {
		delete(t.lists, name)
	} else {
		t.lists[name] = next
	}
	return true
}

// Dispatch calls every handler registered for name in registration order
// and returns how many ran. The list is snapshot first, so changes made by
// handlers apply to later dispatches only.
func (t *Table[A]) Dispatch(ctx context.Context, name string, args A) int {
	snapshot := t.snapshot(name)
	for _, reg := range snapshot {
		reg.handler.Handle(ctx, args)
	}
	return len(snapshot)
}

// Snapshot returns the handlers currently registered for name.
func (t *Table[A]) Snapshot(name string) []Handler[A] {
	regs := t.snapshot(name)
	handlers := make([]Handler[A], len(regs))
	for i, r := range regs {
		handlers[i] = r.handler
	}
	return handlers
}

func (t *Table[A]) snapshot(name string) []*registration[A] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.lists[name])
}

// Has reports whether name has at least one handler.
func (t *Table[A]) Has(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lists[name]) > 0
}

// Count returns the number of registrations for name.
func (t *Table[A]) Count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lists[name])
}

// Names returns all names with handlers, sorted.
func (t *Table[A]) Names() []string {
	t.mu.Lock()
	names := make([]string, 0, len(t.lists))
	for name := range t.lists {
		names = append(names, name)
	}
	t.mu.Unlock()

	slices.Sort(names)
	return names
}

// Clear removes every registration.
func (t *Table[A]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lists = make(map[string][]*registration[A])
}

func sameHandler(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
