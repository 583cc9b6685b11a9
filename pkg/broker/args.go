package broker

import (
	"github.com/randalmurphal/eventbroker/pkg/broker/dispatch"
	"github.com/randalmurphal/eventbroker/pkg/broker/store"
)

// InvocationID identifies one dispatched publish.
type InvocationID = store.InvocationID

// NoInvocation is returned by a Publish that reached no subscriber.
const NoInvocation = store.NoInvocation

// Lifetime controls when an invocation's data is destroyed.
type Lifetime = store.Lifetime

// Lifetimes.
const (
	DeleteByCommand = store.DeleteByCommand
	DeleteAfterUse  = store.DeleteAfterUse
	DoNotDelete     = store.DoNotDelete
)

// Empty is the message published by Notify.
type Empty struct{}

// EventArgs is passed to every handler of one dispatch.
type EventArgs struct {
	// Name is the published event name.
	Name string
	// ID identifies the invocation; use it to look up staged data.
	ID InvocationID
	// Message is the primary message given to Publish.
	Message any
}

// Handler receives dispatched events.
type Handler = dispatch.Handler[EventArgs]

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc = dispatch.HandlerFunc[EventArgs]

// Subscription identifies one registration; see Broker.Unsubscribe.
type Subscription = dispatch.Subscription
