// Package broker is an in-process publish/subscribe broker that attaches a
// keyed data store to every act of publishing.
//
// # Overview
//
// Each Publish that reaches at least one subscriber allocates a fresh
// InvocationID. Handlers receive that identifier in EventArgs and use it to
// pull additional typed, tagged payloads that were staged for the
// invocation:
//
//	b := broker.New()
//	defer b.Close()
//
//	b.SubscribeFunc("Updated", func(ctx context.Context, args broker.EventArgs) {
//	    hp, ok := broker.GetInvokableData[int](b, args.ID, "health")
//	    if ok {
//	        fmt.Println("health is", hp)
//	    }
//	})
//
//	_ = broker.Prepare(b, "health", 100)
//	_, _ = b.Notify(ctx, "Updated")
//
// # Invocation Identifiers
//
// Identifiers are strictly increasing and never reused. The counter starts
// at 1 and the first published identifier is 2; NoInvocation (0) is never
// allocated. A Publish with no subscribers is a no-op and does not advance
// the counter.
//
// # Staging
//
// Publish stages its primary message under the empty tag and the message's
// runtime type. Prepare and PrepareForNextEvent stage into the identifier
// the next Publish will allocate, so nothing else may publish between the
// two calls.
//
// Preparing a value of type T under the empty tag and then publishing a
// message of the same type T collides on the same key. Publish then returns
// an error matching ErrDuplicateEntry and no handler runs. Tag prepared
// values, or publish a different message type, to avoid the collision.
//
// # Lifetimes
//
// The lifetime of an invocation's bag is fixed by whichever stage creates it:
//
//   - DeleteByCommand (default): removed by RemoveInvokableData
//   - DeleteAfterUse: removed by the first successful GetInvokableData
//   - DoNotDelete: only removed when the broker is closed
//
// RemoveInvokableData works on the whole bag. Its tag argument is recorded
// in logs but does not select an entry.
//
// # Dispatch
//
// Handlers run synchronously in registration order on the publishing
// goroutine. The handler list is snapshot when dispatch starts, so
// subscribing or unsubscribing from inside a handler affects later publishes
// only. Handlers may publish recursively; WithMaxDepth bounds the nesting.
//
// # Observability
//
// Logging uses log/slog (slog.Default() unless WithLogger is given). Metrics
// and tracing are OpenTelemetry based and disabled by default; see
// WithMetrics and WithTracing. WithJournal records every dispatched publish
// for later inspection.
package broker
