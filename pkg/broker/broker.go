package broker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/eventbroker/pkg/broker/dispatch"
	"github.com/randalmurphal/eventbroker/pkg/broker/journal"
	"github.com/randalmurphal/eventbroker/pkg/broker/observability"
	"github.com/randalmurphal/eventbroker/pkg/broker/store"
)

// firstCounter seeds the invocation counter; the first publish gets
// firstCounter+1.
const firstCounter InvocationID = 1

// Broker routes published events to subscribers and owns the data staged
// for each invocation.
type Broker struct {
	config brokerConfig
	logger *slog.Logger

	store *store.Store
	table *dispatch.Table[EventArgs]

	mu      sync.Mutex
	counter InvocationID
	depth   int
	closed  bool
}

// New creates a broker.
func New(opts ...Option) *Broker {
	cfg := defaultBrokerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.New().String()
	}

	return &Broker{
		config:  cfg,
		logger:  observability.EnrichLogger(cfg.logger, cfg.id),
		store:   store.New(),
		table:   dispatch.NewTable[EventArgs](),
		counter: firstCounter,
	}
}

// ID returns the broker instance ID.
func (b *Broker) ID() string {
	return b.config.id
}

// Subscribe registers handler for name.
func (b *Broker) Subscribe(name string, handler Handler) Subscription {
	return b.table.Subscribe(name, handler)
}

// SubscribeFunc registers fn for name.
func (b *Broker) SubscribeFunc(name string, fn func(ctx context.Context, args EventArgs)) Subscription {
	return b.table.Subscribe(name, HandlerFunc(fn))
}

// Unsubscribe removes the registration sub. Unknown registrations are
// ignored.
func (b *Broker) Unsubscribe(name string, sub Subscription) bool {
	return b.table.Unsubscribe(name, sub)
}

// UnsubscribeHandler removes the earliest registration of a comparable
// handler value under name.
func (b *Broker) UnsubscribeHandler(name string, handler Handler) bool {
	return b.table.UnsubscribeHandler(name, handler)
}

// Subscribers returns the number of registrations for name.
func (b *Broker) Subscribers(name string) int {
	return b.table.Count(name)
}

// CurrentInvocation returns the most recently allocated identifier, or the
// counter seed when nothing has been published yet.
func (b *Broker) CurrentInvocation() InvocationID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counter
}

// NextInvocation returns the identifier the next dispatched Publish will
// allocate.
func (b *Broker) NextInvocation() InvocationID {
	return b.CurrentInvocation() + 1
}

// Publish dispatches message to every subscriber of name.
//
// With no subscribers it returns (NoInvocation, nil) and nothing changes.
// Otherwise a new identifier is allocated, message is staged in its bag
// under the empty tag, and every handler runs before Publish returns. A nil
// message is published as Empty{}.
//
// If staging the message fails (see ErrDuplicateEntry) no handler runs and
// the identifier stays consumed.
func (b *Broker) Publish(ctx context.Context, name string, message any, opts ...PublishOption) (InvocationID, error) {
	if message == nil {
		message = Empty{}
	}
	pc := b.publishConfig(opts)

	if b.isClosed() {
		return NoInvocation, ErrClosed
	}
	if !b.table.Has(name) {
		return NoInvocation, nil
	}
	if b.config.schemas != nil {
		if err := b.config.schemas.Validate(name, message); err != nil {
			return NoInvocation, err
		}
	}

	id, err := b.enter()
	if err != nil {
		return NoInvocation, err
	}
	defer b.leave()

	done := observability.TimedOperation()
	key := store.Key{Type: store.TypeOf(message), Tag: ""}
	if err := b.stage(id, key, message, pc.lifetime); err != nil {
		b.config.metrics.RecordPublish(ctx, name, 0, 0, err)
		return id, err
	}

	ctx, span := b.config.spans.StartPublishSpan(ctx, name, uint64(id))
	args := EventArgs{Name: name, ID: id, Message: message}
	handlers, err := b.dispatch(ctx, args)
	span.SetAttributes(attribute.Int("handler.count", handlers))
	b.config.spans.AddSpanEvent(ctx, "handlers.dispatched", attribute.Int("handler.count", handlers))
	b.config.spans.EndSpanWithError(span, err)

	elapsed := done()
	b.config.metrics.RecordPublish(ctx, name, handlers, time.Duration(elapsed*float64(time.Millisecond)), err)
	observability.LogPublish(b.logger, name, uint64(id), handlers, elapsed)
	b.record(name, id, key, pc.lifetime, handlers)

	return id, err
}

// Notify publishes Empty{} to name.
func (b *Broker) Notify(ctx context.Context, name string, opts ...PublishOption) (InvocationID, error) {
	return b.Publish(ctx, name, Empty{}, opts...)
}

// PrepareForNextEvent stages data under tag and its runtime type for the
// invocation the next Publish will allocate.
func (b *Broker) PrepareForNextEvent(tag string, data any, opts ...PublishOption) error {
	if b.isClosed() {
		return ErrClosed
	}
	key := store.Key{Type: store.TypeOf(data), Tag: tag}
	return b.stage(b.NextInvocation(), key, data, b.publishConfig(opts).lifetime)
}

// RemoveInvokableData destroys the whole bag for id if it was created with
// DeleteByCommand. The tag is informational only: every entry of the
// invocation goes with the bag.
func (b *Broker) RemoveInvokableData(id InvocationID, tag string) bool {
	removed := b.store.Remove(id)
	b.config.metrics.RecordRemove(context.Background(), removed)
	observability.LogRemove(b.logger, uint64(id), tag, removed)
	return removed
}

// HasInvokableData reports whether a bag exists for id. It does not count
// as a read.
func (b *Broker) HasInvokableData(id InvocationID) bool {
	return b.store.Has(id)
}

// Close drops all staged data and subscriptions and closes the journal.
// Publish and Prepare return ErrClosed afterwards.
func (b *Broker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.store.Clear()
	b.table.Clear()
	if b.config.journal != nil {
		return b.config.journal.Close()
	}
	return nil
}

func (b *Broker) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Broker) publishConfig(opts []PublishOption) publishConfig {
	pc := publishConfig{lifetime: b.config.defaultLifetime}
	for _, opt := range opts {
		opt(&pc)
	}
	return pc
}

// enter allocates an identifier and counts one level of publish nesting.
func (b *Broker) enter() (InvocationID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return NoInvocation, ErrClosed
	}
	if b.config.maxDepth > 0 && b.depth >= b.config.maxDepth {
		return NoInvocation, ErrMaxDepth
	}
	b.counter++
	b.depth++
	return b.counter, nil
}

func (b *Broker) leave() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.depth--
}

func (b *Broker) stage(id InvocationID, key store.Key, value any, lifetime Lifetime) error {
	ctx := context.Background()
	err := b.store.Stage(id, key.Type, key.Tag, value, lifetime)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEntry) {
			b.config.metrics.RecordStage(ctx, lifetime.String(), true)
			observability.LogDuplicate(b.logger, uint64(id), err)
		}
		return err
	}
	b.config.metrics.RecordStage(ctx, lifetime.String(), false)
	observability.LogStage(b.logger, uint64(id), key.String(), lifetime.String())
	return nil
}

func (b *Broker) dispatch(ctx context.Context, args EventArgs) (int, error) {
	if !b.config.recover {
		return b.table.Dispatch(ctx, args.Name, args), nil
	}

	handlers := b.table.Snapshot(args.Name)
	var errs []error
	for _, h := range handlers {
		if err := b.invokeRecovered(ctx, h, args); err != nil {
			errs = append(errs, err)
		}
	}
	return len(handlers), errors.Join(errs...)
}

func (b *Broker) invokeRecovered(ctx context.Context, h Handler, args EventArgs) (err error) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogHandlerPanic(b.logger, args.Name, uint64(args.ID), r)
			err = &HandlerPanicError{Event: args.Name, ID: args.ID, Value: r}
		}
	}()
	h.Handle(ctx, args)
	return nil
}

func (b *Broker) record(name string, id InvocationID, key store.Key, lifetime Lifetime, handlers int) {
	if b.config.journal == nil {
		return
	}
	err := b.config.journal.Record(journal.Entry{
		BrokerID:     b.config.id,
		InvocationID: uint64(id),
		Event:        name,
		MessageType:  key.Type.String(),
		Lifetime:     lifetime.String(),
		Handlers:     handlers,
		Timestamp:    time.Now(),
	})
	if err != nil {
		observability.LogJournalError(b.logger, name, uint64(id), err)
	}
}
