package broker

import (
	"context"

	"github.com/randalmurphal/eventbroker/pkg/broker/observability"
	"github.com/randalmurphal/eventbroker/pkg/broker/store"
)

// Prepare stages data under tag and the static type T for the invocation
// the next Publish will allocate.
func Prepare[T any](b *Broker, tag string, data T, opts ...PublishOption) error {
	if b.isClosed() {
		return ErrClosed
	}
	return b.stage(b.NextInvocation(), store.KeyFor[T](tag), data, b.publishConfig(opts).lifetime)
}

// GetInvokableData returns the value of type T staged under tag for id.
// The second result is false when the invocation or the key is unknown.
// Reading from a DeleteAfterUse invocation destroys all of its data.
func GetInvokableData[T any](b *Broker, id InvocationID, tag string) (T, bool) {
	v, ok := store.ReadValue[T](b.store, id, tag)
	b.config.metrics.RecordRead(context.Background(), ok)
	observability.LogRead(b.logger, uint64(id), store.KeyFor[T](tag).String(), ok)
	return v, ok
}

// ClarifyInvocationData overwrites the value of type T under tag for an
// invocation that already has data. It does nothing otherwise.
func ClarifyInvocationData[T any](b *Broker, id InvocationID, tag string, data T) {
	applied := store.AmendValue(b.store, id, tag, data)
	observability.LogClarify(b.logger, uint64(id), store.KeyFor[T](tag).String(), applied)
}
