package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/eventbroker/pkg/broker"
)

func newBroker(handlers int) *broker.Broker {
	b := broker.New(broker.WithLogger(nil))
	for i := 0; i < handlers; i++ {
		b.SubscribeFunc("bench", func(context.Context, broker.EventArgs) {})
	}
	return b
}

// BenchmarkPublish measures publish and dispatch for growing handler counts.
func BenchmarkPublish(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("handlers_%d", n), func(b *testing.B) {
			br := newBroker(n)
			defer br.Close()
			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = br.Publish(ctx, "bench", i, broker.WithLifetime(broker.DoNotDelete))
			}
		})
	}
}

// BenchmarkPublish_NoSubscribers measures the unobserved fast path.
func BenchmarkPublish_NoSubscribers(b *testing.B) {
	br := newBroker(0)
	defer br.Close()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = br.Publish(ctx, "bench", i)
	}
}

// BenchmarkPrepareAndRead measures a tagged round trip through one invocation.
func BenchmarkPrepareAndRead(b *testing.B) {
	br := newBroker(0)
	defer br.Close()
	br.SubscribeFunc("bench", func(_ context.Context, args broker.EventArgs) {
		_, _ = broker.GetInvokableData[int](br, args.ID, "health")
	})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = broker.Prepare(br, "health", i, broker.WithLifetime(broker.DeleteAfterUse))
		_, _ = br.Notify(ctx, "bench")
	}
}
