package broker_test

import (
	"context"
	"testing"

	"github.com/randalmurphal/eventbroker/pkg/broker"
)

// newTestBroker returns a broker without logging that is closed at test end.
func newTestBroker(t *testing.T, opts ...broker.Option) *broker.Broker {
	t.Helper()
	b := broker.New(append([]broker.Option{broker.WithLogger(nil)}, opts...)...)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// capture subscribes to name and collects every EventArgs it receives.
func capture(b *broker.Broker, name string) *[]broker.EventArgs {
	var got []broker.EventArgs
	b.SubscribeFunc(name, func(_ context.Context, args broker.EventArgs) {
		got = append(got, args)
	})
	return &got
}

// counter is a comparable handler.
type counter struct{ n int }

func (c *counter) Handle(_ context.Context, _ broker.EventArgs) { c.n++ }
