package broker

import (
	"log/slog"

	"github.com/randalmurphal/eventbroker/pkg/broker/journal"
	"github.com/randalmurphal/eventbroker/pkg/broker/observability"
	"github.com/randalmurphal/eventbroker/pkg/broker/schema"
)

// brokerConfig holds construction-time settings.
type brokerConfig struct {
	id              string
	logger          *slog.Logger
	metrics         observability.MetricsRecorder
	spans           observability.SpanManager
	journal         journal.Journal
	schemas         *schema.Registry
	maxDepth        int
	recover         bool
	defaultLifetime Lifetime
}

func defaultBrokerConfig() brokerConfig {
	return brokerConfig{
		logger:          slog.Default(),
		metrics:         observability.NoopMetrics{},
		spans:           observability.NoopSpanManager{},
		defaultLifetime: DeleteByCommand,
	}
}

// Option configures a Broker.
type Option func(*brokerConfig)

// WithID sets the broker instance ID used in logs and journal entries.
// Default: a random UUID.
func WithID(id string) Option {
	return func(c *brokerConfig) {
		if id != "" {
			c.id = id
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *brokerConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
//
//	b := broker.New(broker.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *brokerConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing sets the span manager.
func WithTracing(s observability.SpanManager) Option {
	return func(c *brokerConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithJournal records every dispatched publish. The broker closes the
// journal on Close.
func WithJournal(j journal.Journal) Option {
	return func(c *brokerConfig) {
		c.journal = j
	}
}

// WithSchemaRegistry validates every published message against r before
// an identifier is allocated.
func WithSchemaRegistry(r *schema.Registry) Option {
	return func(c *brokerConfig) {
		c.schemas = r
	}
}

// WithMaxDepth limits nested publishes made from inside handlers.
// Default: 0 (unlimited)
func WithMaxDepth(n int) Option {
	return func(c *brokerConfig) {
		if n >= 0 {
			c.maxDepth = n
		}
	}
}

// WithRecovery recovers handler panics. Remaining handlers still run and
// Publish returns a *HandlerPanicError.
func WithRecovery() Option {
	return func(c *brokerConfig) {
		c.recover = true
	}
}

// WithDefaultLifetime sets the lifetime used when a Publish or Prepare has
// no WithLifetime option.
// Default: DeleteByCommand
func WithDefaultLifetime(l Lifetime) Option {
	return func(c *brokerConfig) {
		if l.Valid() {
			c.defaultLifetime = l
		}
	}
}

// publishConfig holds per-call settings.
type publishConfig struct {
	lifetime Lifetime
}

// PublishOption configures a single Publish or Prepare call.
type PublishOption func(*publishConfig)

// WithLifetime sets the lifetime of the bag if this call creates it.
func WithLifetime(l Lifetime) PublishOption {
	return func(c *publishConfig) {
		c.lifetime = l
	}
}
