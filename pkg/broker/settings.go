package broker

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/randalmurphal/eventbroker/pkg/broker/config"
	"github.com/randalmurphal/eventbroker/pkg/broker/journal"
	"github.com/randalmurphal/eventbroker/pkg/broker/observability"
)

// FromSettings turns loaded settings into broker options. When a journal
// path is set the SQLite journal is opened here and closed by Broker.Close.
//
//	settings, err := config.LoadSettings("broker.yaml")
//	opts, err := broker.FromSettings(settings)
//	b := broker.New(opts...)
func FromSettings(s config.Settings) ([]Option, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: s.LogLevel}))

	opts := []Option{
		WithLogger(logger),
		WithDefaultLifetime(s.DefaultLifetime),
		WithMaxDepth(s.MaxDepth),
	}
	if s.Recover {
		opts = append(opts, WithRecovery())
	}
	if s.Metrics {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if s.Tracing {
		opts = append(opts, WithTracing(observability.NewSpanManager()))
	}
	if s.JournalPath != "" {
		j, err := journal.NewSQLiteJournal(s.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		opts = append(opts, WithJournal(j))
	}
	return opts, nil
}
