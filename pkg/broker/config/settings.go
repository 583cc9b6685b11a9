package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/eventbroker/pkg/broker/store"
)

// Settings is the broker configuration read from a file.
type Settings struct {
	// DefaultLifetime applies to Publish and Prepare calls without an
	// explicit lifetime.
	DefaultLifetime store.Lifetime

	// MaxDepth bounds nested publishes. 0 means unlimited.
	MaxDepth int

	// Recover turns handler panics into errors.
	Recover bool

	// LogLevel is the minimum slog level.
	LogLevel slog.Level

	// Metrics enables the OTel metrics recorder.
	Metrics bool

	// Tracing enables the OTel span manager.
	Tracing bool

	// JournalPath is the SQLite journal location. Empty disables it.
	JournalPath string
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		DefaultLifetime: store.DeleteByCommand,
		LogLevel:        slog.LevelInfo,
	}
}

// SettingsFrom extracts Settings from cfg, starting from DefaultSettings.
func SettingsFrom(cfg Config) (Settings, error) {
	s := DefaultSettings()

	lifetime, err := store.ParseLifetime(cfg.String("default_lifetime", s.DefaultLifetime.String()))
	if err != nil {
		return Settings{}, fmt.Errorf("default_lifetime: %w", err)
	}
	s.DefaultLifetime = lifetime

	s.MaxDepth = cfg.Int("max_depth", s.MaxDepth)
	if s.MaxDepth < 0 {
		return Settings{}, fmt.Errorf("max_depth must not be negative, got %d", s.MaxDepth)
	}

	level, err := parseLevel(cfg.String("log_level", "info"))
	if err != nil {
		return Settings{}, err
	}
	s.LogLevel = level

	s.Recover = cfg.Bool("recover", s.Recover)
	s.Metrics = cfg.Bool("metrics", s.Metrics)
	s.Tracing = cfg.Bool("tracing", s.Tracing)
	s.JournalPath = cfg.String("journal_path", s.JournalPath)
	return s, nil
}

// LoadSettings reads a settings file.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFrom(cfg)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
