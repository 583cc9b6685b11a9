/*
Package config loads broker settings from YAML or JSON.

# Overview

Config wraps a decoded map[string]any and exposes typed accessors that fall
back to a default on a missing key or a value of the wrong shape. Settings
is the broker-specific view built on top of it.

	cfg, err := config.FromFile("broker.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	settings, err := config.SettingsFrom(cfg)

A settings file looks like:

	default_lifetime: delete_after_use
	max_depth: 8
	recover: true
	log_level: debug
	metrics: true
	tracing: false
	journal_path: ./invocations.db
*/
package config
