// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads and holds the coursedeck CLI configuration.
package config

// DeckConfig is the on-disk configuration at ~/.coursedeck/coursedeck.yaml.
type DeckConfig struct {
	// API holds remote endpoint settings.
	API APIConfig `yaml:"api"`

	// Logging holds structured logging settings.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote course catalog API.
type APIConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	// Overridable with the COURSEDECK_API_URL environment variable.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each request. Zero keeps the client default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Dir enables file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() DeckConfig {
	return DeckConfig{
		API: APIConfig{
			BaseURL:        "http://localhost:8000/api",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.coursedeck/logs",
		},
	}
}
