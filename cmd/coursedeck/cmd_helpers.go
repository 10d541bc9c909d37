// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/cmd/coursedeck/config"
	"github.com/coursedeck/coursedeck/pkg/gateway"
	"github.com/coursedeck/coursedeck/pkg/logging"
	"github.com/coursedeck/coursedeck/pkg/ux"
)

// appLogger is shared by every subcommand; initRuntime builds it from the
// loaded configuration.
var appLogger = logging.Discard()

// initRuntime loads the configuration and constructs the shared logger.
// Runs once as the root PersistentPreRunE before any subcommand.
func initRuntime(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("failed to load the configuration: %w", err)
	}

	level := logging.LevelInfo
	switch config.Global.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	appLogger = logging.New(logging.Config{
		Level:   level,
		LogDir:  config.Global.Logging.Dir,
		Service: "coursedeck",
		// The console and the tables own the terminal; logs go to file only.
		Quiet: true,
	})
	return nil
}

// newGateway builds the API client from the loaded configuration.
func newGateway() *gateway.Client {
	opts := []gateway.Option{gateway.WithLogger(appLogger)}
	if secs := config.Global.API.TimeoutSeconds; secs > 0 {
		opts = append(opts, gateway.WithHTTPClient(&http.Client{
			Timeout: time.Duration(secs) * time.Second,
		}))
	}
	return gateway.New(config.Global.API.BaseURL, opts...)
}

// printJSON renders v as indented JSON on stdout, for --output-json.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		exitf("Failed to encode output: %v", err)
	}
}

// exitf reports a fatal command error and exits non-zero.
func exitf(format string, args ...any) {
	ux.Errorf(format, args...)
	appLogger.Error(fmt.Sprintf(format, args...))
	_ = appLogger.Close()
	os.Exit(1)
}
