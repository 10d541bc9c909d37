// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/pkg/console"
	"github.com/coursedeck/coursedeck/pkg/ux"
)

// runConsole starts the interactive full-screen console.
func runConsole(cmd *cobra.Command, args []string) {
	if !ux.IsInteractive() {
		exitf("The console needs a terminal; use the subcommands for scripting.")
	}

	defer func() { _ = appLogger.Close() }()
	if err := console.Run(newGateway(), appLogger); err != nil {
		exitf("%v", err)
	}
}
