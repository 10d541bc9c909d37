// Copyright (C) 2025 Coursedeck Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command coursedeck is an admin console for a remote course catalog API:
// list, create, and delete courses and their per-semester instances, from
// subcommands or from an interactive full-screen console.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A .env in the working directory can supply COURSEDECK_API_URL.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
