// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command tamgrid is the operator CLI for the Tamgrid stack: run the
// analysis server, inspect configured providers, and compute dot
// allocations locally without a server.
package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tamgridhq/tamgrid/pkg/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// .env is a local development convenience; absence is normal
		_ = godotenv.Load()

		logger := logging.New(logging.Config{
			Level:   logging.ParseLevel(flagLogLevel),
			Service: "tamgrid",
		})
		slog.SetDefault(logger.Slog())
	}
}
