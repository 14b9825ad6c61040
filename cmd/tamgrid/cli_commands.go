// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

var (
	flagLogLevel string // Minimum log level for CLI output

	// allocate flags
	allocateDotCount int  // Size of the dot grid
	allocateJSON     bool // Emit machine-readable output
)

// =============================================================================
// COMMAND TREE
// =============================================================================

var (
	rootCmd = &cobra.Command{
		Use:   "tamgrid",
		Short: "Tamgrid TAM visualizer toolkit",
		Long: `tamgrid runs and exercises the Total Addressable Market analysis stack:
the HTTP server, the provider registry, and the dot-grid quantizer.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis HTTP server",
		RunE:  runServe,
	}

	providersCmd = &cobra.Command{
		Use:   "providers",
		Short: "List LLM providers with a configured credential",
		RunE:  runProviders,
	}

	allocateCmd = &cobra.Command{
		Use:   "allocate [segments.json]",
		Short: "Compute a dot-grid allocation from a segment file",
		Long: `Reads a JSON array of segments ({"name", "count", "color"}) and prints
how many dots of the grid each segment receives. Use "-" to read stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAllocate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "minimum log level (debug, info, warn, error)")

	allocateCmd.Flags().IntVar(&allocateDotCount, "dots", 100, "number of dots in the grid")
	allocateCmd.Flags().BoolVar(&allocateJSON, "json", false, "emit JSON instead of a table")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(allocateCmd)
}
