// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamgridhq/tamgrid/services/analysis"
	"github.com/tamgridhq/tamgrid/services/analysis/config"
)

// runServe starts the analysis server in the foreground, same wiring as
// cmd/analysis but with CLI logging.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, err := analysis.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create analysis service: %w", err)
	}

	fmt.Printf("Serving on :%d\n", cfg.Port)
	return svc.Run()
}
