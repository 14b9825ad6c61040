// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamgridhq/tamgrid/services/analysis/config"
	"github.com/tamgridhq/tamgrid/services/llm"
)

// runProviders prints which providers have a credential in the current
// environment and which models they expose.
func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	creds := make(map[llm.ProviderID]string, len(cfg.Credentials))
	for id, key := range cfg.Credentials {
		creds[llm.ProviderID(id)] = key
	}

	available := llm.NewRegistry(creds).Available()
	if len(available) == 0 {
		fmt.Println("No providers configured. Set at least one of:")
		fmt.Println("  ANTHROPIC_API_KEY, GROQ_API_KEY, OPENAI_API_KEY, XAI_API_KEY")
		return nil
	}

	for _, p := range available {
		fmt.Printf("%-10s %s\n", p.ID, p.Name)
		fmt.Printf("           models: %s\n", strings.Join(p.Models, ", "))
	}
	return nil
}
