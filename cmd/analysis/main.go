// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command analysis starts the Tamgrid analysis HTTP server.
//
// This is the entry point for the containerized service. Configuration
// comes from environment variables, with an optional .env file for local
// development and an optional YAML file named by TAMGRID_CONFIG.
//
// # Environment Variables
//
//   - TAMGRID_PORT: HTTP server port (default: 12120)
//   - ANTHROPIC_API_KEY, GROQ_API_KEY, OPENAI_API_KEY, XAI_API_KEY:
//     provider credentials; at least one is needed to serve analyses
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (optional)
//   - TAMGRID_CONFIG: path to a YAML config overlay (optional)
//
// # Usage
//
//	go build -o analysis ./cmd/analysis
//	./analysis
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/tamgridhq/tamgrid/services/analysis"
	"github.com/tamgridhq/tamgrid/services/analysis/config"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is a local development convenience; absence is normal
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.Info("Starting analysis service",
		"port", cfg.Port,
		"metrics", cfg.EnableMetrics,
		"moderation_disabled", cfg.Moderation.Disabled,
	)

	svc, err := analysis.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create analysis service: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Analysis service error: %v", err)
	}
}
