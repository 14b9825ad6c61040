// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads analysis service configuration.
//
// Configuration comes from the environment, with an optional YAML overlay
// for deployments that prefer a file (set TAMGRID_CONFIG to its path).
// Environment values win over file values so container overrides keep
// working. Credentials are only ever read here; the rest of the process
// receives them by injection.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ModerationConfig tunes the Llama Guard gate.
type ModerationConfig struct {
	// Model overrides the default Llama Guard variant.
	Model string `yaml:"model"`

	// Disabled turns the gate off even when a Groq credential exists.
	Disabled bool `yaml:"disabled"`
}

// RateLimitConfig bounds the analyze endpoint.
type RateLimitConfig struct {
	// RPS is the sustained request rate. Zero disables limiting.
	RPS float64 `yaml:"rps"`

	// Burst is the token bucket depth.
	Burst int `yaml:"burst"`
}

// Config holds everything the analysis service needs to start.
type Config struct {
	// Port is the HTTP server port. Default: 12120.
	Port int `yaml:"port"`

	// LogLevel is the minimum slog level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// GinMode sets the Gin framework mode (debug, release, test).
	GinMode string `yaml:"gin_mode"`

	// OTelEndpoint is the OTLP/gRPC collector address. Empty disables
	// trace export.
	OTelEndpoint string `yaml:"otel_endpoint"`

	// EnableMetrics exposes Prometheus on /metrics. Default: true.
	EnableMetrics bool `yaml:"enable_metrics"`

	// Credentials maps provider ids (anthropic, groq, openai, grok) to
	// API keys. Never serialized back out.
	Credentials map[string]string `yaml:"-"`

	Moderation ModerationConfig `yaml:"moderation"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// credentialEnvKeys maps provider ids to the environment variables that
// carry their API keys.
var credentialEnvKeys = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"groq":      "GROQ_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"grok":      "XAI_API_KEY",
}

// Load assembles the configuration: defaults, then the optional YAML file
// named by TAMGRID_CONFIG, then environment overrides.
func Load() (Config, error) {
	cfg := Config{
		Port:          12120,
		LogLevel:      "info",
		EnableMetrics: true,
		RateLimit:     RateLimitConfig{RPS: 5, Burst: 10},
	}

	if path := os.Getenv("TAMGRID_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	cfg.Credentials = make(map[string]string, len(credentialEnvKeys))
	for id, envKey := range credentialEnvKeys {
		if v := os.Getenv(envKey); v != "" {
			cfg.Credentials[id] = v
		}
	}

	return cfg, nil
}

// applyEnv overrides file and default values with environment variables.
func applyEnv(cfg *Config) {
	if v := getEnvInt("TAMGRID_PORT", 0); v > 0 {
		cfg.Port = v
	}
	if v := os.Getenv("TAMGRID_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTelEndpoint = v
	}
	if v := os.Getenv("TAMGRID_DISABLE_METRICS"); v == "true" || v == "1" {
		cfg.EnableMetrics = false
	}
	if v := os.Getenv("TAMGRID_MODERATION_MODEL"); v != "" {
		cfg.Moderation.Model = v
	}
	if v := os.Getenv("TAMGRID_DISABLE_MODERATION"); v == "true" || v == "1" {
		cfg.Moderation.Disabled = true
	}
	if v := getEnvFloat("TAMGRID_RATE_RPS", -1); v >= 0 {
		cfg.RateLimit.RPS = v
	}
	if v := getEnvInt("TAMGRID_RATE_BURST", 0); v > 0 {
		cfg.RateLimit.Burst = v
	}
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
