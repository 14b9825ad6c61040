// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamgridhq/tamgrid/services/analysis/engine"
	"github.com/tamgridhq/tamgrid/services/analysis/handlers"
	"github.com/tamgridhq/tamgrid/services/analysis/middleware"
	"github.com/tamgridhq/tamgrid/services/llm"
)

// Options tunes route registration.
type Options struct {
	// EnableMetrics exposes Prometheus on /metrics.
	EnableMetrics bool

	// RateRPS and RateBurst bound the analyze endpoint. Zero RPS
	// disables limiting.
	RateRPS   float64
	RateBurst int
}

// SetupRoutes registers all HTTP routes for the analysis service.
func SetupRoutes(router *gin.Engine, eng *engine.Engine, registry *llm.Registry, opts Options) {
	router.GET("/health", handlers.HealthCheck)
	if opts.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.GET("/providers", handlers.ListProviders(registry))
		v1.POST("/analyze",
			middleware.RateLimit(opts.RateRPS, opts.RateBurst),
			handlers.HandleAnalyze(eng))
		v1.POST("/allocate", handlers.HandleAllocate())
	}
}
