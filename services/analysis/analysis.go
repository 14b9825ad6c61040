// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analysis assembles the market analysis service: provider
// registry, moderation gate, pipeline engine, observability, and HTTP
// routing behind one runnable Service.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/tamgridhq/tamgrid/services/analysis/config"
	"github.com/tamgridhq/tamgrid/services/analysis/engine"
	"github.com/tamgridhq/tamgrid/services/analysis/observability"
	"github.com/tamgridhq/tamgrid/services/analysis/routes"
	"github.com/tamgridhq/tamgrid/services/llm"
	"github.com/tamgridhq/tamgrid/services/moderation"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service is the analysis server lifecycle.
//
// Run blocks until the server stops and should be called at most once per
// instance. Router exposes the configured Gin engine for integration
// tests; callers must not modify it.
type Service interface {
	Run() error
	Router() *gin.Engine
}

// =============================================================================
// Implementation
// =============================================================================

// service wires the registry, moderation gate, engine, observability, and
// HTTP routing into one runnable unit. All fields are read-only after
// New returns.
type service struct {
	config        config.Config
	router        *gin.Engine
	registry      *llm.Registry
	guard         *moderation.Guard
	engine        *engine.Engine
	tracerCleanup func(context.Context)
}

// New creates an analysis Service from loaded configuration.
//
// Initialization order matters: tracing and metrics come up first so
// every later component is observed, then the provider registry from the
// injected credentials, then the moderation gate (which shares the Groq
// credential), then the engine and router.
func New(cfg config.Config) (Service, error) {
	s := &service{config: cfg}

	if cfg.OTelEndpoint != "" {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	if cfg.EnableMetrics {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics")
	}

	creds := make(map[llm.ProviderID]string, len(cfg.Credentials))
	for id, key := range cfg.Credentials {
		creds[llm.ProviderID(id)] = key
	}
	s.registry = llm.NewRegistry(creds)
	if available := s.registry.Available(); len(available) == 0 {
		slog.Warn("No LLM provider configured; analysis requests will fail until a credential is set")
	} else {
		ids := make([]string, 0, len(available))
		for _, p := range available {
			ids = append(ids, string(p.ID))
		}
		slog.Info("LLM providers configured", "providers", ids)
	}

	groqKey := s.registry.Credential(llm.ProviderGroq)
	if cfg.Moderation.Disabled {
		groqKey = ""
	}
	s.guard = moderation.NewGuard(groqKey, cfg.Moderation.Model)

	s.engine = engine.NewEngine(s.registry, s.guard)

	s.initRouter()

	return s, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting analysis server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// initTracer sets up the OTLP trace exporter toward the configured
// collector. Uses an insecure gRPC connection, appropriate for internal
// networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("analysis-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("analysis-service"))

	routes.SetupRoutes(s.router, s.engine, s.registry, routes.Options{
		EnableMetrics: s.config.EnableMetrics,
		RateRPS:       s.config.RateLimit.RPS,
		RateBurst:     s.config.RateLimit.Burst,
	})
}

// cleanup releases resources when Run exits.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
