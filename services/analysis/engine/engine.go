// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine implements the market analysis pipeline: provider
// resolution, prompt construction, completion, moderation, JSON extraction,
// and payload validation.
//
// The pipeline is strictly sequential. One request makes exactly one
// completion call and at most one moderation call; there are no retries
// and no internal concurrency. Every failure mode maps to a typed error
// (see errors.go) so the HTTP layer can translate without guesswork.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tamgridhq/tamgrid/pkg/jsonscan"
	"github.com/tamgridhq/tamgrid/services/analysis/datatypes"
	"github.com/tamgridhq/tamgrid/services/analysis/observability"
	"github.com/tamgridhq/tamgrid/services/llm"
	"github.com/tamgridhq/tamgrid/services/moderation"
)

var engineTracer = otel.Tracer("tamgrid.services.analysis")

// CompletionBackend is the slice of llm.Registry the engine needs.
// Extracted so tests can substitute canned providers and clients.
type CompletionBackend interface {
	Resolve(requested string) (llm.Provider, error)
	ClientFor(p llm.Provider, model string) (llm.Client, error)
}

// ContentGate is the moderation surface consumed by the engine.
// *moderation.Guard is the production implementation.
type ContentGate interface {
	Check(ctx context.Context, content string) moderation.Result
}

// Engine runs the analysis pipeline. Immutable after construction and
// safe for concurrent use.
type Engine struct {
	backend CompletionBackend
	gate    ContentGate
}

// NewEngine builds the pipeline over a provider registry and a moderation
// gate.
func NewEngine(backend CompletionBackend, gate ContentGate) *Engine {
	return &Engine{backend: backend, gate: gate}
}

// AnalyzeMarket runs a full market analysis: prompt the resolved provider,
// moderate the output, extract and validate the segment breakdown.
func (e *Engine) AnalyzeMarket(ctx context.Context, req datatypes.AnalyzeRequest) (*datatypes.AnalysisResult, error) {
	ctx, span := engineTracer.Start(ctx, "AnalyzeMarket")
	defer span.End()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query required", ErrInvalidInput)
	}

	provider, model, client, err := e.resolve(req.Provider, req.Model)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("llm.provider", string(provider.ID)),
		attribute.String("llm.model", model),
	)

	population := req.Population
	if population <= 0 {
		population = DefaultPopulation
	}

	content, err := client.Complete(ctx, llm.CompletionRequest{
		System:      SystemPrompt,
		User:        BuildUserPrompt(population, query),
		Temperature: llm.DefaultTemperature,
		MaxTokens:   llm.DefaultMaxTokens,
	})
	if err != nil {
		observability.Default.RecordProviderError(string(provider.ID))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Provider completion failed", "provider", provider.ID, "model", model, "error", err)
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	if res := e.gate.Check(ctx, content); res.Flagged {
		observability.Default.RecordModerationFlag()
		slog.Warn("Model response flagged by moderation", "provider", provider.ID, "categories", res.Categories)
		return nil, &ModerationError{Categories: res.Categories}
	}

	payload, err := extractPayload(content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Could not extract segment data", "provider", provider.ID, "model", model, "error", err)
		return nil, err
	}

	// The prompt demands an exact sum but models round. Mismatch is worth
	// a log line, not a failed request; the quantizer renders against the
	// recomputed sum anyway.
	if sum := payload.SegmentSum(); sum != payload.TotalPopulation {
		slog.Warn("Segment counts do not sum to the declared population",
			"declared", payload.TotalPopulation,
			"sum", sum,
			"provider", provider.ID,
			"model", model)
	}

	return &datatypes.AnalysisResult{
		TotalPopulation: payload.TotalPopulation,
		Segments:        payload.ToSegments(),
		Provider:        string(provider.ID),
		Model:           model,
	}, nil
}

// EstimatePopulation sends the query verbatim, with no analysis prompt,
// and returns the raw completion text. The UI uses this to resolve a
// population base ("how many nurses are there in Germany") before running
// the real analysis.
//
// The output is not moderated; it is never rendered as trusted content,
// only parsed for a number on the client side.
func (e *Engine) EstimatePopulation(ctx context.Context, req datatypes.AnalyzeRequest) (*datatypes.EstimateResult, error) {
	ctx, span := engineTracer.Start(ctx, "EstimatePopulation")
	defer span.End()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query required", ErrInvalidInput)
	}

	provider, model, client, err := e.resolve(req.Provider, req.Model)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("llm.provider", string(provider.ID)),
		attribute.String("llm.model", model),
	)

	content, err := client.Complete(ctx, llm.CompletionRequest{
		User:        query,
		Temperature: llm.DefaultTemperature,
		MaxTokens:   llm.DefaultMaxTokens,
	})
	if err != nil {
		observability.Default.RecordProviderError(string(provider.ID))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Provider completion failed", "provider", provider.ID, "model", model, "error", err)
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return &datatypes.EstimateResult{
		RawText:  content,
		Provider: string(provider.ID),
		Model:    model,
	}, nil
}

// resolve picks the provider, model, and client for a request.
func (e *Engine) resolve(requestedProvider, requestedModel string) (llm.Provider, string, llm.Client, error) {
	provider, err := e.backend.Resolve(requestedProvider)
	if err != nil {
		return llm.Provider{}, "", nil, err
	}
	model := provider.ResolveModel(requestedModel)
	client, err := e.backend.ClientFor(provider, model)
	if err != nil {
		return llm.Provider{}, "", nil, err
	}
	return provider, model, client, nil
}

// extractPayload pulls the first complete JSON object out of the model
// text and validates it as a segment breakdown.
func extractPayload(content string) (*datatypes.AnalysisPayload, error) {
	raw, ok := jsonscan.FirstObject(content)
	if !ok {
		return nil, ErrUnparsableResponse
	}

	// The scanner guarantees raw is valid JSON, so a decode failure here
	// means the object exists but has the wrong shape.
	var payload datatypes.AnalysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSegmentData, err)
	}
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSegmentData, err)
	}
	return &payload, nil
}
