// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package moderation screens user-authored market descriptions before they
// are trusted by the analysis pipeline.
//
// The gate runs Llama Guard on Groq and fails open: if the guard is not
// configured, or the classification call errors out, content is treated as
// safe. Blocking analysis on a moderation outage would take the whole
// product down with it.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the Llama Guard variant used for classification.
const DefaultModel = "llama-guard-3-8b"

const (
	groqBaseURL = "https://api.groq.com/openai/v1"

	// The guard emits "safe" or "unsafe" plus category codes. A small token
	// budget keeps the call cheap and stops the model from elaborating.
	maxVerdictTokens = 100
)

// Result is the outcome of one moderation check. Categories holds the
// hazard codes (S1, S2, ...) reported for flagged content.
type Result struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories,omitempty"`
}

// completer is the slice of the OpenAI client the guard actually uses,
// extracted so tests can substitute a canned backend.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Guard classifies free-form text with Llama Guard. A Guard built without a
// credential is permanently disabled and approves everything.
type Guard struct {
	client  completer
	model   string
	enabled bool
}

// NewGuard builds a moderation gate backed by Groq. An empty apiKey yields
// a disabled gate; the degraded state is logged once here rather than on
// every request.
func NewGuard(apiKey, model string) *Guard {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		slog.Warn("Content moderation disabled: no Groq credential configured")
		return &Guard{model: model}
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &Guard{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		enabled: true,
	}
}

// Enabled reports whether the gate will actually call the classifier.
func (g *Guard) Enabled() bool {
	return g.enabled
}

// Check classifies content. Transport and API failures are logged and
// reported as safe.
func (g *Guard) Check(ctx context.Context, content string) Result {
	if !g.enabled {
		return Result{}
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		// go-openai omits a zero temperature from the request body; the
		// smallest positive float32 survives serialization and is
		// indistinguishable from zero for sampling purposes.
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   maxVerdictTokens,
	})
	if err != nil {
		slog.Warn("Moderation check failed, allowing content through", "error", err)
		return Result{}
	}
	if len(resp.Choices) == 0 {
		slog.Warn("Moderation returned no choices, allowing content through")
		return Result{}
	}
	return parseVerdict(resp.Choices[0].Message.Content)
}

// parseVerdict interprets the Llama Guard response format: a first line of
// "safe" or "unsafe", followed by one hazard category code per line.
func parseVerdict(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}
	}
	lines := strings.Split(trimmed, "\n")
	if !strings.EqualFold(strings.TrimSpace(lines[0]), "unsafe") {
		return Result{}
	}
	var categories []string
	for _, line := range lines[1:] {
		if c := strings.TrimSpace(line); c != "" {
			categories = append(categories, c)
		}
	}
	return Result{Flagged: true, Categories: categories}
}

// String renders a Result for log lines.
func (r Result) String() string {
	if !r.Flagged {
		return "safe"
	}
	return fmt.Sprintf("unsafe (%s)", strings.Join(r.Categories, ", "))
}
