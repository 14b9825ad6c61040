// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the request and response shapes for the
// analysis service.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tamgridhq/tamgrid/pkg/quantize"
	"github.com/tamgridhq/tamgrid/pkg/validation"
)

var validate = validator.New()

// AnalyzeRequest is the body of POST /v1/analyze.
//
// Population defaults to the world population when zero. RawResponse
// switches the call to population estimation: the query is sent verbatim
// with no analysis prompt and the text comes back unparsed.
type AnalyzeRequest struct {
	Query       string `json:"query" validate:"required"`
	Population  int64  `json:"population,omitempty" validate:"omitempty,gt=0"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	RawResponse bool   `json:"rawResponse,omitempty"`
}

// Validate checks structural constraints on the request.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// SegmentPayload is one segment as the model emits it: no id, just the
// display fields.
type SegmentPayload struct {
	Name  string `json:"name" validate:"required"`
	Count int64  `json:"count" validate:"gte=0"`
	Color string `json:"color" validate:"required"`
}

// AnalysisPayload is the JSON object extracted from the model response.
type AnalysisPayload struct {
	TotalPopulation int64            `json:"totalPopulation" validate:"gt=0"`
	Segments        []SegmentPayload `json:"segments" validate:"required,min=1,dive"`
}

// Validate checks the decoded model output for structural sanity. The
// model is an untrusted producer; a well-formed JSON object can still
// carry unusable segment data.
func (p *AnalysisPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	for i, s := range p.Segments {
		if err := validation.ValidateSegmentName(s.Name); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if err := validation.ValidateHexColor(s.Color); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

// SegmentSum returns the total of the per-segment counts.
func (p *AnalysisPayload) SegmentSum() int64 {
	var sum int64
	for _, s := range p.Segments {
		sum += s.Count
	}
	return sum
}

// ToSegments converts the payload segments into the canonical Segment
// type, assigning a fresh id to each since the model never provides one.
func (p *AnalysisPayload) ToSegments() []quantize.Segment {
	out := make([]quantize.Segment, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = quantize.Segment{
			ID:    uuid.NewString(),
			Name:  s.Name,
			Count: s.Count,
			Color: s.Color,
		}
	}
	return out
}

// AnalysisResult is the successful response of a market analysis: the
// validated segment breakdown plus the provider and model that produced it.
type AnalysisResult struct {
	TotalPopulation int64              `json:"totalPopulation"`
	Segments        []quantize.Segment `json:"segments"`
	Provider        string             `json:"provider"`
	Model           string             `json:"model"`
}

// EstimateResult is the successful response of a raw population
// estimation call.
type EstimateResult struct {
	RawText  string `json:"rawText"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// AllocateRequest is the body of POST /v1/allocate.
type AllocateRequest struct {
	Segments []quantize.Segment `json:"segments" validate:"required,min=1,dive"`
	DotCount int                `json:"dotCount" validate:"gte=0"`
}

// Validate checks the allocation request: segment ids must be unique and
// counts non-negative. Missing ids are filled in so the dot array always
// references something.
func (r *AllocateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(r.Segments))
	for i := range r.Segments {
		s := &r.Segments[i]
		if s.Count < 0 {
			return fmt.Errorf("segment %d: count must be non-negative", i)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("segment %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// AllocateResponse carries the dot array (one segment id per dot) and the
// per-segment dot counts.
type AllocateResponse struct {
	Dots   []string       `json:"dots"`
	Counts map[string]int `json:"counts"`
}
