// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers contains the Gin handlers for the analysis service.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tamgridhq/tamgrid/services/analysis/datatypes"
	"github.com/tamgridhq/tamgrid/services/analysis/engine"
	"github.com/tamgridhq/tamgrid/services/analysis/observability"
	"github.com/tamgridhq/tamgrid/services/llm"
)

// HandleAnalyze serves POST /v1/analyze.
//
// One endpoint, two operations: rawResponse=true runs a bare population
// estimation, otherwise the full market analysis pipeline. The split into
// two engine calls keeps their very different contracts (unmoderated raw
// text vs validated segment data) from sharing a code path.
func HandleAnalyze(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query required"})
			return
		}

		op := observability.OpAnalyze
		if req.RawResponse {
			op = observability.OpEstimate
		}
		start := time.Now()

		var (
			body     any
			provider string
			err      error
		)
		if req.RawResponse {
			var res *datatypes.EstimateResult
			res, err = eng.EstimatePopulation(c.Request.Context(), req)
			if res != nil {
				body, provider = res, res.Provider
			}
		} else {
			var res *datatypes.AnalysisResult
			res, err = eng.AnalyzeMarket(c.Request.Context(), req)
			if res != nil {
				body, provider = res, res.Provider
			}
		}

		observability.Default.RecordDuration(op, time.Since(start).Seconds())
		observability.Default.RecordRequest(op, provider, err == nil)

		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}

// respondError translates a pipeline error into an HTTP response. The
// typed taxonomy carries the status; the body text stays user-facing and
// never leaks internals.
func respondError(c *gin.Context, err error) {
	status := engine.HTTPStatus(err)

	var modErr *engine.ModerationError
	if errors.As(err, &modErr) {
		c.JSON(status, gin.H{
			"error":      "The AI response was flagged by content moderation for potentially inappropriate content. Please rephrase your query.",
			"categories": modErr.Categories,
		})
		return
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		c.JSON(status, gin.H{"error": err.Error()})
	default:
		if errors.Is(err, llm.ErrNoProviderConfigured) {
			c.JSON(status, gin.H{"error": llm.ErrNoProviderConfigured.Error()})
			return
		}
		if errors.Is(err, engine.ErrUnparsableResponse) {
			c.JSON(status, gin.H{"error": "Failed to parse AI response"})
			return
		}
		if errors.Is(err, engine.ErrMalformedSegmentData) {
			c.JSON(status, gin.H{"error": "AI response contained malformed segment data"})
			return
		}
		c.JSON(status, gin.H{"error": "Analysis failed. Check your API key and try again."})
	}
}
