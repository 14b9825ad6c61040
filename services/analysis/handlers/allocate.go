// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tamgridhq/tamgrid/pkg/quantize"
	"github.com/tamgridhq/tamgrid/services/analysis/datatypes"
	"github.com/tamgridhq/tamgrid/services/analysis/observability"
)

// HandleAllocate serves POST /v1/allocate: a server-side dot allocation
// for clients that do not want to reimplement the quantizer. Pure
// computation, no provider calls.
func HandleAllocate() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req datatypes.AllocateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			observability.Default.RecordRequest(observability.OpAllocate, "", false)
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			observability.Default.RecordRequest(observability.OpAllocate, "", false)
			return
		}

		counts := quantize.Counts(req.Segments, req.DotCount)

		resp := datatypes.AllocateResponse{
			Dots:   make([]string, 0, req.DotCount),
			Counts: make(map[string]int, len(req.Segments)),
		}
		for i, n := range counts {
			resp.Counts[req.Segments[i].ID] = n
			for j := 0; j < n; j++ {
				resp.Dots = append(resp.Dots, req.Segments[i].ID)
			}
		}

		observability.Default.RecordDuration(observability.OpAllocate, time.Since(start).Seconds())
		observability.Default.RecordRequest(observability.OpAllocate, "", true)
		c.JSON(http.StatusOK, resp)
	}
}
