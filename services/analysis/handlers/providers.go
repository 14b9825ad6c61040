// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tamgridhq/tamgrid/services/llm"
)

// ListProviders serves GET /v1/providers: the providers whose credential
// is configured, with their model catalogs. The UI uses this to populate
// its provider picker.
func ListProviders(registry *llm.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		available := registry.Available()
		providers := make([]gin.H, 0, len(available))
		for _, p := range available {
			providers = append(providers, gin.H{
				"id":     p.ID,
				"name":   p.Name,
				"models": p.Models,
			})
		}
		c.JSON(http.StatusOK, gin.H{"providers": providers})
	}
}
