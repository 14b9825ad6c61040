// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// Tests for the allocate and providers endpoints

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamgridhq/tamgrid/pkg/quantize"
	"github.com/tamgridhq/tamgrid/services/analysis/datatypes"
	"github.com/tamgridhq/tamgrid/services/llm"
)

func newAllocateRouter() *gin.Engine {
	router := gin.New()
	router.POST("/v1/allocate", HandleAllocate())
	return router
}

func TestHandleAllocate_Success(t *testing.T) {
	router := newAllocateRouter()

	w := postJSON(router, "/v1/allocate", datatypes.AllocateRequest{
		Segments: []quantize.Segment{
			{ID: "a", Name: "Not in market", Count: 700, Color: "#6b7280"},
			{ID: "b", Name: "Addressable", Count: 300, Color: "#3b82f6"},
		},
		DotCount: 10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.AllocateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Dots, 10)
	assert.Equal(t, 7, resp.Counts["a"])
	assert.Equal(t, 3, resp.Counts["b"])
	assert.Equal(t, "a", resp.Dots[0])
	assert.Equal(t, "b", resp.Dots[9])
}

func TestHandleAllocate_FillsMissingIDs(t *testing.T) {
	router := newAllocateRouter()

	w := postJSON(router, "/v1/allocate", gin.H{
		"segments": []gin.H{
			{"name": "Only", "count": 10, "color": "#fff"},
		},
		"dotCount": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.AllocateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Dots, 5)
	assert.NotEmpty(t, resp.Dots[0])
}

func TestHandleAllocate_DuplicateID(t *testing.T) {
	router := newAllocateRouter()

	w := postJSON(router, "/v1/allocate", datatypes.AllocateRequest{
		Segments: []quantize.Segment{
			{ID: "a", Name: "One", Count: 1, Color: "#111111"},
			{ID: "a", Name: "Two", Count: 1, Color: "#222222"},
		},
		DotCount: 10,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate id")
}

func TestHandleAllocate_NoSegments(t *testing.T) {
	router := newAllocateRouter()

	w := postJSON(router, "/v1/allocate", gin.H{"segments": []gin.H{}, "dotCount": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAllocate_NegativeDotCount(t *testing.T) {
	router := newAllocateRouter()

	w := postJSON(router, "/v1/allocate", gin.H{
		"segments": []gin.H{{"id": "a", "name": "One", "count": 1, "color": "#111111"}},
		"dotCount": -3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProviders(t *testing.T) {
	registry := llm.NewRegistry(map[llm.ProviderID]string{
		llm.ProviderGroq: "gsk_test",
	})
	router := gin.New()
	router.GET("/v1/providers", ListProviders(registry))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/providers", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Providers []struct {
			ID     string   `json:"id"`
			Name   string   `json:"name"`
			Models []string `json:"models"`
		} `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Providers, 1)
	assert.Equal(t, "groq", resp.Providers[0].ID)
	assert.NotEmpty(t, resp.Providers[0].Models)
}

func TestListProviders_Empty(t *testing.T) {
	router := gin.New()
	router.GET("/v1/providers", ListProviders(llm.NewRegistry(nil)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/providers", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"providers": []}`, w.Body.String())
}

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}
