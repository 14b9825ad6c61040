// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// Tests for the rate limit middleware

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.GET("/limited", RateLimit(rps, burst), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func get(router *gin.Engine) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/limited", nil)
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	router := newLimitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router))
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	// 1 request per 10 minutes, burst 1: the second request in the same
	// instant must be rejected.
	router := newLimitedRouter(1.0/600, 1)

	assert.Equal(t, http.StatusOK, get(router))
	assert.Equal(t, http.StatusTooManyRequests, get(router))
}

func TestRateLimit_DisabledWithZeroRPS(t *testing.T) {
	router := newLimitedRouter(0, 0)

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, get(router))
	}
}
