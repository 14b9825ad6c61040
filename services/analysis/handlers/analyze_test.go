// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// Tests for the analyze endpoint

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamgridhq/tamgrid/services/analysis/engine"
	"github.com/tamgridhq/tamgrid/services/llm"
	"github.com/tamgridhq/tamgrid/services/moderation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubClient returns a fixed completion.
type stubClient struct {
	reply string
	err   error
}

func (s *stubClient) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return s.reply, s.err
}

// stubBackend resolves one provider to one client.
type stubBackend struct {
	client     llm.Client
	resolveErr error
}

func (s *stubBackend) Resolve(string) (llm.Provider, error) {
	if s.resolveErr != nil {
		return llm.Provider{}, s.resolveErr
	}
	return llm.Provider{
		ID:     llm.ProviderGroq,
		Name:   "Groq (Llama / Mixtral)",
		Models: []string{"llama-3.3-70b-versatile"},
	}, nil
}

func (s *stubBackend) ClientFor(llm.Provider, string) (llm.Client, error) {
	return s.client, nil
}

// stubGate returns a fixed moderation result.
type stubGate struct {
	res moderation.Result
}

func (s *stubGate) Check(context.Context, string) moderation.Result {
	return s.res
}

func newAnalyzeRouter(backend engine.CompletionBackend, gate engine.ContentGate) *gin.Engine {
	router := gin.New()
	router.POST("/v1/analyze", HandleAnalyze(engine.NewEngine(backend, gate)))
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const segmentReply = `{"totalPopulation": 1000, "segments": [
	{"name": "Not in market", "count": 900, "color": "#6b7280"},
	{"name": "Addressable", "count": 100, "color": "#3b82f6"}
]}`

func TestHandleAnalyze_Success(t *testing.T) {
	router := newAnalyzeRouter(&stubBackend{client: &stubClient{reply: segmentReply}}, &stubGate{})

	w := postJSON(router, "/v1/analyze", gin.H{"query": "smart fridges in Norway"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalPopulation int64 `json:"totalPopulation"`
		Segments        []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Count int64  `json:"count"`
			Color string `json:"color"`
		} `json:"segments"`
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(1000), resp.TotalPopulation)
	require.Len(t, resp.Segments, 2)
	assert.NotEmpty(t, resp.Segments[0].ID)
	assert.Equal(t, "groq", resp.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", resp.Model)
}

func TestHandleAnalyze_RawResponse(t *testing.T) {
	router := newAnalyzeRouter(&stubBackend{client: &stubClient{reply: "About 1.7 million."}}, &stubGate{})

	w := postJSON(router, "/v1/analyze", gin.H{
		"query":       "How many nurses are there in Germany?",
		"rawResponse": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "About 1.7 million.", resp["rawText"])
	assert.Equal(t, "groq", resp["provider"])
}

func TestHandleAnalyze_InvalidBody(t *testing.T) {
	router := newAnalyzeRouter(&stubBackend{client: &stubClient{reply: segmentReply}}, &stubGate{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyze_MissingQuery(t *testing.T) {
	router := newAnalyzeRouter(&stubBackend{client: &stubClient{reply: segmentReply}}, &stubGate{})

	w := postJSON(router, "/v1/analyze", gin.H{"population": 1000})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Query required")
}

func TestHandleAnalyze_FlaggedContent(t *testing.T) {
	gate := &stubGate{res: moderation.Result{Flagged: true, Categories: []string{"S1"}}}
	router := newAnalyzeRouter(&stubBackend{client: &stubClient{reply: segmentReply}}, gate)

	w := postJSON(router, "/v1/analyze", gin.H{"query": "anything"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error      string   `json:"error"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "flagged by content moderation")
	assert.Equal(t, []string{"S1"}, resp.Categories)
}

func TestHandleAnalyze_UnparsableResponse(t *testing.T) {
	router := newAnalyzeRouter(&stubBackend{client: &stubClient{reply: "no json here"}}, &stubGate{})

	w := postJSON(router, "/v1/analyze", gin.H{"query": "anything"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to parse AI response")
}

func TestHandleAnalyze_NoProviderConfigured(t *testing.T) {
	router := newAnalyzeRouter(&stubBackend{resolveErr: llm.ErrNoProviderConfigured}, &stubGate{})

	w := postJSON(router, "/v1/analyze", gin.H{"query": "anything"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "no LLM provider configured")
}

func TestHandleAnalyze_RequestedProviderUnavailable(t *testing.T) {
	resolveErr := errors.Join(errors.New(`provider "anthropic"`), llm.ErrProviderUnavailable)
	router := newAnalyzeRouter(&stubBackend{resolveErr: resolveErr}, &stubGate{})

	w := postJSON(router, "/v1/analyze", gin.H{"query": "anything", "provider": "anthropic"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyze_ProviderFailure(t *testing.T) {
	router := newAnalyzeRouter(&stubBackend{client: &stubClient{err: errors.New("upstream 500")}}, &stubGate{})

	w := postJSON(router, "/v1/analyze", gin.H{"query": "anything"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal detail stays out of the response body.
	assert.NotContains(t, w.Body.String(), "upstream 500")
	assert.Contains(t, w.Body.String(), "Analysis failed")
}
