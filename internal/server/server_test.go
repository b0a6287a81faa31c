// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agri-intelligence/internal/common/config"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// recordingPipeline captures the last query handed to it.
type recordingPipeline struct {
	lastQuery  string
	lastFarmer *models.FarmerContext
	response   models.QueryResponse
}

func (p *recordingPipeline) ProcessQuery(_ context.Context, query string, farmer *models.FarmerContext) models.QueryResponse {
	p.lastQuery = query
	p.lastFarmer = farmer
	return p.response
}

func createTestServer(t *testing.T, pipeline *recordingPipeline) *httptest.Server {
	srv := New(pipeline, &config.Config{}, logger.NewTestLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func successResponse() models.QueryResponse {
	return models.QueryResponse{
		Success:  true,
		Response: "Apply 120kg N per hectare in split doses.",
		Metadata: models.QueryMetadata{
			RequestID:       "req-1",
			QueryCategory:   models.CategoryFertilizerOptimization,
			FactCheckStatus: models.ValidationApproved,
		},
	}
}

func postQuery(t *testing.T, ts *httptest.Server, payload string) *http.Response {
	resp, err := http.Post(ts.URL+"/api/v1/query", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ==========================
// Query Endpoint Tests
// ==========================

func TestHandleQuery_Success(t *testing.T) {
	pipeline := &recordingPipeline{response: successResponse()}
	ts := createTestServer(t, pipeline)

	resp := postQuery(t, ts, `{"query": "How much fertilizer for wheat?"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body models.QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "Apply 120kg N per hectare in split doses.", body.Response)
	assert.Equal(t, "How much fertilizer for wheat?", pipeline.lastQuery)
	assert.Nil(t, pipeline.lastFarmer)
}

func TestHandleQuery_FarmerContextDecoded(t *testing.T) {
	pipeline := &recordingPipeline{response: successResponse()}
	ts := createTestServer(t, pipeline)

	resp := postQuery(t, ts, `{
		"query": "Which crop should I plant?",
		"farmer_context": {
			"state": "Punjab",
			"district": "Ludhiana",
			"land_size_ha": 2.5,
			"crops": ["wheat", "rice"]
		}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, pipeline.lastFarmer)
	assert.Equal(t, "Punjab", pipeline.lastFarmer.State)
	assert.Equal(t, "Ludhiana", pipeline.lastFarmer.District)
	assert.InDelta(t, 2.5, pipeline.lastFarmer.LandSizeHa, 0.001)
	assert.Equal(t, []string{"wheat", "rice"}, pipeline.lastFarmer.Crops)
}

func TestHandleQuery_MissingQueryRejected(t *testing.T) {
	pipeline := &recordingPipeline{response: successResponse()}
	ts := createTestServer(t, pipeline)

	resp := postQuery(t, ts, `{"farmer_context": {"state": "Punjab"}}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "request validation failed", body.Error)
	assert.NotEmpty(t, body.Details)
	assert.Empty(t, pipeline.lastQuery)
}

func TestHandleQuery_EmptyQueryRejected(t *testing.T) {
	ts := createTestServer(t, &recordingPipeline{response: successResponse()})

	resp := postQuery(t, ts, `{"query": ""}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleQuery_UnknownFieldRejected(t *testing.T) {
	ts := createTestServer(t, &recordingPipeline{response: successResponse()})

	resp := postQuery(t, ts, `{"query": "How much urea?", "session": "abc"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleQuery_InvalidJSON(t *testing.T) {
	ts := createTestServer(t, &recordingPipeline{response: successResponse()})

	resp := postQuery(t, ts, `{"query": `)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid JSON payload", body.Error)
}

func TestHandleQuery_MethodNotAllowed(t *testing.T) {
	ts := createTestServer(t, &recordingPipeline{response: successResponse()})

	resp, err := http.Get(ts.URL + "/api/v1/query")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// ==========================
// Auxiliary Endpoint Tests
// ==========================

func TestHandleLanguages(t *testing.T) {
	ts := createTestServer(t, &recordingPipeline{})

	resp, err := http.Get(ts.URL + "/api/v1/languages")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Languages []struct {
			Code   string `json:"code"`
			Name   string `json:"name"`
			Native string `json:"native"`
		} `json:"languages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Languages)

	codes := make([]string, 0, len(body.Languages))
	for _, lang := range body.Languages {
		codes = append(codes, lang.Code)
	}
	assert.Contains(t, codes, "en")
	assert.Contains(t, codes, "hi")
	assert.Contains(t, codes, "pa")
}

func TestHandleHealth(t *testing.T) {
	ts := createTestServer(t, &recordingPipeline{})

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, "healthy", body["status"])
		assert.NotEmpty(t, body["time"])
	}
}

func TestHandleMetrics(t *testing.T) {
	ts := createTestServer(t, &recordingPipeline{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
