// internal/tools/government/government_test.go
package government

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agri-intelligence/internal/common/config"
	httpx "agri-intelligence/internal/common/http"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/models"
	"agri-intelligence/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestTool(t *testing.T, baseURL string) *Tool {
	return &Tool{
		client:  httpx.NewClient(2 * time.Second),
		baseURL: baseURL,
		logger:  logger.NewTestLogger(t),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestGovernmentTool_Run_CuratedCatalog(t *testing.T) {
	tool := createTestTool(t, "")

	result, err := tool.Run(context.Background(), &tools.Request{State: "Punjab", Commodity: "wheat"})

	require.NoError(t, err)
	output := result.(*Output)

	assert.Equal(t, "Punjab", output.Profile.State)
	assert.Equal(t, 2.0, output.Profile.LandSizeHa)
	require.Len(t, output.Schemes, 4)

	names := make([]string, 0, len(output.Schemes))
	var totalBenefit float64
	for _, scheme := range output.Schemes {
		names = append(names, scheme.Name)
		totalBenefit += scheme.BenefitAmount
		assert.NotEmpty(t, scheme.ApplicationProcess)
	}
	assert.Contains(t, names, "PM-KISAN")
	assert.Contains(t, names, "PMFBY")
	assert.Contains(t, names, "Kisan Credit Card")
	assert.Contains(t, names, "Soil Health Card")
	assert.Equal(t, 25500.0, totalBenefit)
}

func TestGovernmentTool_Run_FarmerLandSizeOverridesDefault(t *testing.T) {
	tool := createTestTool(t, "")

	result, err := tool.Run(context.Background(), &tools.Request{
		State:         "Haryana",
		Commodity:     "rice",
		FarmerContext: &models.FarmerContext{LandSizeHa: 5.5},
	})

	require.NoError(t, err)
	assert.Equal(t, 5.5, result.(*Output).Profile.LandSizeHa)
}

func TestGovernmentTool_Run_UpstreamSchemesPreferred(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schemes/eligible", r.URL.Path)
		assert.Equal(t, "Punjab", r.URL.Query().Get("state"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"schemes": [{"name": "State Seed Subsidy", "benefit_amount": 2000, "source": "state_api"}]}`))
	}))
	defer server.Close()

	tool := createTestTool(t, server.URL)
	result, err := tool.Run(context.Background(), &tools.Request{State: "Punjab", Commodity: "wheat"})

	require.NoError(t, err)
	output := result.(*Output)
	require.Len(t, output.Schemes, 1)
	assert.Equal(t, "State Seed Subsidy", output.Schemes[0].Name)
}

func TestGovernmentTool_Run_UpstreamFailureFallsBackToCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tool := createTestTool(t, server.URL)
	result, err := tool.Run(context.Background(), &tools.Request{State: "Punjab", Commodity: "wheat"})

	require.NoError(t, err)
	assert.Len(t, result.(*Output).Schemes, 4)
}

func TestGovernmentTool_EligibleSchemes_PMFBYNeedsCrop(t *testing.T) {
	schemes := eligibleSchemes(FarmerProfile{State: "Punjab", LandSizeHa: 2})

	for _, scheme := range schemes {
		assert.NotEqual(t, "PMFBY", scheme.Name)
	}
	assert.Len(t, schemes, 3)
}

func TestGovernmentTool_New_UsesConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.APIs.Government.BaseURL = "https://api.schemes.gov.in/"

	tool := New(cfg, logger.NewTestLogger(t))

	assert.Equal(t, "https://api.schemes.gov.in", tool.baseURL)
	assert.Equal(t, tools.ToolGovernment, tool.Name())
}
