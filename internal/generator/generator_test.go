// internal/generator/generator_test.go
package generator

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/llm"
	"agri-intelligence/internal/models"
	"agri-intelligence/internal/tools/docsearch"
	"agri-intelligence/internal/tools/market"
	"agri-intelligence/internal/tools/weather"
	"agri-intelligence/internal/tools/websearch"
	"agri-intelligence/internal/tools/yieldmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestGenerator(t *testing.T, adapter llm.Adapter) *Generator {
	return New(adapter, "test-model", logger.NewTestLogger(t))
}

func createClassification(category models.Category) models.QueryClassification {
	return models.QueryClassification{
		PrimaryCategory: category,
		Urgency:         models.UrgencyMedium,
		ExtractedEntities: models.ExtractedEntities{
			Crops:     []string{"wheat"},
			Locations: []string{"Punjab"},
		},
	}
}

func emptyContext() models.FusedContext {
	return models.FusedContext{
		WeatherIntelligence: map[string]interface{}{},
		MarketIntelligence:  map[string]interface{}{},
		AgriculturalData:    map[string]interface{}{},
		GovernmentInfo:      map[string]interface{}{},
		WebIntelligence:     map[string]interface{}{},
	}
}

// ==========================
// Persona Selection Tests
// ==========================

func TestGenerator_Generate_UsesCategoryPersona(t *testing.T) {
	adapter := llm.NewMockAdapter()
	gen := createTestGenerator(t, adapter)

	gen.Generate(context.Background(), "How much urea for wheat?",
		createClassification(models.CategoryFertilizerOptimization), emptyContext(), nil)

	require.Equal(t, 1, adapter.CallCount())
	prompt := adapter.Calls[0]
	assert.Contains(t, prompt, "senior agricultural scientist with 25 years of experience in soil nutrition")
	assert.Contains(t, prompt, `A farmer has approached you with this question: "How much urea for wheat?"`)
	assert.Contains(t, prompt, "- Primary concern: Fertilizer Optimization")
	assert.Contains(t, prompt, "- Crops mentioned: wheat")
	assert.Contains(t, prompt, "- Location context: Punjab")
	assert.Contains(t, prompt, `Start with a warm, respectful greeting`)
	assert.Contains(t, prompt, "RESPONSE LENGTH: 300-500 words")
}

func TestGenerator_Generate_UnknownCategoryGetsGeneralAdvisor(t *testing.T) {
	adapter := llm.NewMockAdapter()
	gen := createTestGenerator(t, adapter)

	gen.Generate(context.Background(), "Should I take a crop loan?",
		createClassification(models.CategoryFinancialPlanning), emptyContext(), nil)

	require.Equal(t, 1, adapter.CallCount())
	assert.Contains(t, adapter.Calls[0], "general agricultural advisor")
}

func TestExpertSpecialization(t *testing.T) {
	assert.Equal(t, "Entomologist & Plant Pathologist", ExpertSpecialization(models.CategoryPestDiseaseManagement))
	assert.Equal(t, "General Agricultural Advisory Expert", ExpertSpecialization(models.CategoryFinancialPlanning))
}

// ==========================
// Context Section Tests
// ==========================

func TestGenerator_BuildPrompt_WeatherSection(t *testing.T) {
	fused := emptyContext()
	fused.WeatherIntelligence["current_conditions"] = weather.Current{
		Temperature: 31.5, Humidity: 48, Description: "scattered clouds", Location: "Ludhiana, IN",
	}
	fused.WeatherIntelligence["agricultural_advisories"] = []string{
		"High temperature - schedule early morning irrigation",
		"Normal conditions for farming operations",
		"Cool nights - monitor for frost",
	}

	prompt := buildExpertPrompt("Will it rain?", createClassification(models.CategoryWeatherImpact), fused, nil)

	assert.Contains(t, prompt, "CURRENT WEATHER CONDITIONS:")
	assert.Contains(t, prompt, "- Temperature: 31.5°C")
	assert.Contains(t, prompt, "- Humidity: 48%")
	assert.Contains(t, prompt, "- Location: Ludhiana, IN")
	// Only the first two advisories are surfaced.
	assert.Contains(t, prompt, "High temperature - schedule early morning irrigation, Normal conditions for farming operations")
	assert.NotContains(t, prompt, "Cool nights")
}

func TestGenerator_BuildPrompt_MarketSection(t *testing.T) {
	fused := emptyContext()
	fused.MarketIntelligence["current_prices"] = []market.PriceRecord{
		{Commodity: "wheat", ModalPrice: 2250, MarketName: "Khanna"},
	}
	fused.MarketIntelligence["price_analytics"] = &market.Analytics{PriceTrend: "increasing"}

	prompt := buildExpertPrompt("When should I sell?", createClassification(models.CategoryMarketPriceForecasting), fused, nil)

	assert.Contains(t, prompt, "MARKET PRICE INFORMATION:")
	assert.Contains(t, prompt, "- Current price: ₹2250 per quintal")
	assert.Contains(t, prompt, "- Market: Khanna")
	assert.Contains(t, prompt, "- Trend: increasing")
}

func TestGenerator_BuildPrompt_KnowledgeAndYieldSections(t *testing.T) {
	fused := emptyContext()
	fused.AgriculturalData["search_results"] = []docsearch.Document{
		{DocumentText: "Apply urea in two split doses.", SourceFile: "wheat_guide.pdf"},
	}
	fused.AgriculturalData["yield_forecast"] = &yieldmodel.Output{
		PredictedYieldKgPerHa: 3420,
		PredictionConfidence:  "MEDIUM",
		Recommendations:       []string{"Optimize fertilizer application based on soil test"},
	}

	prompt := buildExpertPrompt("What yield can I expect?", createClassification(models.CategoryYieldPrediction), fused, nil)

	assert.Contains(t, prompt, "RELEVANT AGRICULTURAL KNOWLEDGE:")
	assert.Contains(t, prompt, "1. Apply urea in two split doses....")
	assert.Contains(t, prompt, "YIELD PREDICTION ANALYSIS:")
	assert.Contains(t, prompt, "- Predicted yield: 3420 kg/ha")
	assert.Contains(t, prompt, "- Confidence level: MEDIUM")
}

func TestGenerator_BuildPrompt_WebResultsAlwaysSurfaced(t *testing.T) {
	fused := emptyContext()
	fused.WebIntelligence["latest_news"] = []websearch.Result{
		{Title: "Aphid alert in Punjab", Source: "icar.org.in", Snippet: "Monitor wheat fields.", RelevanceScore: 0.9},
	}

	// Fertilizer priorities do not include web search, but fresh results
	// are still included.
	prompt := buildExpertPrompt("Urea dose?", createClassification(models.CategoryFertilizerOptimization), fused, nil)

	assert.Contains(t, prompt, "LATEST AGRICULTURAL INFORMATION:")
	assert.Contains(t, prompt, "1. Aphid alert in Punjab (Source: icar.org.in)")
	assert.Contains(t, prompt, "Relevance: 0.9/1.0")
}

func TestGenerator_BuildPrompt_NoDataFallsBackToGeneralGuidance(t *testing.T) {
	classification := createClassification(models.CategoryPestDiseaseManagement)

	prompt := buildExpertPrompt("My crop has spots", classification, emptyContext(), nil)

	assert.Contains(t, prompt, "Limited data available - providing general expert guidance.")
}

func TestGenerator_BuildPrompt_FarmerProfile(t *testing.T) {
	farmer := &models.FarmerContext{
		State:      "Punjab",
		District:   "Ludhiana",
		LandSizeHa: 2.5,
		Crops:      []string{"wheat", "rice"},
		Experience: "10 years",
	}

	prompt := buildExpertPrompt("General advice?", createClassification(models.CategoryGeneralFarming), emptyContext(), farmer)

	assert.Contains(t, prompt, "FARMER PROFILE:")
	assert.Contains(t, prompt, "- Location: Ludhiana, Punjab")
	assert.Contains(t, prompt, "- Farm size: 2.5 hectares")
	assert.Contains(t, prompt, "- Crops grown: wheat, rice")
}

// ==========================
// Fallback Tests
// ==========================

func TestGenerator_Generate_FallbackOnAdapterError(t *testing.T) {
	adapter := llm.NewMockAdapter()
	adapter.Err = assert.AnError
	gen := createTestGenerator(t, adapter)

	response := gen.Generate(context.Background(), "How much urea?",
		createClassification(models.CategoryFertilizerOptimization), emptyContext(), nil)

	assert.Contains(t, response, "Namaste! For optimal fertilizer management")
	assert.Contains(t, response, "Krishi Vigyan Kendra")
}

func TestFallbackResponse_UnknownCategoryGetsGeneralText(t *testing.T) {
	response := FallbackResponse(models.CategoryIrrigationPlanning)

	assert.Contains(t, response, "comprehensive farming guidance")
}

func TestTruncate_CutsOnRuneBoundaries(t *testing.T) {
	hindi := strings.Repeat("गेहूं की फसल ", 20)

	cut := truncate(hindi, 50)

	assert.Equal(t, 50, len([]rune(cut)))
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "short", truncate("short", 50))
}

// ==========================
// Temperature Tests
// ==========================

func TestTemperatureFor(t *testing.T) {
	tests := []struct {
		category models.Category
		expected float32
	}{
		{models.CategoryPestDiseaseManagement, 0.1},
		{models.CategoryFertilizerOptimization, 0.1},
		{models.CategorySeasonalPlanning, 0.4},
		{models.CategoryCropSelection, 0.4},
		{models.CategoryWeatherImpact, 0.3},
		{models.CategoryGeneralFarming, 0.3},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, temperatureFor(tt.category))
		})
	}
}
