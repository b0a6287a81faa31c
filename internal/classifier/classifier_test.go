// internal/classifier/classifier_test.go
package classifier

import (
	"testing"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestClassifier(t *testing.T) *Classifier {
	return NewClassifier(logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestClassifier_Classify_PrimaryCategories(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected models.Category
	}{
		{
			name:     "fertilizer query",
			query:    "What is the best fertilizer for wheat?",
			expected: models.CategoryFertilizerOptimization,
		},
		{
			name:     "market price query",
			query:    "What is the price of wheat in the mandi?",
			expected: models.CategoryMarketPriceForecasting,
		},
		{
			name:     "weather query",
			query:    "Will the monsoon rain affect my crop this week?",
			expected: models.CategoryWeatherImpact,
		},
		{
			name:     "government scheme query",
			query:    "Am I eligible for the pmkisan subsidy scheme?",
			expected: models.CategoryGovernmentSchemes,
		},
		{
			name:     "pest query",
			query:    "Which pesticide spray works against this insect infection?",
			expected: models.CategoryPestDiseaseManagement,
		},
		{
			name:     "yield query",
			query:    "Predict the harvest yield for my rice production",
			expected: models.CategoryYieldPrediction,
		},
	}

	classifier := createTestClassifier(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.query, nil)
			assert.Equal(t, tt.expected, result.PrimaryCategory)
			assert.GreaterOrEqual(t, result.Confidence, 0.35)
		})
	}
}

func TestClassifier_Classify_GeneralFarmingFallback(t *testing.T) {
	classifier := createTestClassifier(t)

	result := classifier.Classify("hello there my friend", nil)

	assert.Equal(t, models.CategoryGeneralFarming, result.PrimaryCategory)
	assert.Empty(t, result.SecondaryCategories)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassifier_Classify_ConfidenceRescaling(t *testing.T) {
	classifier := createTestClassifier(t)

	// Single keyword match in a low-priority category scores 0.35*0.7 raw;
	// rescaling lifts the winner to the 0.6 floor.
	result := classifier.Classify("I need to talk to the bank", nil)

	assert.Equal(t, models.CategoryFinancialPlanning, result.PrimaryCategory)
	assert.InDelta(t, 0.6, result.Confidence, 0.001)
}

func TestClassifier_Classify_SecondaryCategories(t *testing.T) {
	classifier := createTestClassifier(t)

	result := classifier.Classify(
		"How much urea fertilizer should I apply and what will the market price of wheat be?", nil)

	assert.Equal(t, models.CategoryFertilizerOptimization, result.PrimaryCategory)
	assert.LessOrEqual(t, len(result.SecondaryCategories), 2)
	assert.Contains(t, result.SecondaryCategories, models.CategoryMarketPriceForecasting)
	for _, secondary := range result.SecondaryCategories {
		assert.NotEqual(t, result.PrimaryCategory, secondary)
	}
}

func TestClassifier_Classify_EntityExtraction(t *testing.T) {
	classifier := createTestClassifier(t)

	result := classifier.Classify("Should I sow 2.5 hectares of wheat in Punjab tomorrow?", nil)

	entities := result.ExtractedEntities
	assert.Contains(t, entities.Crops, "wheat")
	assert.Contains(t, entities.Locations, "punjab")
	assert.Contains(t, entities.Numbers, 2.5)
	assert.Contains(t, entities.Dates, "tomorrow")
}

func TestClassifier_Classify_CitySuffixLocations(t *testing.T) {
	classifier := createTestClassifier(t)

	result := classifier.Classify("What is the wheat rate in Kanpur market?", nil)

	assert.Contains(t, result.ExtractedEntities.Locations, "Kanpur")
}

func TestClassifier_Classify_IntentAndUrgency(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		expectedIntent  models.Intent
		expectedUrgency models.Urgency
	}{
		{
			name:            "question with high urgency",
			query:           "my crop is dying, how do I save it urgent",
			expectedIntent:  models.IntentQuestion,
			expectedUrgency: models.UrgencyHigh,
		},
		{
			name:            "prediction with default urgency",
			query:           "forecast wheat production for my farm",
			expectedIntent:  models.IntentPrediction,
			expectedUrgency: models.UrgencyMedium,
		},
		{
			name:            "recommendation with low urgency",
			query:           "suggest crops I could grow next season",
			expectedIntent:  models.IntentRecommendation,
			expectedUrgency: models.UrgencyLow,
		},
		{
			name:            "plain statement defaults to information",
			query:           "fertilizer rates for sugarcane",
			expectedIntent:  models.IntentInformation,
			expectedUrgency: models.UrgencyMedium,
		},
	}

	classifier := createTestClassifier(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.query, nil)
			assert.Equal(t, tt.expectedIntent, result.Intent)
			assert.Equal(t, tt.expectedUrgency, result.Urgency)
		})
	}
}

func TestClassifier_Classify_LocationContext(t *testing.T) {
	classifier := createTestClassifier(t)

	t.Run("state from query", func(t *testing.T) {
		result := classifier.Classify("wheat price in punjab", nil)
		require.NotNil(t, result.LocationContext)
		assert.Equal(t, "Punjab", result.LocationContext["state"])
	})

	t.Run("farmer context overrides query", func(t *testing.T) {
		ctx := &models.FarmerContext{State: "Haryana", District: "Karnal"}
		result := classifier.Classify("wheat price in punjab", ctx)
		require.NotNil(t, result.LocationContext)
		assert.Equal(t, "Haryana", result.LocationContext["state"])
		assert.Equal(t, "Karnal", result.LocationContext["district"])
	})

	t.Run("nil when nothing resolves", func(t *testing.T) {
		result := classifier.Classify("what fertilizer should I use", nil)
		assert.Nil(t, result.LocationContext)
	})
}
