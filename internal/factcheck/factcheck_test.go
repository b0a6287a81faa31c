// internal/factcheck/factcheck_test.go
package factcheck

import (
	"context"
	"strings"
	"testing"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/language"
	"agri-intelligence/internal/llm"
	"agri-intelligence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestChecker(t *testing.T, adapter llm.Adapter) *Checker {
	log := logger.NewTestLogger(t)
	cache := language.NewTranslationCache(16, nil, 0)
	translator := language.NewTranslator(adapter, "test-model", cache, log)
	return New(adapter, "test-model", language.NewDetector(log), translator, log)
}

func accurateVerdict() string {
	return `ACCURACY_SCORE: 0.92
IS_ACCURATE: TRUE
CONFIDENCE_LEVEL: 0.9

IDENTIFIED_ISSUES:
-

OVERALL_ASSESSMENT: Response is accurate and safe.`
}

func inaccurateVerdict() string {
	return `ACCURACY_SCORE: 0.35
IS_ACCURATE: FALSE
CONFIDENCE_LEVEL: 0.8

IDENTIFIED_ISSUES:
- NPK dose exceeds recommended limits for wheat
- Mentioned pesticide is banned in India

CRITICAL_CORRECTIONS_NEEDED:
- Correct the urea quantity

OVERALL_ASSESSMENT: Response contains unsafe recommendations.`
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

// flakyAdapter answers the fact-check call and fails everything else.
type flakyAdapter struct {
	verdict string
}

func (a *flakyAdapter) Name() string { return "flaky" }

func (a *flakyAdapter) Generate(_ context.Context, _ string, prompt string, _ llm.Options) (string, error) {
	if strings.Contains(prompt, "FACT CHECKER") {
		return a.verdict, nil
	}
	return "", assert.AnError
}

// ==========================
// Validation Path Tests
// ==========================

func TestChecker_Validate_ApprovedEnglish(t *testing.T) {
	adapter := llm.NewMockAdapter()
	adapter.SetResponse("FACT CHECKER", accurateVerdict())
	checker := createTestChecker(t, adapter)

	result := checker.Validate(context.Background(), "How much urea for wheat?",
		"Apply 120kg N per hectare in split doses.", emptyContext())

	assert.Equal(t, models.ValidationApproved, result.ValidationStatus)
	assert.Equal(t, models.LangEnglish, result.OriginalLanguage)
	assert.Equal(t, "Apply 120kg N per hectare in split doses.", result.FinalResponse)
	assert.True(t, result.FactCheckDetails.IsAccurate)
	assert.InDelta(t, 0.92, result.FactCheckDetails.AccuracyScore, 0.001)
	assert.InDelta(t, 0.9, result.FactCheckDetails.Confidence, 0.001)
}

func TestChecker_Validate_ApprovedHindiIsTranslated(t *testing.T) {
	adapter := llm.NewMockAdapter()
	adapter.SetResponse("FACT CHECKER", accurateVerdict())
	adapter.SetResponse("Target language", "गेहूं के लिए 120 किलो नाइट्रोजन डालें।")
	checker := createTestChecker(t, adapter)

	result := checker.Validate(context.Background(), "मेरी गेहूं की फसल के लिए कितनी खाद चाहिए?",
		"Apply 120kg N per hectare.", emptyContext())

	assert.Equal(t, models.ValidationApproved, result.ValidationStatus)
	assert.Equal(t, models.LangHindi, result.OriginalLanguage)
	assert.Equal(t, "गेहूं के लिए 120 किलो नाइट्रोजन डालें।", result.FinalResponse)
}

func TestChecker_Validate_CorrectedResponse(t *testing.T) {
	adapter := llm.NewMockAdapter()
	adapter.SetResponse("FACT CHECKER", inaccurateVerdict())
	adapter.SetResponse("SENIOR AGRICULTURAL EXPERT", "Namaste! The verified urea dose for wheat is 120kg N per hectare.")
	checker := createTestChecker(t, adapter)

	result := checker.Validate(context.Background(), "How much urea for wheat?",
		"Apply 500kg urea per acre.", emptyContext())

	assert.Equal(t, models.ValidationCorrected, result.ValidationStatus)
	assert.Equal(t, "Namaste! The verified urea dose for wheat is 120kg N per hectare.", result.FinalResponse)
	assert.False(t, result.FactCheckDetails.IsAccurate)
	require.Len(t, result.FactCheckDetails.Issues, 2)
	assert.Equal(t, "NPK dose exceeds recommended limits for wheat", result.FactCheckDetails.Issues[0])
}

func TestChecker_Validate_FailsOpenWhenCheckerDown(t *testing.T) {
	adapter := llm.NewMockAdapter()
	adapter.Err = assert.AnError
	checker := createTestChecker(t, adapter)

	result := checker.Validate(context.Background(), "How much urea for wheat?",
		"Apply 120kg N per hectare.", emptyContext())

	assert.Equal(t, models.ValidationApproved, result.ValidationStatus)
	assert.Equal(t, "Apply 120kg N per hectare.", result.FinalResponse)
	assert.True(t, result.FactCheckDetails.IsAccurate)
	assert.InDelta(t, 0.5, result.FactCheckDetails.Confidence, 0.001)
}

func TestChecker_Validate_FallbackApologyWhenCorrectionFails(t *testing.T) {
	checker := createTestChecker(t, &flakyAdapter{verdict: inaccurateVerdict()})

	result := checker.Validate(context.Background(), "मेरी गेहूं की फसल में कीड़े लग गए हैं, क्या करूं?",
		"Spray anything you find.", emptyContext())

	assert.Equal(t, models.ValidationFallback, result.ValidationStatus)
	assert.Equal(t, models.LangHindi, result.OriginalLanguage)
	assert.Equal(t, Apology(models.LangHindi), result.FinalResponse)
}

// ==========================
// Verdict Parsing Tests
// ==========================

func TestParseFactCheck(t *testing.T) {
	tests := []struct {
		name       string
		validation string
		accurate   bool
		score      float64
		confidence float64
		issues     int
	}{
		{"structured accurate verdict", accurateVerdict(), true, 0.92, 0.9, 0},
		{"structured inaccurate verdict", inaccurateVerdict(), false, 0.35, 0.8, 2},
		{"unparseable text defaults to accepted", "the model rambled instead", true, 0.7, 0.7, 0},
		{"lowercase boolean", "IS_ACCURATE: false", false, 0.7, 0.7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := parseFactCheck(tt.validation)

			assert.Equal(t, tt.accurate, details.IsAccurate)
			assert.InDelta(t, tt.score, details.AccuracyScore, 0.001)
			assert.InDelta(t, tt.confidence, details.Confidence, 0.001)
			assert.Len(t, details.Issues, tt.issues)
		})
	}
}

func TestParseFactCheck_IssueBulletsStripped(t *testing.T) {
	details := parseFactCheck(inaccurateVerdict())

	for _, issue := range details.Issues {
		assert.False(t, strings.HasPrefix(issue, "-"))
	}
}

// ==========================
// Apology and Context Tests
// ==========================

func TestApology(t *testing.T) {
	tests := []struct {
		lang     models.Language
		contains string
	}{
		{models.LangHindi, "माफ करें"},
		{models.LangHinglish, "verified advice nahi de sakta"},
		{models.LangHindiTransliterated, "verified advice nahi de sakta"},
		{models.LangPunjabi, "ਮਾਫ਼ ਕਰਨਾ"},
		{models.LangPunglish, "ਮਾਫ਼ ਕਰਨਾ"},
		{models.LangEnglish, "agricultural extension officer"},
		{models.LangBengali, "agricultural extension officer"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			assert.Contains(t, Apology(tt.lang), tt.contains)
		})
	}
}

func TestContextSummary(t *testing.T) {
	assert.Equal(t, "Limited context data available", contextSummary(emptyContext()))

	fused := emptyContext()
	fused.WeatherIntelligence["current_conditions"] = struct{}{}
	fused.MarketIntelligence["current_prices"] = struct{}{}

	summary := contextSummary(fused)
	assert.Contains(t, summary, "Real weather data available")
	assert.Contains(t, summary, "Market price data available")
	assert.NotContains(t, summary, "web search results")
}
