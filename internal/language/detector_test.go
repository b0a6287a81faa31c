// internal/language/detector_test.go
package language

import (
	"testing"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestDetector(t *testing.T) *Detector {
	return NewDetector(logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected models.Language
	}{
		{
			name:     "plain english query",
			query:    "What is the best fertilizer for wheat?",
			expected: models.LangEnglish,
		},
		{
			name:     "hindi native script",
			query:    "गेहूं का भाव क्या है?",
			expected: models.LangHindi,
		},
		{
			name:     "punjabi native script",
			query:    "ਕਣਕ ਦਾ ਭਾਅ ਕੀ ਹੈ?",
			expected: models.LangPunjabi,
		},
		{
			name:     "hindi transliterated",
			query:    "mera khet mein pani kab dena hai batao",
			expected: models.LangHindiTransliterated,
		},
		{
			name:     "code mixed hinglish",
			query:    "Rice ka price kya hai?",
			expected: models.LangHinglish,
		},
		{
			name:     "spoken register hindi",
			query:    "are bhaya manna wheat ugani sa ke karu the batao",
			expected: models.LangHinglish,
		},
		{
			name:     "bengali transliterated",
			query:    "ami ekjon chashi amar jomi te dhan chash korbo",
			expected: models.LangBengaliTransliterated,
		},
	}

	detector := createTestDetector(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.Detect(tt.query))
		})
	}
}

func TestDetector_Detect_ShortTextDefaultsToEnglish(t *testing.T) {
	detector := createTestDetector(t)

	assert.Equal(t, models.LangEnglish, detector.Detect("wheat"))
	assert.Equal(t, models.LangEnglish, detector.Detect(""))
	assert.Equal(t, models.LangEnglish, detector.Detect("   "))
}

func TestDetector_Detect_Deterministic(t *testing.T) {
	detector := createTestDetector(t)
	query := "mera khet mein pani kab dena hai"

	first := detector.Detect(query)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, detector.Detect(query))
	}
}

func TestDetector_Detect_MixedTagBeatsBase(t *testing.T) {
	detector := createTestDetector(t)

	// English crop and market words alongside Hindi particles should land
	// on the code-mixed tag, not plain Hindi or plain English.
	detected := detector.Detect("wheat ka market price kya hai bhai")

	assert.Equal(t, models.LangHinglish, detected)
	assert.NotEqual(t, models.LangEnglish, detected)
	assert.NotEqual(t, models.LangHindiTransliterated, detected)
}

func TestDetector_ContainsSequence(t *testing.T) {
	words := []string{"kya", "karu", "main", "ab"}

	assert.True(t, containsSequence(words, []string{"kya", "karu"}))
	assert.True(t, containsSequence(words, []string{"main", "ab"}))
	assert.False(t, containsSequence(words, []string{"karu", "kya"}))
	assert.False(t, containsSequence(words, []string{"ab", "kya"}))
}
