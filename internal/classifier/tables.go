// internal/classifier/tables.go
package classifier

import (
	"regexp"

	"agri-intelligence/internal/models"
)

// categoryProfile pairs a category's keyword list with its routing priority.
// Priority scales the raw keyword score so high-stakes categories win ties.
type categoryProfile struct {
	keywords []string
	priority float64
}

var categoryProfiles = map[models.Category]categoryProfile{
	models.CategoryWeatherImpact: {
		keywords: []string{"weather", "rain", "temperature", "climate", "monsoon", "drought", "flood", "storm", "humidity", "wind"},
		priority: 0.9,
	},
	models.CategoryIrrigationPlanning: {
		keywords: []string{"irrigation", "water", "drip", "sprinkler", "watering", "moisture", "drought", "canal", "tubewell"},
		priority: 0.8,
	},
	models.CategoryMarketPriceForecasting: {
		keywords: []string{"price", "sell", "market", "mandi", "profit", "cost", "trading", "commodity", "futures"},
		priority: 0.9,
	},
	models.CategoryCropSelection: {
		keywords: []string{"crop", "variety", "seed", "planting", "sowing", "cultivation", "farming", "recommend"},
		priority: 0.8,
	},
	models.CategoryYieldPrediction: {
		keywords: []string{"yield", "production", "harvest", "output", "productivity", "forecast", "predict"},
		priority: 0.9,
	},
	models.CategoryPestDiseaseManagement: {
		keywords: []string{"pest", "disease", "insect", "fungus", "infection", "spray", "pesticide", "treatment"},
		priority: 0.8,
	},
	models.CategoryFertilizerOptimization: {
		keywords: []string{"fertilizer", "fertiliser", "nutrient", "nitrogen", "phosphate", "potash", "urea", "soil", "manure", "npk", "organic", "compost", "apply", "application", "dose", "quantity", "how much", "when to apply"},
		priority: 0.9,
	},
	models.CategoryGovernmentSchemes: {
		keywords: []string{"scheme", "subsidy", "government", "pmkisan", "insurance", "loan", "benefit", "policy"},
		priority: 0.9,
	},
	models.CategoryFinancialPlanning: {
		keywords: []string{"loan", "credit", "insurance", "investment", "finance", "bank", "money", "cost"},
		priority: 0.7,
	},
	models.CategorySeasonalPlanning: {
		keywords: []string{"season", "calendar", "timing", "schedule", "kharif", "rabi", "summer", "winter"},
		priority: 0.8,
	},
	models.CategorySoilHealth: {
		keywords: []string{"soil", "health", "ph", "organic", "fertility", "erosion", "nutrients", "testing"},
		priority: 0.7,
	},
}

// Entity extraction patterns. Crop names include the transliterated Hindi
// forms farmers use even in English queries.
var (
	cropPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(wheat|rice|cotton|maize|sugarcane|soybean|groundnut|jowar|bajra|ragi)\b`),
		regexp.MustCompile(`(?i)\b(paddy|gahun|kapas|makka|gehun)\b`),
	}

	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(punjab|haryana|uttar pradesh|maharashtra|karnataka|gujarat|rajasthan|madhya pradesh|bihar|west bengal)\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+pur|[A-Z][a-z]+bad|[A-Z][a-z]+nagar)\b`),
	}

	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(today|tomorrow|next week|this month|next season)\b`),
		regexp.MustCompile(`\b(\d{1,2}/\d{1,2}|\d{1,2}-\d{1,2})\b`),
	}
)

// Intent detection checks buckets in order; the first bucket with a matching
// substring wins.
var intentBuckets = []struct {
	intent   models.Intent
	patterns []string
}{
	{models.IntentQuestion, []string{"what", "when", "where", "why", "how", "which", "?"}},
	{models.IntentRequest, []string{"please", "can you", "could you", "help me", "i need"}},
	{models.IntentInformation, []string{"tell me", "explain", "show me", "information about"}},
	{models.IntentPrediction, []string{"predict", "forecast", "will", "expect", "future"}},
	{models.IntentRecommendation, []string{"recommend", "suggest", "advise", "best", "should"}},
	{models.IntentComparison, []string{"compare", "difference", "better", "vs", "versus"}},
}

var urgencyBuckets = []struct {
	urgency    models.Urgency
	indicators []string
}{
	{models.UrgencyHigh, []string{"urgent", "emergency", "immediately", "asap", "crisis", "disaster", "dying", "failing"}},
	{models.UrgencyMedium, []string{"soon", "quickly", "this week", "planning", "prepare"}},
	{models.UrgencyLow, []string{"future", "next season", "thinking", "considering", "general"}},
}
