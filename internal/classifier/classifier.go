// internal/classifier/classifier.go
package classifier

import (
	"sort"
	"strconv"
	"strings"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/models"
)

// Classifier maps an English farmer query to agricultural categories and
// extracts entities, intent, and urgency. Classification never fails; queries
// matching no category fall back to general_farming.
type Classifier struct {
	logger logger.Logger
}

// NewClassifier creates a query classifier.
func NewClassifier(log logger.Logger) *Classifier {
	return &Classifier{logger: log}
}

const (
	keywordBaseScore  = 0.35
	keywordRepeatStep = 0.05
	rawScoreCap       = 3.0

	// Raw maxima below this are rescaled up so single-keyword queries do
	// not report ultra-low confidence.
	confidenceFloor = 0.6

	secondaryThreshold = 0.35
	maxSecondaries     = 2
)

// Classify scores the query against every category and returns the ranked
// classification with extracted entities.
func (c *Classifier) Classify(query string, farmerContext *models.FarmerContext) models.QueryClassification {
	lower := strings.ToLower(query)

	scores := make(map[models.Category]float64)
	for category, profile := range categoryProfiles {
		raw := keywordScore(lower, profile.keywords)
		if raw > 0 {
			scores[category] = raw * profile.priority
		}
	}

	primary, secondaries, confidence := rankCategories(scores)

	classification := models.QueryClassification{
		PrimaryCategory:     primary,
		SecondaryCategories: secondaries,
		Confidence:          confidence,
		ExtractedEntities:   extractEntities(lower, query),
		Intent:              determineIntent(lower),
		Urgency:             determineUrgency(lower),
		LocationContext:     extractLocationContext(lower, farmerContext),
	}

	c.logger.Debug("query classified", map[string]interface{}{
		"primary":    string(classification.PrimaryCategory),
		"confidence": classification.Confidence,
		"intent":     string(classification.Intent),
		"urgency":    string(classification.Urgency),
	})

	return classification
}

// keywordScore sums 0.35 per matched keyword plus 0.05 per extra occurrence,
// capped at 3.0.
func keywordScore(query string, keywords []string) float64 {
	var score float64
	for _, keyword := range keywords {
		occ := strings.Count(query, keyword)
		if occ > 0 {
			score += keywordBaseScore + float64(occ-1)*keywordRepeatStep
		}
	}
	if score > rawScoreCap {
		return rawScoreCap
	}
	return score
}

func rankCategories(scores map[models.Category]float64) (models.Category, []models.Category, float64) {
	if len(scores) == 0 {
		return models.CategoryGeneralFarming, []models.Category{}, 0.5
	}

	var maxRaw float64
	for _, score := range scores {
		if score > maxRaw {
			maxRaw = score
		}
	}

	scale := 1.0
	if maxRaw < confidenceFloor {
		scale = confidenceFloor / maxRaw
	}

	type ranked struct {
		category models.Category
		score    float64
	}
	order := make([]ranked, 0, len(scores))
	for category, score := range scores {
		scaled := score * scale
		if scaled > 1.0 {
			scaled = 1.0
		}
		order = append(order, ranked{category, scaled})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].score != order[j].score {
			return order[i].score > order[j].score
		}
		return order[i].category < order[j].category
	})

	primary := order[0].category
	confidence := order[0].score

	secondaries := []models.Category{}
	for _, r := range order[1:] {
		if len(secondaries) == maxSecondaries {
			break
		}
		if r.score >= secondaryThreshold {
			secondaries = append(secondaries, r.category)
		}
	}

	return primary, secondaries, confidence
}

// extractEntities pulls crops, locations, numbers, and time references out of
// the query. Location city-suffix patterns are case-sensitive, so the
// original-case query is scanned for those.
func extractEntities(lower, original string) models.ExtractedEntities {
	entities := models.ExtractedEntities{
		Crops:     []string{},
		Locations: []string{},
		Numbers:   []float64{},
		Dates:     []string{},
	}

	for _, pattern := range cropPatterns {
		entities.Crops = append(entities.Crops, pattern.FindAllString(lower, -1)...)
	}

	entities.Locations = append(entities.Locations, locationPatterns[0].FindAllString(lower, -1)...)
	entities.Locations = append(entities.Locations, locationPatterns[1].FindAllString(original, -1)...)

	for _, match := range numberPattern.FindAllString(lower, -1) {
		if n, err := strconv.ParseFloat(match, 64); err == nil {
			entities.Numbers = append(entities.Numbers, n)
		}
	}

	for _, pattern := range datePatterns {
		entities.Dates = append(entities.Dates, pattern.FindAllString(lower, -1)...)
	}

	return entities
}

func determineIntent(query string) models.Intent {
	for _, bucket := range intentBuckets {
		for _, pattern := range bucket.patterns {
			if strings.Contains(query, pattern) {
				return bucket.intent
			}
		}
	}
	return models.IntentInformation
}

func determineUrgency(query string) models.Urgency {
	for _, bucket := range urgencyBuckets {
		for _, indicator := range bucket.indicators {
			if strings.Contains(query, indicator) {
				return bucket.urgency
			}
		}
	}
	return models.UrgencyMedium
}

// extractLocationContext resolves the state from the query text, letting an
// explicit farmer profile override it.
func extractLocationContext(lower string, farmerContext *models.FarmerContext) map[string]string {
	locationContext := make(map[string]string)

	if matches := locationPatterns[0].FindAllString(lower, -1); len(matches) > 0 {
		locationContext["state"] = strings.Title(matches[0])
	}

	if farmerContext != nil {
		if farmerContext.State != "" {
			locationContext["state"] = farmerContext.State
		}
		if farmerContext.District != "" {
			locationContext["district"] = farmerContext.District
		}
	}

	if len(locationContext) == 0 {
		return nil
	}
	return locationContext
}
