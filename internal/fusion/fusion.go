// internal/fusion/fusion.go
package fusion

import (
	"fmt"
	"strings"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/models"
	"agri-intelligence/internal/tools"
	"agri-intelligence/internal/tools/docsearch"
	"agri-intelligence/internal/tools/government"
	"agri-intelligence/internal/tools/market"
	"agri-intelligence/internal/tools/pricepredict"
	"agri-intelligence/internal/tools/sqlstore"
	"agri-intelligence/internal/tools/weather"
	"agri-intelligence/internal/tools/websearch"
	"agri-intelligence/internal/tools/yieldmodel"
)

// dataQualityWeights grades how much each tool's data is trusted when the
// overall confidence score is computed. Price prediction carries no weight;
// its forecasts inform the context without moving confidence.
var dataQualityWeights = map[string]float64{
	tools.ToolWeather:    0.9,
	tools.ToolMarket:     0.85,
	tools.ToolYieldModel: 0.9,
	tools.ToolSQLStore:   0.8,
	tools.ToolDocSearch:  0.7,
	tools.ToolGovernment: 0.85,
	tools.ToolWebSearch:  0.6,
}

var (
	liveDataTools   = []string{tools.ToolWeather, tools.ToolMarket, tools.ToolWebSearch}
	recentDataTools = []string{tools.ToolYieldModel, tools.ToolGovernment}
)

// Engine merges the tool fan-out into one structured context for response
// generation. All five domain maps are always present, possibly empty.
type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Fuse combines tool results into the unified context. Failed tools simply
// contribute nothing; fusion itself never fails.
func (e *Engine) Fuse(results []models.ToolResult, classification models.QueryClassification) models.FusedContext {
	e.logger.Info("fusing tool results", map[string]interface{}{
		"tools": len(results), "category": string(classification.PrimaryCategory),
	})

	byName := make(map[string]models.ToolResult, len(results))
	for _, result := range results {
		byName[result.ToolName] = result
	}

	confidence := calculateConfidence(results)

	return models.FusedContext{
		WeatherIntelligence: extractWeatherIntelligence(byName),
		MarketIntelligence:  extractMarketIntelligence(byName),
		AgriculturalData:    extractAgriculturalData(byName),
		GovernmentInfo:      extractGovernmentInfo(byName),
		WebIntelligence:     extractWebIntelligence(byName),
		ConfidenceScore:     confidence,
		DataFreshness:       assessFreshness(byName),
		SynthesisSummary:    synthesisSummary(classification, results, confidence),
	}
}

// ==========================
// Domain Extraction
// ==========================

func extractWeatherIntelligence(byName map[string]models.ToolResult) map[string]interface{} {
	intelligence := map[string]interface{}{}

	output, ok := successData[*weather.Output](byName, tools.ToolWeather)
	if !ok {
		return intelligence
	}

	intelligence["current_conditions"] = output.Current
	intelligence["forecast"] = output.Forecast
	intelligence["agricultural_advisories"] = weatherAdvisories(output.Forecast)
	intelligence["risk_alerts"] = weatherRisks(output.Forecast)
	intelligence["irrigation_recommendations"] = irrigationAdvice(output.Current)
	return intelligence
}

func extractMarketIntelligence(byName map[string]models.ToolResult) map[string]interface{} {
	intelligence := map[string]interface{}{}

	if output, ok := successData[*market.Output](byName, tools.ToolMarket); ok {
		intelligence["current_prices"] = output.Prices
		intelligence["commodity_focus"] = output.Commodity
		if output.Analytics != nil {
			intelligence["price_analytics"] = output.Analytics
		}
	}

	if output, ok := successData[*pricepredict.Output](byName, tools.ToolPricePrediction); ok {
		intelligence["price_forecasts"] = output
		intelligence["trading_recommendations"] = tradingAdvice(output)
	}

	return intelligence
}

func extractAgriculturalData(byName map[string]models.ToolResult) map[string]interface{} {
	data := map[string]interface{}{}

	if output, ok := successData[*yieldmodel.Output](byName, tools.ToolYieldModel); ok {
		data["yield_forecast"] = output
		data["productivity_advice"] = output.Recommendations
	}

	if output, ok := successData[*sqlstore.Output](byName, tools.ToolSQLStore); ok {
		data["historical_yields"] = output.StateYields
		data["rainfall_patterns"] = output.RainfallPatterns
		data["regional_comparisons"] = regionalInsights(output)
	}

	if output, ok := successData[*docsearch.Output](byName, tools.ToolDocSearch); ok {
		data["search_results"] = output.Documents
		data["expert_knowledge"] = output.Documents
		data["best_practices"] = bestPractices(output.Documents)
	}

	return data
}

func extractGovernmentInfo(byName map[string]models.ToolResult) map[string]interface{} {
	info := map[string]interface{}{}

	output, ok := successData[*government.Output](byName, tools.ToolGovernment)
	if !ok {
		return info
	}

	info["eligible_schemes"] = output.Schemes
	info["financial_benefits"] = financialBenefits(output.Schemes)
	info["application_guidance"] = applicationSteps(output.Schemes)
	return info
}

func extractWebIntelligence(byName map[string]models.ToolResult) map[string]interface{} {
	intelligence := map[string]interface{}{}

	output, ok := successData[*websearch.Output](byName, tools.ToolWebSearch)
	if !ok {
		return intelligence
	}

	intelligence["latest_news"] = output.Results
	intelligence["trending_topics"] = trendingTopics(output.Results)
	intelligence["external_resources"] = categorizeSources(output.Results)
	return intelligence
}

// successData fetches the typed payload of a successful tool result.
func successData[T any](byName map[string]models.ToolResult, name string) (T, bool) {
	var zero T
	result, ok := byName[name]
	if !ok || !result.Success {
		return zero, false
	}
	data, ok := result.Data.(T)
	if !ok {
		return zero, false
	}
	return data, true
}

// ==========================
// Confidence and Freshness
// ==========================

// calculateConfidence weights each successful tool's 0.9 base confidence by
// its data quality weight. With no weighted tools the score is a neutral 0.5.
func calculateConfidence(results []models.ToolResult) float64 {
	var totalWeight, weighted float64
	for _, result := range results {
		weight, ok := dataQualityWeights[result.ToolName]
		if !ok || !result.Success {
			continue
		}
		totalWeight += weight
		weighted += 0.9 * weight
	}
	if totalWeight == 0 {
		return 0.5
	}
	return weighted / totalWeight
}

func assessFreshness(byName map[string]models.ToolResult) models.Freshness {
	countSuccessful := func(names []string) int {
		count := 0
		for _, name := range names {
			if result, ok := byName[name]; ok && result.Success {
				count++
			}
		}
		return count
	}

	live := countSuccessful(liveDataTools)
	recent := countSuccessful(recentDataTools)

	switch {
	case live >= 2:
		return models.FreshnessVeryFresh
	case live >= 1 || recent >= 2:
		return models.FreshnessFresh
	default:
		return models.FreshnessStandard
	}
}

func synthesisSummary(classification models.QueryClassification, results []models.ToolResult, confidence float64) string {
	successful := []string{}
	for _, result := range results {
		if result.Success {
			successful = append(successful, result.ToolName)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Agricultural intelligence synthesis for %s query. ", classification.PrimaryCategory)
	fmt.Fprintf(&b, "Successfully integrated data from %d sources: %s. ", len(successful), strings.Join(successful, ", "))

	if classification.Urgency == models.UrgencyHigh {
		b.WriteString("High priority response with immediate actionable advice. ")
	}

	switch {
	case confidence > 0.8:
		b.WriteString("High confidence recommendations based on multiple data sources.")
	case confidence > 0.6:
		b.WriteString("Moderate confidence recommendations - additional verification advised.")
	default:
		b.WriteString("Limited confidence - please consult local agricultural experts.")
	}
	return b.String()
}

// ==========================
// Insight Helpers
// ==========================

// weatherAdvisories surfaces the next three days of farm advisories.
func weatherAdvisories(forecast []weather.ForecastDay) []string {
	advisories := []string{}
	for i, day := range forecast {
		if i == 3 {
			break
		}
		if day.Advisory != "" {
			advisories = append(advisories, day.Advisory)
		}
	}
	return advisories
}

func weatherRisks(forecast []weather.ForecastDay) []string {
	risks := []string{}
	seen := map[string]bool{}
	add := func(risk string) {
		if !seen[risk] {
			seen[risk] = true
			risks = append(risks, risk)
		}
	}
	for i, day := range forecast {
		if i == 7 {
			break
		}
		if day.TempMax > 35 {
			add("High temperature risk - plan irrigation")
		}
		if day.Rainfall > 20 {
			add("Heavy rainfall expected - ensure drainage")
		}
	}
	return risks
}

func irrigationAdvice(current weather.Current) []string {
	advice := []string{}
	if current.Humidity < 50 {
		advice = append(advice, "Low humidity detected - increase irrigation frequency")
	}
	if current.Temperature > 30 {
		advice = append(advice, "High temperature - schedule irrigation during early morning or evening")
	}
	return advice
}

func tradingAdvice(output *pricepredict.Output) []string {
	advice := []string{}
	if output.Recommendation != "" {
		advice = append(advice, output.Recommendation)
	}
	return advice
}

func regionalInsights(output *sqlstore.Output) map[string]interface{} {
	insights := map[string]interface{}{}
	if len(output.StateYields) > 0 {
		insights["top_state"] = output.StateYields[0].StateName
		insights["state_ranking_size"] = len(output.StateYields)
	}
	if len(output.RainfallPatterns) > 0 {
		insights["rainfall_years_covered"] = len(output.RainfallPatterns)
	}
	return insights
}

// bestPractices frames the top three retrieved passages as expert advice,
// truncated to 100 characters each.
func bestPractices(documents []docsearch.Document) []string {
	practices := []string{}
	for i, doc := range documents {
		if i == 3 {
			break
		}
		if doc.DocumentText == "" {
			continue
		}
		text := doc.DocumentText
		// Rune boundaries; passages can carry Devanagari.
		if runes := []rune(text); len(runes) > 100 {
			text = string(runes[:100])
		}
		practices = append(practices, fmt.Sprintf("Expert advice: %s...", text))
	}
	return practices
}

func financialBenefits(schemes []government.Scheme) map[string]interface{} {
	var total float64
	for _, scheme := range schemes {
		total += scheme.BenefitAmount
	}
	return map[string]interface{}{
		"total_annual_benefit": total,
		"scheme_count":         len(schemes),
	}
}

// applicationSteps summarizes how to apply for the top two schemes.
func applicationSteps(schemes []government.Scheme) []string {
	steps := []string{}
	for i, scheme := range schemes {
		if i == 2 {
			break
		}
		if scheme.ApplicationProcess != "" {
			steps = append(steps, fmt.Sprintf("%s: %s", scheme.Name, scheme.ApplicationProcess))
		}
	}
	return steps
}

func trendingTopics(results []websearch.Result) []string {
	topics := []string{}
	for i, result := range results {
		if i == 3 {
			break
		}
		if result.Title != "" {
			topics = append(topics, result.Title)
		}
	}
	return topics
}

// categorizeSources buckets result domains into government, research, and
// news sources.
func categorizeSources(results []websearch.Result) map[string][]string {
	categories := map[string][]string{
		"government": {},
		"research":   {},
		"news":       {},
	}
	for _, result := range results {
		source := result.Source
		switch {
		case strings.Contains(source, ".gov.in"):
			categories["government"] = append(categories["government"], source)
		case strings.Contains(source, "icar") || strings.Contains(source, "fao.org") || strings.Contains(source, "extension.org"):
			categories["research"] = append(categories["research"], source)
		default:
			categories["news"] = append(categories["news"], source)
		}
	}
	return categories
}
