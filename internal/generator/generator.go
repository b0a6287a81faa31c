// internal/generator/generator.go

// Package generator turns the fused tool context into an expert agricultural
// consultation. Each query category is answered by a dedicated expert persona
// with the context sections that persona cares about, and a pre-written
// fallback consultation is served when the model is unreachable.
package generator

import (
	"context"
	"fmt"
	"strings"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/llm"
	"agri-intelligence/internal/models"
	"agri-intelligence/internal/tools"
	"agri-intelligence/internal/tools/docsearch"
	"agri-intelligence/internal/tools/market"
	"agri-intelligence/internal/tools/weather"
	"agri-intelligence/internal/tools/websearch"
	"agri-intelligence/internal/tools/yieldmodel"
)

const (
	topP            = 0.8
	maxOutputTokens = 1000
)

// Generator produces the expert response for a processed query.
type Generator struct {
	adapter llm.Adapter
	model   string
	logger  logger.Logger
}

func New(adapter llm.Adapter, model string, log logger.Logger) *Generator {
	return &Generator{adapter: adapter, model: model, logger: log}
}

// Generate builds the expert prompt and calls the model. When the call fails
// the category's pre-written consultation is returned instead, so generation
// itself never fails.
func (g *Generator) Generate(ctx context.Context, query string, classification models.QueryClassification,
	fused models.FusedContext, farmerContext *models.FarmerContext) string {

	category := classification.PrimaryCategory
	prompt := buildExpertPrompt(query, classification, fused, farmerContext)

	g.logger.Info("generating expert response", map[string]interface{}{
		"category": string(category),
		"expert":   ExpertSpecialization(category),
	})

	response, err := g.adapter.Generate(ctx, g.model, prompt, llm.Options{
		Temperature:     temperatureFor(category),
		TopP:            topP,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		g.logger.Warn("model call failed, serving fallback consultation", map[string]interface{}{
			"category": string(category),
			"error":    err.Error(),
		})
		return FallbackResponse(category)
	}

	return strings.TrimSpace(response)
}

// ==========================
// Prompt Construction
// ==========================

func buildExpertPrompt(query string, classification models.QueryClassification,
	fused models.FusedContext, farmerContext *models.FarmerContext) string {

	category := classification.PrimaryCategory
	entities := classification.ExtractedEntities

	var b strings.Builder
	b.WriteString(systemPromptFor(category))
	b.WriteString("\n\nCURRENT CONSULTATION:\n")
	fmt.Fprintf(&b, "A farmer has approached you with this question: %q\n", query)

	b.WriteString("\nQUERY ANALYSIS:\n")
	fmt.Fprintf(&b, "- Primary concern: %s\n", titleCase(strings.ReplaceAll(string(category), "_", " ")))
	fmt.Fprintf(&b, "- Crops mentioned: %s\n", orDefault(strings.Join(entities.Crops, ", "), "Not specified"))
	fmt.Fprintf(&b, "- Location context: %s\n", orDefault(strings.Join(entities.Locations, ", "), "General India"))
	fmt.Fprintf(&b, "- Urgency level: %s\n", classification.Urgency)

	if farmerContext != nil {
		b.WriteString(farmerProfileSection(farmerContext))
	}

	b.WriteString("\nAVAILABLE DATA & CONTEXT:\n")
	b.WriteString(buildPrioritizedContext(category, fused))

	b.WriteString(`

EXPERT RESPONSE GUIDELINES:
1. Start with a warm, respectful greeting (use "Namaste" or "Namaskar")
2. Acknowledge their specific concern with empathy
3. Provide expert analysis based on the available data
4. Give specific, actionable recommendations with exact quantities/timing
5. Include relevant local context and best practices
6. Mention any risks or precautions
7. Suggest follow-up actions or consultations if needed
8. Use simple, farmer-friendly language while maintaining expertise
9. Include cost considerations and ROI where relevant
10. End with encouragement and availability for future questions

RESPONSE LENGTH: 300-500 words for comprehensive yet focused advice.

Please provide your expert agricultural consultation:`)

	return b.String()
}

func farmerProfileSection(farmer *models.FarmerContext) string {
	location := strings.TrimSpace(strings.Trim(farmer.District+", "+farmer.State, ", "))
	farmSize := "Not specified"
	if farmer.LandSizeHa > 0 {
		farmSize = fmt.Sprintf("%.1f hectares", farmer.LandSizeHa)
	}

	var b strings.Builder
	b.WriteString("\nFARMER PROFILE:\n")
	fmt.Fprintf(&b, "- Location: %s\n", orDefault(location, "Not specified"))
	fmt.Fprintf(&b, "- Farm size: %s\n", farmSize)
	fmt.Fprintf(&b, "- Experience: %s\n", orDefault(farmer.Experience, "Not specified"))
	fmt.Fprintf(&b, "- Crops grown: %s\n", orDefault(strings.Join(farmer.Crops, ", "), "Not specified"))
	return b.String()
}

// buildPrioritizedContext renders the fused context sections relevant to the
// category's tool priorities. Web search results are always surfaced when
// present since they carry the freshest information.
func buildPrioritizedContext(category models.Category, fused models.FusedContext) string {
	priorities, ok := categoryToolPriorities[category]
	if !ok {
		priorities = []string{tools.ToolDocSearch, tools.ToolWeather}
	}

	sections := []string{}

	if prioritized(priorities, tools.ToolWeather) {
		if section := weatherSection(fused.WeatherIntelligence); section != "" {
			sections = append(sections, section)
		}
	}
	if section := webSection(fused.WebIntelligence); section != "" {
		sections = append(sections, section)
	}
	if prioritized(priorities, tools.ToolDocSearch) {
		if section := knowledgeSection(fused.AgriculturalData); section != "" {
			sections = append(sections, section)
		}
	}
	if prioritized(priorities, tools.ToolYieldModel) {
		if section := yieldSection(fused.AgriculturalData); section != "" {
			sections = append(sections, section)
		}
	}
	if prioritized(priorities, tools.ToolMarket) {
		if section := marketSection(fused.MarketIntelligence); section != "" {
			sections = append(sections, section)
		}
	}
	if prioritized(priorities, tools.ToolGovernment) {
		if section := schemesSection(fused.GovernmentInfo); section != "" {
			sections = append(sections, section)
		}
	}
	if prioritized(priorities, tools.ToolSQLStore) {
		sections = append(sections, historicalSection())
	}

	if len(sections) == 0 {
		return "Limited data available - providing general expert guidance."
	}
	return strings.Join(sections, "\n")
}

// ==========================
// Context Sections
// ==========================

func weatherSection(intelligence map[string]interface{}) string {
	current, ok := intelligence["current_conditions"].(weather.Current)
	if !ok {
		return ""
	}

	advisories := []string{}
	if list, ok := intelligence["agricultural_advisories"].([]string); ok && len(list) > 0 {
		advisories = list
		if len(advisories) > 2 {
			advisories = advisories[:2]
		}
	}

	var b strings.Builder
	b.WriteString("CURRENT WEATHER CONDITIONS:\n")
	fmt.Fprintf(&b, "- Temperature: %.1f°C\n", current.Temperature)
	fmt.Fprintf(&b, "- Humidity: %d%%\n", current.Humidity)
	fmt.Fprintf(&b, "- Weather: %s\n", orDefault(current.Description, "N/A"))
	fmt.Fprintf(&b, "- Location: %s\n", orDefault(current.Location, "N/A"))
	fmt.Fprintf(&b, "- Agricultural advisories: %s\n", strings.Join(advisories, ", "))
	return b.String()
}

func webSection(intelligence map[string]interface{}) string {
	results, ok := intelligence["latest_news"].([]websearch.Result)
	if !ok || len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("LATEST AGRICULTURAL INFORMATION:\n")
	for i, result := range results {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "%d. %s (Source: %s)\n", i+1, orDefault(result.Title, "No title"), orDefault(result.Source, "Unknown"))
		fmt.Fprintf(&b, "   Summary: %s...\n", truncate(result.Snippet, 150))
		fmt.Fprintf(&b, "   Relevance: %.1f/1.0\n", result.RelevanceScore)
	}
	return b.String()
}

func knowledgeSection(data map[string]interface{}) string {
	documents, ok := data["search_results"].([]docsearch.Document)
	if !ok || len(documents) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("RELEVANT AGRICULTURAL KNOWLEDGE:\n")
	for i, doc := range documents {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "%d. %s...\n", i+1, truncate(doc.DocumentText, 200))
	}
	return b.String()
}

func yieldSection(data map[string]interface{}) string {
	forecast, ok := data["yield_forecast"].(*yieldmodel.Output)
	if !ok || forecast == nil {
		return ""
	}

	recommendations := forecast.Recommendations
	if len(recommendations) > 3 {
		recommendations = recommendations[:3]
	}

	var b strings.Builder
	b.WriteString("YIELD PREDICTION ANALYSIS:\n")
	fmt.Fprintf(&b, "- Predicted yield: %.0f kg/ha\n", forecast.PredictedYieldKgPerHa)
	fmt.Fprintf(&b, "- Confidence level: %s\n", forecast.PredictionConfidence)
	fmt.Fprintf(&b, "- Recommendations: %s\n", strings.Join(recommendations, ", "))
	return b.String()
}

func marketSection(intelligence map[string]interface{}) string {
	prices, ok := intelligence["current_prices"].([]market.PriceRecord)
	if !ok || len(prices) == 0 {
		return ""
	}
	first := prices[0]

	trend := "N/A"
	if analytics, ok := intelligence["price_analytics"].(*market.Analytics); ok && analytics != nil {
		trend = analytics.PriceTrend
	}

	var b strings.Builder
	b.WriteString("MARKET PRICE INFORMATION:\n")
	fmt.Fprintf(&b, "- Commodity: %s\n", orDefault(first.Commodity, "N/A"))
	fmt.Fprintf(&b, "- Current price: ₹%.0f per quintal\n", first.ModalPrice)
	fmt.Fprintf(&b, "- Market: %s\n", orDefault(first.MarketName, "N/A"))
	fmt.Fprintf(&b, "- Trend: %s\n", trend)
	return b.String()
}

func schemesSection(info map[string]interface{}) string {
	guidance, ok := info["application_guidance"].([]string)
	if !ok || len(guidance) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("ELIGIBLE GOVERNMENT SCHEMES:\n")
	for _, step := range guidance {
		fmt.Fprintf(&b, "- %s\n", step)
	}
	return b.String()
}

func historicalSection() string {
	return `HISTORICAL DATA REFERENCE:
- Regional yield patterns and trends available
- Historical weather impact analysis
- Best practice outcomes from similar conditions
`
}

// ==========================
// Helpers
// ==========================

func prioritized(priorities []string, tool string) bool {
	for _, name := range priorities {
		if name == tool {
			return true
		}
	}
	return false
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// truncate cuts on rune boundaries so Indic snippets survive intact.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max])
	}
	return text
}

func titleCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
