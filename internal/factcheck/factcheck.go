// internal/factcheck/factcheck.go

// Package factcheck validates generated agricultural advice before it reaches
// the farmer. The expert response is scored by a second model pass, then
// either translated back to the farmer's language, regenerated under stricter
// prompting, or replaced with a canned apology. Validation never fails the
// pipeline; every error path degrades to a usable response.
package factcheck

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/common/metrics"
	"agri-intelligence/internal/language"
	"agri-intelligence/internal/llm"
	"agri-intelligence/internal/models"
)

var (
	factCheckOptions  = llm.Options{Temperature: 0.1, TopP: 0.7, MaxOutputTokens: 800}
	correctionOptions = llm.Options{Temperature: 0.2, TopP: 0.7, MaxOutputTokens: 800}
)

// Checker scores expert responses for accuracy and renders the final answer
// in the farmer's own language.
type Checker struct {
	adapter    llm.Adapter
	model      string
	detector   *language.Detector
	translator *language.Translator
	logger     logger.Logger
}

func New(adapter llm.Adapter, model string, detector *language.Detector, translator *language.Translator, log logger.Logger) *Checker {
	return &Checker{
		adapter:    adapter,
		model:      model,
		detector:   detector,
		translator: translator,
		logger:     log,
	}
}

// Validate fact-checks the expert response and produces the final farmer-facing
// answer. The query language is re-detected here rather than trusted from the
// earlier stage, so a detection bug upstream cannot strand the farmer with the
// wrong language.
func (c *Checker) Validate(ctx context.Context, originalQuery, expertResponse string, fused models.FusedContext) models.FactCheckResult {
	lang := c.detector.Detect(originalQuery)

	details := c.factCheck(ctx, originalQuery, expertResponse, fused)

	var result models.FactCheckResult
	if details.IsAccurate {
		result = c.approve(ctx, expertResponse, lang, details)
	} else {
		result = c.correct(ctx, originalQuery, lang, fused, details)
	}

	metrics.FactCheckResults.WithLabelValues(string(result.ValidationStatus)).Inc()
	c.logger.Info("fact check complete", map[string]interface{}{
		"status":         string(result.ValidationStatus),
		"language":       string(lang),
		"accuracy_score": details.AccuracyScore,
	})
	return result
}

// approve translates the validated response into the farmer's language. A
// translation failure keeps the English text; approved advice is never thrown
// away over a rendering problem.
func (c *Checker) approve(ctx context.Context, expertResponse string, lang models.Language, details models.FactCheckDetails) models.FactCheckResult {
	final, err := c.translator.FromEnglish(ctx, expertResponse, lang)
	if err != nil {
		c.logger.Warn("final translation failed, keeping english response", map[string]interface{}{
			"language": string(lang),
			"error":    err.Error(),
		})
		final = expertResponse
	}

	return models.FactCheckResult{
		FinalResponse:    final,
		OriginalLanguage: lang,
		ValidationStatus: models.ValidationApproved,
		FactCheckDetails: details,
	}
}

// correct regenerates the answer under strict verified-facts-only prompting,
// directly in the farmer's language. If regeneration also fails, a canned
// apology is served and the result is marked as a fallback.
func (c *Checker) correct(ctx context.Context, originalQuery string, lang models.Language, fused models.FusedContext, details models.FactCheckDetails) models.FactCheckResult {
	prompt := buildCorrectionPrompt(originalQuery, lang, fused, details.Issues)

	corrected, err := c.adapter.Generate(ctx, c.model, prompt, correctionOptions)
	if err != nil || strings.TrimSpace(corrected) == "" {
		c.logger.Error("corrected response generation failed", map[string]interface{}{
			"language": string(lang),
			"error":    errString(err),
		})
		return models.FactCheckResult{
			FinalResponse:    Apology(lang),
			OriginalLanguage: lang,
			ValidationStatus: models.ValidationFallback,
			FactCheckDetails: details,
		}
	}

	return models.FactCheckResult{
		FinalResponse:    strings.TrimSpace(corrected),
		OriginalLanguage: lang,
		ValidationStatus: models.ValidationCorrected,
		FactCheckDetails: details,
	}
}

// ==========================
// Fact-Check Call
// ==========================

// factCheck scores the response. The checker fails open: if the validation
// call breaks, the advice is treated as accurate at neutral confidence rather
// than blocking the farmer's answer.
func (c *Checker) factCheck(ctx context.Context, query, response string, fused models.FusedContext) models.FactCheckDetails {
	prompt := buildFactCheckPrompt(query, response, fused)

	validation, err := c.adapter.Generate(ctx, c.model, prompt, factCheckOptions)
	if err != nil {
		c.logger.Warn("fact check call failed, accepting response", map[string]interface{}{
			"error": err.Error(),
		})
		return models.FactCheckDetails{IsAccurate: true, AccuracyScore: 0.7, Confidence: 0.5}
	}

	return parseFactCheck(validation)
}

func buildFactCheckPrompt(query, response string, fused models.FusedContext) string {
	return fmt.Sprintf(`You are an EXPERT AGRICULTURAL FACT CHECKER for Indian farming. Your job is to validate agricultural advice for accuracy and detect any hallucinations or misinformation.

ORIGINAL FARMER QUERY: %q

EXPERT RESPONSE TO VALIDATE:
%s

SUPPORTING CONTEXT DATA:
%s

FACT-CHECKING CRITERIA:
Evaluate the response against these standards:

1. FACTUAL ACCURACY:
   - Are fertilizer recommendations (NPK ratios, quantities) correct for mentioned crops?
   - Are crop varieties mentioned real and suitable for Indian conditions?
   - Are pest/disease identifications and treatments accurate?
   - Are market prices and trends realistic and current?

2. AGRICULTURAL RELEVANCE:
   - Is advice suitable for Indian farming conditions?
   - Are recommendations appropriate for mentioned regions/states?
   - Is timing advice (sowing, harvesting) seasonally correct?

3. SAFETY & COMPLIANCE:
   - Are pesticide recommendations safe and legally approved?
   - Are dosages within recommended limits?
   - Are government scheme details accurate and current?

4. COMPLETENESS & PRACTICALITY:
   - Does response adequately address the farmer's question?
   - Are recommendations practical for typical Indian farmers?
   - Is cost information realistic?

5. HALLUCINATION DETECTION:
   - Are there any made-up facts, statistics, or studies?
   - Are brand names or specific products mentioned accurately?
   - Are government schemes and subsidies correctly described?

RESPONSE FORMAT:
Provide your validation in this EXACT format:

ACCURACY_SCORE: [0.0 to 1.0]
IS_ACCURATE: [TRUE/FALSE]
CONFIDENCE_LEVEL: [0.0 to 1.0]

IDENTIFIED_ISSUES:
- [List specific factual errors, if any]
- [List potential hallucinations, if any]
- [List safety concerns, if any]

CRITICAL_CORRECTIONS_NEEDED:
- [List must-fix issues for farmer safety]
- [List important accuracy improvements]

OVERALL_ASSESSMENT: [One sentence summary of validation result]

Perform thorough fact-checking now:`, query, response, contextSummary(fused))
}

func buildCorrectionPrompt(query string, lang models.Language, fused models.FusedContext, issues []string) string {
	return fmt.Sprintf(`You are a SENIOR AGRICULTURAL EXPERT creating a CORRECTED and VERIFIED response for an Indian farmer.

The previous response had these issues:
%s

FARMER'S ORIGINAL QUESTION: %q

AVAILABLE VERIFIED DATA:
%s

STRICT RESPONSE REQUIREMENTS:
1. ONLY VERIFIED FACTS: Use only well-established agricultural practices and verified information
2. NO SPECULATION: Avoid uncertain recommendations or unverified claims
3. SAFETY FIRST: Prioritize farmer and crop safety in all recommendations
4. PRACTICAL FOCUS: Provide actionable advice suitable for typical Indian farmers
5. REGIONAL RELEVANCE: Ensure advice is appropriate for Indian farming conditions

LANGUAGE REQUIREMENT: Respond in %s, the language of the original question.

RESPONSE STRUCTURE:
1. Warm, respectful greeting appropriate for the language
2. Direct acknowledgment of their farming concern
3. VERIFIED recommendations with specific details
4. Safety precautions where relevant
5. Encouragement and offer for future help

CRITICAL: Only include information you are absolutely certain about. When in doubt, recommend consulting local experts.

Provide your corrected, verified agricultural advice:`, strings.Join(issues, ", "), query, contextSummary(fused), string(lang))
}

// contextSummary tells the checker which data domains actually backed the
// response, so absent data is not held against it.
func contextSummary(fused models.FusedContext) string {
	lines := []string{}
	if len(fused.WeatherIntelligence) > 0 {
		lines = append(lines, "Real weather data available")
	}
	if results, ok := fused.WebIntelligence["latest_news"]; ok {
		lines = append(lines, fmt.Sprintf("%d web search results for verification", sliceLen(results)))
	}
	if len(fused.AgriculturalData) > 0 {
		lines = append(lines, "Agricultural knowledge base data available")
	}
	if len(fused.MarketIntelligence) > 0 {
		lines = append(lines, "Market price data available")
	}
	if len(lines) == 0 {
		return "Limited context data available"
	}
	return strings.Join(lines, "\n")
}

func sliceLen(value interface{}) int {
	switch v := value.(type) {
	case []interface{}:
		return len(v)
	default:
		// Typed slices land here; reflection is not worth it for a prompt hint.
		return 1
	}
}

// ==========================
// Validation Parsing
// ==========================

var (
	accuracyPattern   = regexp.MustCompile(`ACCURACY_SCORE:\s*([0-9.]+)`)
	isAccuratePattern = regexp.MustCompile(`(?i)IS_ACCURATE:\s*(TRUE|FALSE)`)
	confidencePattern = regexp.MustCompile(`CONFIDENCE_LEVEL:\s*([0-9.]+)`)
	issuesPattern     = regexp.MustCompile(`(?s)IDENTIFIED_ISSUES:(.*?)(?:CRITICAL_CORRECTIONS|OVERALL_ASSESSMENT|$)`)
)

// parseFactCheck extracts the structured verdict. Missing fields default
// toward acceptance since an unparseable verdict is not evidence of error.
func parseFactCheck(validation string) models.FactCheckDetails {
	details := models.FactCheckDetails{IsAccurate: true, AccuracyScore: 0.7, Confidence: 0.7}

	if m := accuracyPattern.FindStringSubmatch(validation); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			details.AccuracyScore = score
		}
	}
	if m := isAccuratePattern.FindStringSubmatch(validation); m != nil {
		details.IsAccurate = strings.EqualFold(m[1], "TRUE")
	}
	if m := confidencePattern.FindStringSubmatch(validation); m != nil {
		if confidence, err := strconv.ParseFloat(m[1], 64); err == nil {
			details.Confidence = confidence
		}
	}
	if m := issuesPattern.FindStringSubmatch(validation); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			issue := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
			if issue == "" || issue == "-" {
				continue
			}
			details.Issues = append(details.Issues, issue)
		}
	}

	return details
}

// ==========================
// Apologies
// ==========================

var apologies = map[models.Language]string{
	models.LangHindi:    "माफ करें, मैं इस समय सत्यापित सलाह नहीं दे सकता। कृपया अपने स्थानीय कृषि विशेषज्ञ से संपर्क करें।",
	models.LangHinglish: "Sorry, main abhi verified advice nahi de sakta. Please apne local agriculture expert se contact kariye.",
	models.LangPunjabi:  "ਮਾਫ਼ ਕਰਨਾ, ਮੈਂ ਇਸ ਸਮੇਂ ਪ੍ਰਮਾਣਿਤ ਸਲਾਹ ਨਹੀਂ ਦੇ ਸਕਦਾ। ਕਿਰਪਾ ਕਰਕੇ ਆਪਣੇ ਸਥਾਨਕ ਖੇਤੀ ਮਾਹਿਰ ਨਾਲ ਸੰਪਰਕ ਕਰੋ।",
	models.LangEnglish:  "I apologize, but I cannot provide verified advice at this time. Please consult your local agricultural extension officer.",
}

// Apology returns the canned degraded-service message for a language. Latin
// script Hindi variants get the Hinglish text; everything else without its own
// apology falls back to English.
func Apology(lang models.Language) string {
	switch lang {
	case models.LangHindiTransliterated:
		lang = models.LangHinglish
	case models.LangPunjabiTransliterated, models.LangPunglish:
		lang = models.LangPunjabi
	}
	if apology, ok := apologies[lang]; ok {
		return apology
	}
	return apologies[models.LangEnglish]
}

func errString(err error) string {
	if err == nil {
		return "empty response"
	}
	return err.Error()
}
