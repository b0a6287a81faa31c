// internal/pipeline/pipeline.go

// Package pipeline wires the full query flow: language detection, translation,
// classification, concurrent tool execution, context fusion, expert response
// generation, and fact checking. The pipeline always returns a response; every
// stage degrades rather than fails, and a panic anywhere is converted into an
// apology in the farmer's language.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"agri-intelligence/internal/classifier"
	"agri-intelligence/internal/common/config"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/common/metrics"
	"agri-intelligence/internal/factcheck"
	"agri-intelligence/internal/fusion"
	"agri-intelligence/internal/generator"
	"agri-intelligence/internal/language"
	"agri-intelligence/internal/models"
	"agri-intelligence/internal/tools"

	"github.com/google/uuid"
)

const (
	defaultDeadline = 15 * time.Second

	// Fact checking costs up to two model calls; with less than this left on
	// the clock it is skipped and the unchecked answer is returned.
	minFactCheckBudget = 2 * time.Second
)

// Recorder receives per-query measurements. The otel Observability meter
// satisfies it; a nil recorder disables the otel side without branching at
// every call site.
type Recorder interface {
	RecordQueryProcessed(ctx context.Context, category, status string)
	RecordQueryDuration(ctx context.Context, duration time.Duration, category string)
	RecordToolInvocation(ctx context.Context, tool string, success bool)
}

// Pipeline is the top-level query orchestrator.
type Pipeline struct {
	detector     *language.Detector
	translator   *language.Translator
	classifier   *classifier.Classifier
	orchestrator *tools.Orchestrator
	fusion       *fusion.Engine
	generator    *generator.Generator
	checker      *factcheck.Checker
	deadline     time.Duration
	logger       logger.Logger
	recorder     Recorder
	newID        func() string
}

// WithRecorder attaches an otel-side recorder and returns the pipeline.
func (p *Pipeline) WithRecorder(recorder Recorder) *Pipeline {
	p.recorder = recorder
	return p
}

func New(cfg *config.Config, detector *language.Detector, translator *language.Translator,
	qc *classifier.Classifier, orchestrator *tools.Orchestrator, engine *fusion.Engine,
	gen *generator.Generator, checker *factcheck.Checker, log logger.Logger) *Pipeline {

	deadline := defaultDeadline
	if cfg != nil && cfg.Pipeline.Deadline > 0 {
		deadline = time.Duration(cfg.Pipeline.Deadline) * time.Millisecond
	}

	return &Pipeline{
		detector:     detector,
		translator:   translator,
		classifier:   qc,
		orchestrator: orchestrator,
		fusion:       engine,
		generator:    gen,
		checker:      checker,
		deadline:     deadline,
		logger:       log,
		newID:        uuid.NewString,
	}
}

// ProcessQuery runs a farmer query through the full pipeline. It never returns
// an error: failures surface as a degraded response with Success=false.
func (p *Pipeline) ProcessQuery(ctx context.Context, query string, farmer *models.FarmerContext) (response models.QueryResponse) {
	start := time.Now()
	requestID := p.newID()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic recovered", map[string]interface{}{
				"request_id": requestID,
				"panic":      fmt.Sprintf("%v", r),
			})
			metrics.QueriesProcessed.WithLabelValues(string(models.CategoryGeneralFarming), "error").Inc()
			if p.recorder != nil {
				p.recorder.RecordQueryProcessed(context.Background(), string(models.CategoryGeneralFarming), "error")
			}
			response = p.failureResponse(query, requestID, time.Since(start))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	p.logger.Info("processing farmer query", map[string]interface{}{
		"request_id": requestID,
		"length":     len(query),
	})

	lang := p.detectLanguage(query)
	english := p.translateToEnglish(ctx, query, lang)
	classification := p.classify(english, farmer)
	results := p.executeTools(ctx, english, classification, farmer)
	fused := p.fuseContext(results, classification)
	expert := p.generateResponse(ctx, english, classification, fused, farmer)
	fact := p.factCheck(ctx, query, expert, lang, fused)

	elapsed := time.Since(start)
	category := classification.PrimaryCategory
	metrics.QueriesProcessed.WithLabelValues(string(category), "success").Inc()
	metrics.QueryDuration.WithLabelValues(string(category)).Observe(elapsed.Seconds())
	if p.recorder != nil {
		p.recorder.RecordQueryProcessed(ctx, string(category), "success")
		p.recorder.RecordQueryDuration(ctx, elapsed, string(category))
		for _, result := range results {
			p.recorder.RecordToolInvocation(ctx, result.ToolName, result.Success)
		}
	}

	p.logger.Info("query processed", map[string]interface{}{
		"request_id":      requestID,
		"category":        string(category),
		"status":          string(fact.ValidationStatus),
		"processing_time": elapsed.Seconds(),
	})

	return models.QueryResponse{
		Success:         true,
		Response:        fact.FinalResponse,
		EnglishResponse: expert,
		FollowUps:       followUps(category),
		Metadata: models.QueryMetadata{
			RequestID:             requestID,
			OriginalLanguage:      lang,
			EnglishQuery:          english,
			ProcessingTimeSeconds: elapsed.Seconds(),
			ToolsUsed:             toolNames(results),
			ConfidenceScore:       fused.ConfidenceScore,
			ConfidenceLevel:       interpretConfidence(fused.ConfidenceScore),
			QueryCategory:         category,
			FactCheckStatus:       fact.ValidationStatus,
			ExpertConsulted:       generator.ExpertSpecialization(category),
			DataSources:           dataSources(results),
			Timestamp:             time.Now().UTC(),
		},
	}
}

// ==========================
// Stages
// ==========================

func (p *Pipeline) detectLanguage(query string) models.Language {
	defer stageTimer("language_detection")()
	lang := p.detector.Detect(query)
	// Counted here only; the fact checker re-detects the same query internally.
	metrics.DetectedLanguages.WithLabelValues(string(lang)).Inc()
	return lang
}

func (p *Pipeline) translateToEnglish(ctx context.Context, query string, lang models.Language) string {
	defer stageTimer("translation")()
	english, err := p.translator.ToEnglish(ctx, query, lang)
	if err != nil || english == "" {
		return query
	}
	return english
}

func (p *Pipeline) classify(english string, farmer *models.FarmerContext) models.QueryClassification {
	defer stageTimer("classification")()
	return p.classifier.Classify(english, farmer)
}

func (p *Pipeline) executeTools(ctx context.Context, english string, classification models.QueryClassification, farmer *models.FarmerContext) []models.ToolResult {
	defer stageTimer("tool_execution")()
	return p.orchestrator.ExecuteTools(ctx, english, classification, farmer)
}

func (p *Pipeline) fuseContext(results []models.ToolResult, classification models.QueryClassification) models.FusedContext {
	defer stageTimer("context_fusion")()
	return p.fusion.Fuse(results, classification)
}

func (p *Pipeline) generateResponse(ctx context.Context, english string, classification models.QueryClassification,
	fused models.FusedContext, farmer *models.FarmerContext) string {
	defer stageTimer("response_generation")()
	return p.generator.Generate(ctx, english, classification, fused, farmer)
}

// factCheck validates the answer when the clock allows. Past the soft
// deadline the unchecked answer is translated best-effort and returned,
// marked as a fallback.
func (p *Pipeline) factCheck(ctx context.Context, query, expert string, lang models.Language, fused models.FusedContext) models.FactCheckResult {
	defer stageTimer("fact_check")()

	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) >= minFactCheckBudget {
		if ctx.Err() == nil {
			return p.checker.Validate(ctx, query, expert, fused)
		}
	}

	p.logger.Warn("deadline exhausted, skipping fact check", map[string]interface{}{
		"language": string(lang),
	})

	final, err := p.translator.FromEnglish(ctx, expert, lang)
	if err != nil {
		final = expert
	}
	return models.FactCheckResult{
		FinalResponse:    final,
		OriginalLanguage: lang,
		ValidationStatus: models.ValidationFallback,
		FactCheckDetails: models.FactCheckDetails{IsAccurate: true, Confidence: 0.5},
	}
}

// ==========================
// Degraded Response
// ==========================

func (p *Pipeline) failureResponse(query, requestID string, elapsed time.Duration) models.QueryResponse {
	lang := p.detector.Detect(query)

	return models.QueryResponse{
		Success:  false,
		Response: factcheck.Apology(lang),
		Error:    "query processing failed",
		FollowUps: []string{
			"Please try rephrasing your question",
			"Contact your local agricultural extension office",
			"Check farmer.gov.in for immediate agricultural support",
		},
		Metadata: models.QueryMetadata{
			RequestID:             requestID,
			OriginalLanguage:      lang,
			ProcessingTimeSeconds: elapsed.Seconds(),
			ConfidenceLevel:       "LOW - Limited data available, consult local experts",
			QueryCategory:         models.CategoryGeneralFarming,
			FactCheckStatus:       models.ValidationFallback,
			Timestamp:             time.Now().UTC(),
		},
	}
}

// ==========================
// Response Assembly Helpers
// ==========================

// dataSourceLabels map tool names to the farmer-facing source descriptions.
var dataSourceLabels = map[string]string{
	tools.ToolWeather:         "Live Weather Data",
	tools.ToolMarket:          "Market Prices (AGMARKNET)",
	tools.ToolPricePrediction: "Price Forecast Models",
	tools.ToolYieldModel:      "Yield Prediction Models",
	tools.ToolGovernment:      "Government Schemes",
	tools.ToolSQLStore:        "Historical Agricultural Data",
	tools.ToolDocSearch:       "Agricultural Knowledge Base",
	tools.ToolWebSearch:       "Latest Web Information",
}

func dataSources(results []models.ToolResult) []string {
	sources := []string{}
	for _, result := range results {
		if !result.Success {
			continue
		}
		if label, ok := dataSourceLabels[result.ToolName]; ok {
			sources = append(sources, label)
		}
	}
	return sources
}

func toolNames(results []models.ToolResult) []string {
	names := make([]string, 0, len(results))
	for _, result := range results {
		names = append(names, result.ToolName)
	}
	return names
}

func interpretConfidence(score float64) string {
	switch {
	case score > 0.8:
		return "HIGH - Recommendations based on comprehensive data"
	case score > 0.6:
		return "MEDIUM - Good data coverage with some limitations"
	default:
		return "LOW - Limited data available, consult local experts"
	}
}

var categoryFollowUps = map[models.Category][]string{
	models.CategoryWeatherImpact: {
		"How will this weather affect my specific crop?",
		"What irrigation adjustments should I make?",
		"Are there any pest risks with this weather?",
	},
	models.CategoryMarketPriceForecasting: {
		"When is the best time to sell my produce?",
		"What are the price trends for next month?",
		"Which market gives the best price?",
	},
	models.CategoryYieldPrediction: {
		"How can I improve my expected yield?",
		"What fertilizers should I use?",
		"What are the best farming practices for my crop?",
	},
}

func followUps(category models.Category) []string {
	if suggestions, ok := categoryFollowUps[category]; ok {
		return suggestions
	}
	return []string{
		"What other farming advice do you need?",
		"Would you like information about government schemes?",
		"Do you need market price updates?",
	}
}

func stageTimer(stage string) func() {
	start := time.Now()
	return func() {
		metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
