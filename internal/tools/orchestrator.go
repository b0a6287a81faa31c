// internal/tools/orchestrator.go
package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"agri-intelligence/internal/common/config"
	"agri-intelligence/internal/common/errors"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/common/metrics"
	"agri-intelligence/internal/models"
)

const (
	defaultMaxTools    = 6
	defaultToolTimeout = 8 * time.Second
	defaultCommodity   = "wheat"
	defaultState       = "Punjab"
)

// categoryToolPlans maps each category to its ordered tool selection. Order
// matters: it is preserved in the fan-out results and trimmed from the tail
// when secondary categories push the plan over the cap.
var categoryToolPlans = map[models.Category][]string{
	models.CategoryWeatherImpact:          {ToolWeather, ToolDocSearch},
	models.CategoryIrrigationPlanning:     {ToolWeather, ToolSQLStore, ToolDocSearch},
	models.CategoryMarketPriceForecasting: {ToolMarket, ToolPricePrediction, ToolDocSearch, ToolWeather},
	models.CategoryCropSelection:          {ToolYieldModel, ToolSQLStore, ToolDocSearch},
	models.CategoryYieldPrediction:        {ToolYieldModel, ToolWeather, ToolSQLStore},
	models.CategoryPestDiseaseManagement:  {ToolDocSearch, ToolWebSearch, ToolWeather},
	models.CategoryFertilizerOptimization: {ToolSQLStore, ToolDocSearch, ToolYieldModel},
	models.CategoryGovernmentSchemes:      {ToolGovernment, ToolDocSearch, ToolWebSearch},
	models.CategoryFinancialPlanning:      {ToolGovernment, ToolMarket, ToolDocSearch},
	models.CategorySeasonalPlanning:       {ToolWeather, ToolDocSearch, ToolSQLStore},
	models.CategorySoilHealth:             {ToolDocSearch, ToolSQLStore, ToolWebSearch},
	models.CategoryGeneralFarming:         {ToolWeather, ToolMarket, ToolSQLStore, ToolDocSearch, ToolWebSearch, ToolGovernment},
}

// stateCentroids holds representative coordinates for the states the weather
// tool can resolve. Unlisted states fall back to Punjab.
var stateCentroids = map[string]struct{ lat, lon float64 }{
	"punjab":        {30.7333, 76.7794},
	"haryana":       {29.0588, 76.0856},
	"uttar pradesh": {26.8467, 80.9462},
	"maharashtra":   {19.7515, 75.7139},
	"karnataka":     {15.3173, 75.7139},
}

// Orchestrator selects tools for a classified query and runs them
// concurrently, each under its own timeout. Every selected tool yields exactly
// one result, failed or not, so downstream fusion sees the full fan-out.
type Orchestrator struct {
	registry map[string]Tool
	cfg      *config.Config
	logger   logger.Logger
	errs     *errors.ErrorHandler
}

// NewOrchestrator builds an orchestrator over the given tools. Tools are
// registered by their Name(); later registrations with the same name win.
func NewOrchestrator(cfg *config.Config, log logger.Logger, toolset ...Tool) *Orchestrator {
	registry := make(map[string]Tool, len(toolset))
	for _, tool := range toolset {
		registry[tool.Name()] = tool
	}
	return &Orchestrator{registry: registry, cfg: cfg, logger: log, errs: errors.NewErrorHandler(log)}
}

// ExecuteTools resolves the tool plan for the classification and fans out.
// The returned slice has one entry per planned tool, in plan order.
func (o *Orchestrator) ExecuteTools(ctx context.Context, query string, classification models.QueryClassification, farmerContext *models.FarmerContext) []models.ToolResult {
	plan := o.buildPlan(classification)
	req := o.buildRequest(query, classification, farmerContext)

	o.logger.Info("executing tool plan", map[string]interface{}{
		"category": string(classification.PrimaryCategory),
		"tools":    strings.Join(plan, ","),
		"state":    req.State,
	})

	results := make([]models.ToolResult, len(plan))
	var wg sync.WaitGroup
	for i, name := range plan {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = o.runOne(ctx, name, req)
		}(i, name)
	}
	wg.Wait()

	return results
}

// buildPlan unions the primary category's tools with the secondaries', caps
// the fan-out width, and guarantees the weather tool is present unless it is
// disabled in config.
func (o *Orchestrator) buildPlan(classification models.QueryClassification) []string {
	maxTools := defaultMaxTools
	if o.cfg != nil && o.cfg.Pipeline.MaxTools > 0 {
		maxTools = o.cfg.Pipeline.MaxTools
	}

	seen := make(map[string]bool)
	plan := make([]string, 0, maxTools)
	add := func(names []string) {
		for _, name := range names {
			if !seen[name] && !o.disabled(name) {
				seen[name] = true
				plan = append(plan, name)
			}
		}
	}

	add(categoryToolPlans[classification.PrimaryCategory])
	for _, secondary := range classification.SecondaryCategories {
		add(categoryToolPlans[secondary])
	}
	add([]string{ToolWeather})

	if len(plan) > maxTools {
		trimmed := plan[:maxTools]
		if !containsName(trimmed, ToolWeather) && !o.disabled(ToolWeather) {
			trimmed[maxTools-1] = ToolWeather
		}
		plan = trimmed
	}
	return plan
}

func (o *Orchestrator) disabled(name string) bool {
	if o.cfg == nil {
		return false
	}
	toolCfg, ok := o.cfg.Tools[name]
	return ok && !toolCfg.Enabled
}

// buildRequest resolves geography and commodity once so every tool sees the
// same execution context.
func (o *Orchestrator) buildRequest(query string, classification models.QueryClassification, farmerContext *models.FarmerContext) *Request {
	req := &Request{
		Query:          query,
		Classification: classification,
		FarmerContext:  farmerContext,
		State:          defaultState,
		Commodity:      defaultCommodity,
	}

	if state, ok := classification.LocationContext["state"]; ok && state != "" {
		req.State = state
	}
	if district, ok := classification.LocationContext["district"]; ok {
		req.District = district
	}

	centroid, ok := stateCentroids[strings.ToLower(req.State)]
	if !ok {
		centroid = stateCentroids[strings.ToLower(defaultState)]
	}
	req.Latitude = centroid.lat
	req.Longitude = centroid.lon

	if crops := classification.ExtractedEntities.Crops; len(crops) > 0 {
		req.Commodity = strings.ToLower(crops[0])
	}

	return req
}

// runOne executes a single tool under its configured timeout and wraps the
// outcome. A panicking tool is reported as a failed result, never a crash.
func (o *Orchestrator) runOne(ctx context.Context, name string, req *Request) (result models.ToolResult) {
	start := time.Now()
	result = models.ToolResult{ToolName: name}

	defer func() {
		result.ExecutionTime = time.Since(start).Seconds()
		metrics.ToolDuration.WithLabelValues(name).Observe(result.ExecutionTime)
		status := "success"
		if !result.Success {
			status = "failure"
		}
		metrics.ToolExecutions.WithLabelValues(name, status).Inc()
	}()
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Data = nil
			result.ErrorMessage = fmt.Sprintf("tool panicked: %v", r)
			o.logger.Error("tool panicked", map[string]interface{}{
				"tool": name, "panic": fmt.Sprintf("%v", r),
			})
		}
	}()

	tool, ok := o.registry[name]
	if !ok {
		result.ErrorMessage = "tool not registered"
		return result
	}

	toolCtx, cancel := context.WithTimeout(ctx, o.toolTimeout(name))
	defer cancel()

	metrics.ToolsInFlight.Inc()
	defer metrics.ToolsInFlight.Dec()

	data, err := tool.Run(toolCtx, req)
	if err != nil {
		result.ErrorMessage = err.Error()
		o.errs.HandleStageError("tool:"+name, err)
		return result
	}

	result.Success = true
	result.Data = data
	return result
}

func (o *Orchestrator) toolTimeout(name string) time.Duration {
	if o.cfg != nil {
		if toolCfg, ok := o.cfg.Tools[name]; ok && toolCfg.Timeout > 0 {
			return time.Duration(toolCfg.Timeout) * time.Millisecond
		}
		if o.cfg.Pipeline.ToolTimeout > 0 {
			return time.Duration(o.cfg.Pipeline.ToolTimeout) * time.Millisecond
		}
	}
	return defaultToolTimeout
}

func containsName(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}
