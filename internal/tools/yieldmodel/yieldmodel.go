// internal/tools/yieldmodel/yieldmodel.go
package yieldmodel

import (
	"context"
	"math"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/tools"
)

// FarmInput describes the farm the prediction runs for. Zero-valued fields
// get regional defaults.
type FarmInput struct {
	Crop           string  `json:"crop_type"`
	State          string  `json:"state"`
	District       string  `json:"district"`
	CropAreaHa     float64 `json:"crop_area"`
	AnnualRainfall float64 `json:"annual_rainfall"`
	NitrogenKharif float64 `json:"nitrogen_kharif"`
}

// Output is the yield model's result payload.
type Output struct {
	PredictedYieldKgPerHa   float64  `json:"predicted_yield_kg_per_ha"`
	ConfidenceIntervalLower float64  `json:"confidence_interval_lower"`
	ConfidenceIntervalUpper float64  `json:"confidence_interval_upper"`
	PredictionConfidence    string   `json:"prediction_confidence"`
	YieldCategory           string   `json:"yield_category"`
	Recommendations         []string `json:"recommendations"`
	Crop                    string   `json:"crop"`
	State                   string   `json:"state"`
}

// predictionStd is the fixed uncertainty of the regional yield model, in
// kg/ha. The 95% interval is ±1.96 standard deviations.
const predictionStd = 200.0

var defaultInput = FarmInput{
	Crop:           "wheat",
	District:       "Ludhiana",
	CropAreaHa:     2.0,
	AnnualRainfall: 600,
	NitrogenKharif: 100,
}

// baseYields holds per-crop reference yields in kg/ha for average rainfall
// and fertilizer use.
var baseYields = map[string]float64{
	"wheat":  3200,
	"rice":   2800,
	"cotton": 1400,
	"maize":  3800,
}

type yieldThresholds struct{ high, medium float64 }

var categoryThresholds = map[string]yieldThresholds{
	"wheat":  {4500, 3000},
	"rice":   {4000, 2500},
	"cotton": {2000, 1200},
	"maize":  {5000, 3500},
}

var defaultThresholds = yieldThresholds{4000, 2500}

// Tool estimates crop yield from rainfall and fertilizer inputs with a
// reference-yield model scaled by agronomic response factors.
type Tool struct {
	logger logger.Logger
}

func New(log logger.Logger) *Tool {
	return &Tool{logger: log}
}

func (t *Tool) Name() string { return tools.ToolYieldModel }

func (t *Tool) Run(ctx context.Context, req *tools.Request) (interface{}, error) {
	input := FarmInput{Crop: req.Commodity, State: req.State, District: req.District}
	return t.Predict(input), nil
}

// Predict runs the yield model for the given farm.
func (t *Tool) Predict(input FarmInput) *Output {
	input = input.withDefaults()

	base, ok := baseYields[input.Crop]
	if !ok {
		base = 2600
	}

	// Rainfall response saturates around 800mm; nitrogen around the
	// recommended 120 tons consumption level.
	rainFactor := clamp(input.AnnualRainfall/800, 0.6, 1.2)
	nitrogenFactor := clamp(0.7+input.NitrogenKharif/400, 0.7, 1.15)

	predicted := math.Round(base*rainFactor*nitrogenFactor*100) / 100

	output := &Output{
		PredictedYieldKgPerHa:   predicted,
		ConfidenceIntervalLower: math.Max(0, math.Round((predicted-1.96*predictionStd)*100)/100),
		ConfidenceIntervalUpper: math.Round((predicted+1.96*predictionStd)*100) / 100,
		PredictionConfidence:    confidenceFromStd(predictionStd),
		YieldCategory:           categorizeYield(predicted, input.Crop),
		Recommendations:         recommendations(predicted, input),
		Crop:                    input.Crop,
		State:                   input.State,
	}

	t.logger.Debug("yield predicted", map[string]interface{}{
		"crop": input.Crop, "state": input.State, "yield_kg_per_ha": predicted,
	})
	return output
}

func (in FarmInput) withDefaults() FarmInput {
	if in.Crop == "" {
		in.Crop = defaultInput.Crop
	}
	if in.District == "" {
		in.District = defaultInput.District
	}
	if in.CropAreaHa == 0 {
		in.CropAreaHa = defaultInput.CropAreaHa
	}
	if in.AnnualRainfall == 0 {
		in.AnnualRainfall = defaultInput.AnnualRainfall
	}
	if in.NitrogenKharif == 0 {
		in.NitrogenKharif = defaultInput.NitrogenKharif
	}
	return in
}

func confidenceFromStd(std float64) string {
	switch {
	case std < 150:
		return "HIGH"
	case std < 300:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func categorizeYield(yield float64, crop string) string {
	thresholds, ok := categoryThresholds[crop]
	if !ok {
		thresholds = defaultThresholds
	}
	switch {
	case yield >= thresholds.high:
		return "HIGH YIELD"
	case yield >= thresholds.medium:
		return "MEDIUM YIELD"
	default:
		return "LOW YIELD"
	}
}

func recommendations(predicted float64, input FarmInput) []string {
	recs := []string{}
	if categorizeYield(predicted, input.Crop) == "LOW YIELD" {
		recs = append(recs,
			"Consider high-yielding variety seeds",
			"Optimize fertilizer application based on soil test",
			"Improve irrigation scheduling",
		)
	}
	if input.AnnualRainfall < 500 {
		recs = append(recs, "Install efficient irrigation due to low rainfall")
	}
	return recs
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
