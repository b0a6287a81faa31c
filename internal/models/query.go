// internal/models/query.go
package models

import "time"

// Category is one of the fixed agricultural topic tags used to route tool
// selection and prompt persona.
type Category string

const (
	CategoryWeatherImpact          Category = "weather_impact"
	CategoryIrrigationPlanning     Category = "irrigation_planning"
	CategoryMarketPriceForecasting Category = "market_price_forecasting"
	CategoryCropSelection          Category = "crop_selection"
	CategoryYieldPrediction        Category = "yield_prediction"
	CategoryPestDiseaseManagement  Category = "pest_disease_management"
	CategoryFertilizerOptimization Category = "fertilizer_optimization"
	CategoryGovernmentSchemes      Category = "government_schemes"
	CategoryFinancialPlanning      Category = "financial_planning"
	CategorySeasonalPlanning       Category = "seasonal_planning"
	CategorySoilHealth             Category = "soil_health"
	CategoryGeneralFarming         Category = "general_farming"
)

// AllCategories lists every classifiable category except the general fallback.
var AllCategories = []Category{
	CategoryWeatherImpact,
	CategoryIrrigationPlanning,
	CategoryMarketPriceForecasting,
	CategoryCropSelection,
	CategoryYieldPrediction,
	CategoryPestDiseaseManagement,
	CategoryFertilizerOptimization,
	CategoryGovernmentSchemes,
	CategoryFinancialPlanning,
	CategorySeasonalPlanning,
	CategorySoilHealth,
}

// Intent describes what kind of answer the farmer expects.
type Intent string

const (
	IntentQuestion       Intent = "question"
	IntentRequest        Intent = "request"
	IntentInformation    Intent = "information"
	IntentPrediction     Intent = "prediction"
	IntentRecommendation Intent = "recommendation"
	IntentComparison     Intent = "comparison"
)

// Urgency grades how time-sensitive the query is.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Language tags produced by detection. Transliterated variants cover Indian
// languages written in Latin script; mixed tags cover code-switched queries.
type Language string

const (
	LangEnglish                Language = "english"
	LangHindi                  Language = "hindi"
	LangPunjabi                Language = "punjabi"
	LangBengali                Language = "bengali"
	LangGujarati               Language = "gujarati"
	LangHindiTransliterated    Language = "hindi_transliterated"
	LangPunjabiTransliterated  Language = "punjabi_transliterated"
	LangBengaliTransliterated  Language = "bengali_transliterated"
	LangGujaratiTransliterated Language = "gujarati_transliterated"
	LangHinglish               Language = "hinglish"
	LangPunglish               Language = "punglish"
)

// FarmerContext carries optional caller-supplied profile information.
type FarmerContext struct {
	State      string   `json:"state,omitempty"`
	District   string   `json:"district,omitempty"`
	LandSizeHa float64  `json:"land_size_ha,omitempty"`
	Crops      []string `json:"crops,omitempty"`
	Experience string   `json:"experience,omitempty"`
}

// ExtractedEntities holds structured fragments pulled out of the English query.
type ExtractedEntities struct {
	Crops     []string  `json:"crops"`
	Locations []string  `json:"locations"`
	Numbers   []float64 `json:"numbers"`
	Dates     []string  `json:"dates"`
}

// QueryClassification is the immutable output of the classifier stage.
type QueryClassification struct {
	PrimaryCategory     Category          `json:"primary_category"`
	SecondaryCategories []Category        `json:"secondary_categories"`
	Confidence          float64           `json:"confidence"`
	ExtractedEntities   ExtractedEntities `json:"extracted_entities"`
	Intent              Intent            `json:"intent"`
	Urgency             Urgency           `json:"urgency"`
	LocationContext     map[string]string `json:"location_context,omitempty"`
}

// ToolResult is the per-tool outcome of the orchestration fan-out. Data holds
// the tool's typed output struct; failed tools carry an error message and nil
// data. Fusion dispatches on the concrete Data type.
type ToolResult struct {
	ToolName      string      `json:"tool_name"`
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	ExecutionTime float64     `json:"execution_time"`
	ErrorMessage  string      `json:"error_message,omitempty"`
}

// Freshness labels how current the fused context data is.
type Freshness string

const (
	FreshnessVeryFresh Freshness = "very_fresh"
	FreshnessFresh     Freshness = "fresh"
	FreshnessStandard  Freshness = "standard"
)

// FusedContext merges tool outputs into one structured object. All five domain
// sub-structures are always present, possibly empty, never nil.
type FusedContext struct {
	WeatherIntelligence map[string]interface{} `json:"weather_intelligence"`
	MarketIntelligence  map[string]interface{} `json:"market_intelligence"`
	AgriculturalData    map[string]interface{} `json:"agricultural_data"`
	GovernmentInfo      map[string]interface{} `json:"government_info"`
	WebIntelligence     map[string]interface{} `json:"web_intelligence"`
	ConfidenceScore     float64                `json:"confidence_score"`
	DataFreshness       Freshness              `json:"data_freshness"`
	SynthesisSummary    string                 `json:"synthesis_summary"`
}

// ValidationStatus is the fact checker's terminal state.
type ValidationStatus string

const (
	ValidationApproved  ValidationStatus = "approved"
	ValidationCorrected ValidationStatus = "corrected"
	ValidationFallback  ValidationStatus = "fallback"
)

// FactCheckDetails is the parsed structured output of the fact-check call.
type FactCheckDetails struct {
	IsAccurate    bool     `json:"is_accurate"`
	AccuracyScore float64  `json:"accuracy_score"`
	Confidence    float64  `json:"confidence"`
	Issues        []string `json:"issues"`
}

// FactCheckResult is the terminal artifact of the pipeline.
type FactCheckResult struct {
	FinalResponse    string           `json:"final_response"`
	OriginalLanguage Language         `json:"original_language"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	FactCheckDetails FactCheckDetails `json:"fact_check_details"`
}

// QueryMetadata is the observability block attached to every response.
type QueryMetadata struct {
	RequestID             string           `json:"request_id"`
	OriginalLanguage      Language         `json:"original_language"`
	EnglishQuery          string           `json:"english_query"`
	ProcessingTimeSeconds float64          `json:"processing_time_seconds"`
	ToolsUsed             []string         `json:"tools_used"`
	ConfidenceScore       float64          `json:"confidence_score"`
	ConfidenceLevel       string           `json:"confidence_level"`
	QueryCategory         Category         `json:"query_category"`
	FactCheckStatus       ValidationStatus `json:"fact_check_status"`
	ExpertConsulted       string           `json:"expert_consulted"`
	DataSources           []string         `json:"data_sources"`
	Timestamp             time.Time        `json:"timestamp"`
}

// QueryResponse is what processQuery returns to the HTTP boundary.
type QueryResponse struct {
	Success         bool          `json:"success"`
	Response        string        `json:"response"`
	EnglishResponse string        `json:"english_response,omitempty"`
	Error           string        `json:"error,omitempty"`
	FollowUps       []string      `json:"follow_up_suggestions,omitempty"`
	Metadata        QueryMetadata `json:"metadata"`
}
