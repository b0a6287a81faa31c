// internal/tools/tool.go
package tools

import (
	"context"

	"agri-intelligence/internal/models"
)

// Canonical tool names. These appear in results, metrics labels, and the
// fusion trust table, so they must stay stable.
const (
	ToolWeather         = "weather"
	ToolMarket          = "market"
	ToolPricePrediction = "price_prediction"
	ToolYieldModel      = "yield_model"
	ToolSQLStore        = "sql_store"
	ToolDocSearch       = "doc_search"
	ToolWebSearch       = "web_search"
	ToolGovernment      = "government"
)

// Request carries the resolved execution context handed to every tool. The
// orchestrator fills in geography and commodity defaults before fan-out so
// individual tools never need fallback logic for missing location data.
type Request struct {
	Query          string
	Classification models.QueryClassification
	FarmerContext  *models.FarmerContext

	// Resolved geography. Latitude/Longitude come from the state centroid
	// table; State is title-cased.
	State     string
	District  string
	Latitude  float64
	Longitude float64

	// Commodity is the first extracted crop, defaulting to wheat.
	Commodity string
}

// Tool is a single external data source. Run returns the tool's typed output
// struct; the orchestrator wraps it into a models.ToolResult.
type Tool interface {
	Name() string
	Run(ctx context.Context, req *Request) (interface{}, error)
}
