// internal/tools/market/market.go
package market

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"agri-intelligence/internal/common/config"
	httpx "agri-intelligence/internal/common/http"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/tools"
)

// PriceRecord is one mandi price observation.
type PriceRecord struct {
	MarketName      string  `json:"market_name"`
	District        string  `json:"district,omitempty"`
	State           string  `json:"state,omitempty"`
	Commodity       string  `json:"commodity"`
	Variety         string  `json:"variety"`
	Grade           string  `json:"grade"`
	MinPrice        float64 `json:"min_price"`
	MaxPrice        float64 `json:"max_price"`
	ModalPrice      float64 `json:"modal_price"`
	ArrivalQuantity float64 `json:"arrival_quantity"`
	Unit            string  `json:"unit"`
	Date            string  `json:"date"`
	Source          string  `json:"source"`
}

// Analytics summarizes the price series into trend and a trading
// recommendation. Present only when at least two observations exist.
type Analytics struct {
	Commodity       string  `json:"commodity"`
	CurrentPrice    float64 `json:"current_price"`
	AvgPrice7d      float64 `json:"avg_price_7d"`
	AvgPrice30d     float64 `json:"avg_price_30d"`
	PriceTrend      string  `json:"price_trend"`
	Volatility      float64 `json:"volatility"`
	SupportLevel    float64 `json:"support_level"`
	ResistanceLevel float64 `json:"resistance_level"`
	Recommendation  string  `json:"recommendation"`
	Confidence      string  `json:"confidence"`
}

// Output is the market tool's result payload.
type Output struct {
	Commodity string       `json:"commodity"`
	State     string       `json:"state"`
	Prices    []PriceRecord `json:"prices"`
	Analytics *Analytics   `json:"analytics,omitempty"`
}

const (
	sourceLive     = "AGMARKNET"
	sourceFallback = "database_fallback"

	priceLimit  = 20
	lookbackDays = 7
)

type agmarknetResponse struct {
	Data []struct {
		Market     string  `json:"market"`
		District   string  `json:"district"`
		State      string  `json:"state"`
		Commodity  string  `json:"commodity"`
		Variety    string  `json:"variety"`
		Grade      string  `json:"grade"`
		MinPrice   float64 `json:"min_price"`
		MaxPrice   float64 `json:"max_price"`
		ModalPrice float64 `json:"modal_price"`
		Arrivals   float64 `json:"arrivals"`
		Date       string  `json:"date"`
	} `json:"data"`
}

// Tool fetches mandi prices from the AGMARKNET market feed and derives price
// analytics from the observed series. Upstream failures degrade to a single
// fallback record so downstream fusion always has a price to work with.
type Tool struct {
	client  *httpx.Client
	baseURL string
	apiKey  string
	logger  logger.Logger
	now     func() time.Time
}

func New(cfg *config.Config, log logger.Logger) *Tool {
	apiCfg := cfg.APIs.Market
	timeout := time.Duration(apiCfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Tool{
		client:  httpx.NewClient(timeout),
		baseURL: strings.TrimRight(apiCfg.BaseURL, "/"),
		apiKey:  apiCfg.APIKey,
		logger:  log,
		now:     time.Now,
	}
}

func (t *Tool) Name() string { return tools.ToolMarket }

func (t *Tool) Run(ctx context.Context, req *tools.Request) (interface{}, error) {
	prices := t.mandiPrices(ctx, req.State, req.Commodity)
	return &Output{
		Commodity: req.Commodity,
		State:     req.State,
		Prices:    prices,
		Analytics: buildAnalytics(req.Commodity, prices),
	}, nil
}

func (t *Tool) mandiPrices(ctx context.Context, state, commodity string) []PriceRecord {
	if t.baseURL == "" {
		return fallbackPrices(state, commodity)
	}

	params := url.Values{}
	params.Set("state", state)
	params.Set("commodity", commodity)
	params.Set("fromDate", t.now().AddDate(0, 0, -lookbackDays).Format("2006-01-02"))
	params.Set("toDate", t.now().Format("2006-01-02"))

	var headers map[string]string
	if t.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + t.apiKey}
	}

	var resp agmarknetResponse
	err := t.client.GetJSONWithHeaders(ctx, t.baseURL+"/getAllCommodityPriceForSearch", params, headers, &resp)
	if err != nil {
		t.logger.Warn("mandi price fetch failed, using fallback data", map[string]interface{}{
			"commodity": commodity, "error": err.Error(),
		})
		return fallbackPrices(state, commodity)
	}

	records := make([]PriceRecord, 0, priceLimit)
	for _, record := range resp.Data {
		if len(records) == priceLimit {
			break
		}
		variety := record.Variety
		if variety == "" {
			variety = "Common"
		}
		grade := record.Grade
		if grade == "" {
			grade = "FAQ"
		}
		records = append(records, PriceRecord{
			MarketName:      record.Market,
			District:        record.District,
			State:           record.State,
			Commodity:       record.Commodity,
			Variety:         variety,
			Grade:           grade,
			MinPrice:        record.MinPrice,
			MaxPrice:        record.MaxPrice,
			ModalPrice:      record.ModalPrice,
			ArrivalQuantity: record.Arrivals,
			Unit:            "per quintal",
			Date:            record.Date,
			Source:          sourceLive,
		})
	}
	if len(records) == 0 {
		return fallbackPrices(state, commodity)
	}
	return records
}

func fallbackPrices(state, commodity string) []PriceRecord {
	return []PriceRecord{{
		MarketName: fmt.Sprintf("%s Market", state),
		State:      state,
		Commodity:  commodity,
		Variety:    "Common",
		Grade:      "FAQ",
		ModalPrice: 3000,
		Unit:       "per quintal",
		Source:     sourceFallback,
	}}
}

// buildAnalytics derives trend and a recommendation from the modal price
// series, date-ascending. Needs at least two observations.
func buildAnalytics(commodity string, records []PriceRecord) *Analytics {
	if len(records) < 2 {
		return nil
	}

	sorted := make([]PriceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	prices := make([]float64, len(sorted))
	for i, record := range sorted {
		prices[i] = record.ModalPrice
	}

	current := prices[len(prices)-1]
	avg7 := mean(tail(prices, 7))
	avg30 := mean(prices)
	trend := priceTrend(prices)
	volatility := stddev(prices)

	return &Analytics{
		Commodity:       commodity,
		CurrentPrice:    current,
		AvgPrice7d:      avg7,
		AvgPrice30d:     avg30,
		PriceTrend:      trend,
		Volatility:      volatility,
		SupportLevel:    minOf(prices),
		ResistanceLevel: maxOf(prices),
		Recommendation:  recommendation(current, avg7, avg30, trend),
		Confidence:      confidence(len(prices), volatility),
	}
}

// priceTrend compares the last five observations against the first five.
func priceTrend(prices []float64) string {
	if len(prices) < 2 {
		return "insufficient_data"
	}
	recent := mean(tail(prices, 5))
	older := mean(head(prices, 5))

	switch {
	case recent > older*1.05:
		return "strongly_increasing"
	case recent > older*1.02:
		return "increasing"
	case recent < older*0.95:
		return "strongly_decreasing"
	case recent < older*0.98:
		return "decreasing"
	default:
		return "stable"
	}
}

func recommendation(current, avg7, avg30 float64, trend string) string {
	switch {
	case (trend == "strongly_increasing" || trend == "increasing") && current > avg7:
		return "HOLD - Prices trending upward, consider selling at resistance level"
	case (trend == "strongly_decreasing" || trend == "decreasing") && current < avg7:
		return "SELL - Prices falling, consider immediate sale to avoid losses"
	case current > avg30*1.1:
		return "SELL - Prices significantly above 30-day average"
	case current < avg30*0.9:
		return "HOLD - Prices below average, wait for recovery"
	default:
		return "MONITOR - Prices stable, watch for trend changes"
	}
}

func confidence(dataPoints int, volatility float64) string {
	switch {
	case dataPoints >= 20 && volatility < 100:
		return "HIGH"
	case dataPoints >= 10 && volatility < 200:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func head(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

func minOf(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
