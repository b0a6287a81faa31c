// internal/tools/weather/weather.go
package weather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agri-intelligence/internal/common/config"
	httpx "agri-intelligence/internal/common/http"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/tools"
)

// Current is the present-moment weather snapshot for the request location.
type Current struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      int     `json:"humidity"`
	Pressure      int     `json:"pressure"`
	Rainfall1h    float64 `json:"rainfall_1h"`
	Rainfall3h    float64 `json:"rainfall_3h"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection int     `json:"wind_direction"`
	UVIndex       float64 `json:"uv_index"`
	Condition     string  `json:"weather_main"`
	Description   string  `json:"weather_description"`
	Location      string  `json:"location"`
	Source        string  `json:"source"`
}

// ForecastDay is one day of the agricultural forecast.
type ForecastDay struct {
	Date        string  `json:"date"`
	DayNumber   int     `json:"day_number"`
	TempMax     float64 `json:"temp_max"`
	TempMin     float64 `json:"temp_min"`
	TempDay     float64 `json:"temp_day"`
	TempNight   float64 `json:"temp_night"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     int     `json:"wind_deg"`
	Rainfall    float64 `json:"rainfall"`
	UVIndex     float64 `json:"uv_index"`
	Condition   string  `json:"weather_main"`
	Description string  `json:"weather_desc"`
	RainChance  float64 `json:"pop"`
	Advisory    string  `json:"agricultural_advisory"`
	Source      string  `json:"source"`
}

// Output is the weather tool's result payload.
type Output struct {
	Current  Current       `json:"current"`
	Forecast []ForecastDay `json:"forecast"`
}

const (
	sourceLive     = "OpenWeatherMap_LIVE"
	sourceFallback = "INTELLIGENT_FALLBACK"

	forecastDays = 7
)

// openWeatherResponse mirrors the fields we read from the /weather endpoint.
type openWeatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Rain struct {
		OneHour   float64 `json:"1h"`
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Tool fetches current conditions from OpenWeather and derives a seasonal
// agricultural forecast. Without an API key, or on any upstream failure, it
// degrades to deterministic fallback data instead of returning an error.
type Tool struct {
	client  *httpx.Client
	baseURL string
	apiKey  string
	logger  logger.Logger
	now     func() time.Time
}

func New(cfg *config.Config, log logger.Logger) *Tool {
	apiCfg := cfg.APIs.Weather
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

func (t *Tool) Name() string { return tools.ToolWeather }

func (t *Tool) Run(ctx context.Context, req *tools.Request) (interface{}, error) {
	current := t.currentWeather(ctx, req.Latitude, req.Longitude)
	// Daily forecasts come from the seasonal model; the One Call endpoint
	// needs a paid subscription.
	forecast := t.seasonalForecast(forecastDays)
	return &Output{Current: current, Forecast: forecast}, nil
}

func (t *Tool) currentWeather(ctx context.Context, lat, lon float64) Current {
	if t.apiKey == "" || t.baseURL == "" {
		t.logger.Warn("weather API key not configured, using fallback data", nil)
		return fallbackCurrent(lat, lon)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("appid", t.apiKey)
	params.Set("units", "metric")

	var resp openWeatherResponse
	if err := t.client.GetJSON(ctx, t.baseURL+"/weather", params, &resp); err != nil {
		t.logger.Warn("live weather fetch failed, using fallback data", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackCurrent(lat, lon)
	}

	current := Current{
		Temperature:   resp.Main.Temp,
		FeelsLike:     resp.Main.FeelsLike,
		Humidity:      resp.Main.Humidity,
		Pressure:      resp.Main.Pressure,
		Rainfall1h:    resp.Rain.OneHour,
		Rainfall3h:    resp.Rain.ThreeHour,
		WindSpeed:     resp.Wind.Speed,
		WindDirection: resp.Wind.Deg,
		UVIndex:       6.5,
		Location:      fmt.Sprintf("%s, %s", resp.Name, resp.Sys.Country),
		Source:        sourceLive,
	}
	if len(resp.Weather) > 0 {
		current.Condition = resp.Weather[0].Main
		current.Description = resp.Weather[0].Description
	}
	return current
}

func fallbackCurrent(lat, lon float64) Current {
	return Current{
		Temperature:   25.0,
		FeelsLike:     27.0,
		Humidity:      65,
		Pressure:      1013,
		WindSpeed:     8.5,
		WindDirection: 180,
		UVIndex:       6.5,
		Condition:     "Clear",
		Description:   "clear sky",
		Location:      fmt.Sprintf("Location (%.2f, %.2f)", lat, lon),
		Source:        sourceFallback,
	}
}

// seasonalForecast produces a deterministic forecast around a 26.5°C base
// with Indian seasonal rainfall patterns and per-day farm advisories.
func (t *Tool) seasonalForecast(days int) []ForecastDay {
	const baseTemp = 26.5
	now := t.now()
	month := int(now.Month())

	forecast := make([]ForecastDay, 0, days)
	for i := 0; i < days; i++ {
		variation := float64(i%3-1) * 2
		tempMax := baseTemp + 4 + variation
		tempMin := baseTemp - 6 + variation

		rainfall := seasonalRainfall(month, i)

		condition, description := "Clear", "clear sky"
		switch {
		case rainfall > 10:
			condition, description = "Rain", "moderate rain"
		case i%2 == 1:
			condition, description = "Clouds", "few clouds"
		}

		rainChance := 0.0
		if rainfall > 0 {
			rainChance = rainfall / 20 * 100
		}

		forecast = append(forecast, ForecastDay{
			Date:        now.AddDate(0, 0, i).Format("2006-01-02"),
			DayNumber:   i + 1,
			TempMax:     tempMax,
			TempMin:     tempMin,
			TempDay:     (tempMax + tempMin) / 2,
			TempNight:   tempMin + 2,
			Humidity:    65 + (i%4)*5,
			Pressure:    1013 + (i%3-1)*2,
			WindSpeed:   float64(8 + i%3),
			WindDeg:     (180 + i*15) % 360,
			Rainfall:    rainfall,
			UVIndex:     float64(6 + i%3),
			Condition:   condition,
			Description: description,
			RainChance:  rainChance,
			Advisory:    dayAdvisory(tempMax, tempMin, rainfall),
			Source:      sourceFallback,
		})
	}
	return forecast
}

func seasonalRainfall(month, day int) float64 {
	switch {
	case month >= 6 && month <= 9: // monsoon
		if day%2 == 0 {
			return 15
		}
		return 5
	case month == 10 || month == 11: // post-monsoon
		if day%4 == 0 {
			return 8
		}
		return 0
	case month == 12 || month <= 2: // winter
		if day%5 == 0 {
			return 2
		}
		return 0
	}
	return 0
}

func dayAdvisory(tempMax, tempMin, rainfall float64) string {
	var parts []string
	if tempMax > 35 {
		parts = append(parts, "High temperature - schedule early morning irrigation")
	}
	if rainfall > 10 {
		parts = append(parts, "Moderate rainfall expected - good for crops")
	}
	if tempMin < 15 {
		parts = append(parts, "Cool nights - monitor for frost")
	}
	if tempMax > 30 && rainfall == 0 {
		parts = append(parts, "Hot and dry - increase irrigation frequency")
	}
	if len(parts) == 0 {
		return "Normal conditions for farming operations"
	}
	return strings.Join(parts, " | ")
}
