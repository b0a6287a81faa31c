// internal/tools/sqlstore/sqlstore.go
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agri-intelligence/internal/common/errors"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/tools"
)

// StateYield aggregates one state's performance for a crop and year.
type StateYield struct {
	StateName              string  `json:"state_name"`
	AvgYieldKgPerHa        float64 `json:"avg_yield_kg_per_ha"`
	DistrictsCount         int     `json:"districts_count"`
	TotalArea1000Ha        float64 `json:"total_area_1000_ha"`
	TotalProduction1000Ton float64 `json:"total_production_1000_tons"`
}

// RainfallPattern is one district-year of rainfall aggregated into the four
// Indian agricultural seasons.
type RainfallPattern struct {
	Year                int     `json:"year"`
	StateName           string  `json:"state_name"`
	DistrictName        string  `json:"dist_name"`
	AnnualRainfallMM    float64 `json:"annual_rainfall_millimeters"`
	WinterRainfall      float64 `json:"winter_rainfall"`
	SummerRainfall      float64 `json:"summer_rainfall"`
	MonsoonRainfall     float64 `json:"monsoon_rainfall"`
	PostMonsoonRainfall float64 `json:"post_monsoon_rainfall"`
}

// Output is the sql store tool's result payload.
type Output struct {
	Crop             string            `json:"crop"`
	State            string            `json:"state"`
	StateYields      []StateYield      `json:"state_yields"`
	RainfallPatterns []RainfallPattern `json:"rainfall_patterns"`
}

// cropColumns whitelists the crops whose yield columns exist in the
// area_production_yield table. Crop names interpolate into column names, so
// anything outside this set is rejected.
var cropColumns = map[string]bool{
	"wheat":  true,
	"rice":   true,
	"cotton": true,
	"maize":  true,
}

const (
	defaultTopN         = 10
	defaultYearsBack    = 10
	rainfallRowsSurface = 5
)

// Querier is the database surface the store needs; *sql.DB satisfies it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Tool answers historical agronomy questions from the district-level
// area/production/yield and rainfall tables.
type Tool struct {
	db     Querier
	logger logger.Logger
	now    func() time.Time
}

func New(db Querier, log logger.Logger) *Tool {
	return &Tool{db: db, logger: log, now: time.Now}
}

func (t *Tool) Name() string { return tools.ToolSQLStore }

func (t *Tool) Run(ctx context.Context, req *tools.Request) (interface{}, error) {
	crop := req.Commodity
	if !cropColumns[crop] {
		crop = "wheat"
	}

	yields, err := t.CropYieldByState(ctx, crop, 0, defaultTopN)
	if err != nil {
		return nil, err
	}

	rainfall, err := t.RainfallPatterns(ctx, req.State, req.District, defaultYearsBack)
	if err != nil {
		t.logger.Warn("rainfall pattern query failed", map[string]interface{}{
			"state": req.State, "error": err.Error(),
		})
		rainfall = nil
	}
	if len(rainfall) > rainfallRowsSurface {
		rainfall = rainfall[:rainfallRowsSurface]
	}

	return &Output{
		Crop:             crop,
		State:            req.State,
		StateYields:      yields,
		RainfallPatterns: rainfall,
	}, nil
}

// CropYieldByState returns the top states by average yield for the crop and
// year. A zero year means the previous calendar year.
func (t *Tool) CropYieldByState(ctx context.Context, crop string, year, topN int) ([]StateYield, error) {
	if !cropColumns[crop] {
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported crop %q", crop))
	}
	if year == 0 {
		year = t.now().Year() - 1
	}
	if topN <= 0 {
		topN = defaultTopN
	}

	query := fmt.Sprintf(`
		SELECT
			state_name,
			AVG(%[1]s_yield_kg_per_ha) AS avg_yield_kg_per_ha,
			COUNT(dist_name) AS districts_count,
			SUM(%[1]s_area_1000_ha) AS total_area_1000_ha,
			SUM(%[1]s_production_1000_tons) AS total_production_1000_tons
		FROM area_production_yield
		WHERE year = $1 AND %[1]s_yield_kg_per_ha > 0
		GROUP BY state_name
		ORDER BY avg_yield_kg_per_ha DESC
		LIMIT $2`, crop)

	rows, err := t.db.QueryContext(ctx, query, year, topN)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("crop_yield_by_state", err)
	}
	defer rows.Close()

	var yields []StateYield
	for rows.Next() {
		var y StateYield
		if err := rows.Scan(&y.StateName, &y.AvgYieldKgPerHa, &y.DistrictsCount, &y.TotalArea1000Ha, &y.TotalProduction1000Ton); err != nil {
			return nil, errors.NewQueryExecutionFailedError("crop_yield_by_state", err)
		}
		yields = append(yields, y)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("crop_yield_by_state", err)
	}
	return yields, nil
}

// RainfallPatterns returns per-year seasonal rainfall sums for the state,
// optionally narrowed to a district, over the last yearsBack years.
func (t *Tool) RainfallPatterns(ctx context.Context, state, district string, yearsBack int) ([]RainfallPattern, error) {
	if yearsBack <= 0 {
		yearsBack = defaultYearsBack
	}
	startYear := t.now().Year() - yearsBack

	query := `
		SELECT
			year,
			state_name,
			dist_name,
			annual_rainfall_millimeters,
			january_rainfall_millimeters + february_rainfall_millimeters + march_rainfall_millimeters AS winter_rainfall,
			april_rainfall_millimeters + may_rainfall_millimeters + june_rainfall_millimeters AS summer_rainfall,
			july_rainfall_millimeters + august_rainfall_millimeters + september_rainfall_millimeters AS monsoon_rainfall,
			october_rainfall_millimeters + november_rainfall_millimeters + december_rainfall_millimeters AS post_monsoon_rainfall
		FROM monthly_rainfall
		WHERE state_name = $1 AND year >= $2`

	args := []interface{}{state, startYear}
	if district != "" {
		query += " AND dist_name = $3"
		args = append(args, district)
	}
	query += " ORDER BY year DESC, dist_name"

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("rainfall_patterns", err)
	}
	defer rows.Close()

	var patterns []RainfallPattern
	for rows.Next() {
		var p RainfallPattern
		if err := rows.Scan(&p.Year, &p.StateName, &p.DistrictName, &p.AnnualRainfallMM,
			&p.WinterRainfall, &p.SummerRainfall, &p.MonsoonRainfall, &p.PostMonsoonRainfall); err != nil {
			return nil, errors.NewQueryExecutionFailedError("rainfall_patterns", err)
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("rainfall_patterns", err)
	}
	return patterns, nil
}
