// internal/tools/government/government.go
package government

import (
	"context"
	"net/url"
	"strings"
	"time"

	"agri-intelligence/internal/common/config"
	httpx "agri-intelligence/internal/common/http"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/tools"
)

// Scheme is one government support program with its annual benefit value and
// how to apply.
type Scheme struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	BenefitAmount      float64 `json:"benefit_amount"`
	BenefitUnit        string  `json:"benefit_unit"`
	Eligibility        string  `json:"eligibility"`
	ApplicationProcess string  `json:"application_process"`
	Source             string  `json:"source"`
}

// FarmerProfile is the eligibility input. Land size defaults to 2 hectares
// when the caller supplies none.
type FarmerProfile struct {
	State      string  `json:"state"`
	LandSizeHa float64 `json:"land_size_ha"`
	Crop       string  `json:"crop_type"`
}

// Output is the government tool's result payload.
type Output struct {
	Profile FarmerProfile `json:"farmer_profile"`
	Schemes []Scheme      `json:"schemes"`
}

const defaultLandSizeHa = 2.0

// catalog is the curated scheme set served when no upstream scheme API is
// configured. Benefit amounts are annual rupee values used by context fusion.
var catalog = []Scheme{
	{
		Name:               "PM-KISAN",
		Description:        "Income support of Rs 6000 per year to landholding farmer families in three installments",
		BenefitAmount:      6000,
		BenefitUnit:        "INR/year",
		Eligibility:        "All landholding farmer families with cultivable land",
		ApplicationProcess: "Register at pmkisan.gov.in or through the local patwari with land records and Aadhaar",
		Source:             "curated_catalog",
	},
	{
		Name:               "PMFBY",
		Description:        "Pradhan Mantri Fasal Bima Yojana crop insurance against natural calamities, pests and diseases",
		BenefitAmount:      15000,
		BenefitUnit:        "INR/year",
		Eligibility:        "Farmers growing notified crops in notified areas, loanee and non-loanee",
		ApplicationProcess: "Enroll through bank, CSC or pmfby.gov.in before the seasonal cutoff date",
		Source:             "curated_catalog",
	},
	{
		Name:               "Kisan Credit Card",
		Description:        "Short-term credit for cultivation expenses at subsidised interest rates",
		BenefitAmount:      4000,
		BenefitUnit:        "INR/year",
		Eligibility:        "All farmers including tenant farmers and sharecroppers",
		ApplicationProcess: "Apply at any commercial bank branch with land documents and identity proof",
		Source:             "curated_catalog",
	},
	{
		Name:               "Soil Health Card",
		Description:        "Free soil testing with crop-wise fertilizer recommendations every two years",
		BenefitAmount:      500,
		BenefitUnit:        "INR/year",
		Eligibility:        "All farmers",
		ApplicationProcess: "Request through the district agriculture office or soilhealth.dac.gov.in",
		Source:             "curated_catalog",
	},
}

// Tool resolves the government schemes a farmer profile is eligible for.
// When a scheme API base URL is configured it is tried first; otherwise the
// curated catalog answers locally.
type Tool struct {
	client  *httpx.Client
	baseURL string
	logger  logger.Logger
}

func New(cfg *config.Config, log logger.Logger) *Tool {
	apiCfg := cfg.APIs.Government
	timeout := time.Duration(apiCfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Tool{
		client:  httpx.NewClient(timeout),
		baseURL: strings.TrimRight(apiCfg.BaseURL, "/"),
		logger:  log,
	}
}

func (t *Tool) Name() string { return tools.ToolGovernment }

func (t *Tool) Run(ctx context.Context, req *tools.Request) (interface{}, error) {
	profile := FarmerProfile{
		State:      req.State,
		LandSizeHa: defaultLandSizeHa,
		Crop:       req.Commodity,
	}
	if req.FarmerContext != nil && req.FarmerContext.LandSizeHa > 0 {
		profile.LandSizeHa = req.FarmerContext.LandSizeHa
	}

	if t.baseURL != "" {
		if schemes, err := t.fetchUpstream(ctx, profile); err == nil && len(schemes) > 0 {
			return &Output{Profile: profile, Schemes: schemes}, nil
		} else if err != nil {
			t.logger.Warn("scheme API fetch failed, using curated catalog", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &Output{Profile: profile, Schemes: eligibleSchemes(profile)}, nil
}

func (t *Tool) fetchUpstream(ctx context.Context, profile FarmerProfile) ([]Scheme, error) {
	var resp struct {
		Schemes []Scheme `json:"schemes"`
	}
	params := url.Values{}
	params.Set("state", profile.State)
	params.Set("crop", profile.Crop)
	if err := t.client.GetJSON(ctx, t.baseURL+"/schemes/eligible", params, &resp); err != nil {
		return nil, err
	}
	return resp.Schemes, nil
}

// eligibleSchemes filters the catalog against the profile. PMFBY needs a
// crop to insure; everything else applies to all landholders.
func eligibleSchemes(profile FarmerProfile) []Scheme {
	schemes := make([]Scheme, 0, len(catalog))
	for _, scheme := range catalog {
		if scheme.Name == "PMFBY" && profile.Crop == "" {
			continue
		}
		schemes = append(schemes, scheme)
	}
	return schemes
}
