// internal/tools/websearch/websearch.go
package websearch

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"agri-intelligence/internal/common/config"
	httpx "agri-intelligence/internal/common/http"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/tools"
)

// Result is one scored web search hit.
type Result struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Snippet        string  `json:"snippet"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
	Timestamp      string  `json:"timestamp"`
}

// Output is the web search tool's result payload.
type Output struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

const (
	defaultResults = 5
	maxSiteFilters = 3
)

// trustedDomains are Indian and international agricultural authorities whose
// results get a relevance boost and seed the site: filter.
var trustedDomains = []string{
	"icar.org.in",
	"farmer.gov.in",
	"agmarknet.gov.in",
	"pmkisan.gov.in",
	"agricoop.gov.in",
	"krishi.icar.gov.in",
	"extension.org",
	"fao.org",
}

var agriKeywords = []string{"farming", "crop", "agriculture", "farmer", "cultivation", "harvest"}

type customSearchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
}

// Tool queries the Google Custom Search API scoped toward trusted
// agricultural sources. Upstream failures degrade to a single advisory
// pointer instead of an error.
type Tool struct {
	client   *httpx.Client
	baseURL  string
	apiKey   string
	engineID string
	logger   logger.Logger
	now      func() time.Time
}

func New(cfg *config.Config, log logger.Logger) *Tool {
	apiCfg := cfg.APIs.WebSearch
	timeout := time.Duration(apiCfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Tool{
		client:   httpx.NewClient(timeout),
		baseURL:  strings.TrimRight(apiCfg.BaseURL, "/"),
		apiKey:   apiCfg.APIKey,
		engineID: apiCfg.EngineID,
		logger:   log,
		now:      time.Now,
	}
}

func (t *Tool) Name() string { return tools.ToolWebSearch }

func (t *Tool) Run(ctx context.Context, req *tools.Request) (interface{}, error) {
	category := strings.ReplaceAll(string(req.Classification.PrimaryCategory), "_", " ")
	query := strings.TrimSpace(category + " " + req.Commodity)

	results := t.Search(ctx, query, req.State, defaultResults)
	return &Output{Query: query, Results: results}, nil
}

// Search runs an enhanced agricultural query and scores the hits. The query
// gains India-specific framing and a site filter over the trusted domains.
// Hits are deduplicated by URL and returned most relevant first.
func (t *Tool) Search(ctx context.Context, query, location string, num int) []Result {
	if num <= 0 {
		num = defaultResults
	}
	enhanced := enhanceQuery(query, location)

	if t.baseURL == "" || t.apiKey == "" || t.engineID == "" {
		t.logger.Warn("web search not configured, using fallback result", nil)
		return fallbackResults(t.now())
	}

	params := url.Values{}
	params.Set("key", t.apiKey)
	params.Set("cx", t.engineID)
	params.Set("q", enhanced)
	params.Set("num", strconv.Itoa(num))
	params.Set("dateRestrict", "y1")
	params.Set("lr", "lang_en")
	params.Set("safe", "active")

	var resp customSearchResponse
	if err := t.client.GetJSON(ctx, t.baseURL, params, &resp); err != nil {
		t.logger.Warn("web search failed, using fallback result", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackResults(t.now())
	}

	timestamp := t.now().Format(time.RFC3339)
	seen := make(map[string]bool, len(resp.Items))
	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link == "" || seen[item.Link] {
			continue
		}
		seen[item.Link] = true
		results = append(results, Result{
			Title:          item.Title,
			URL:            item.Link,
			Snippet:        item.Snippet,
			Source:         item.DisplayLink,
			RelevanceScore: relevance(item.DisplayLink, item.Title+" "+item.Snippet),
			Timestamp:      timestamp,
		})
	}
	// Most relevant first; ties keep upstream order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > num {
		results = results[:num]
	}
	if len(results) == 0 {
		return fallbackResults(t.now())
	}
	return results
}

// enhanceQuery frames the raw query for Indian agriculture and pins the
// first trusted domains as a site filter.
func enhanceQuery(query, location string) string {
	var b strings.Builder
	b.WriteString("agriculture farming ")
	b.WriteString(query)
	if location != "" {
		fmt.Fprintf(&b, " %s", location)
	}
	b.WriteString(" India (")
	for i, domain := range trustedDomains[:maxSiteFilters] {
		if i > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString("site:" + domain)
	}
	b.WriteString(")")
	return b.String()
}

// relevance starts at 0.5, adds 0.3 for trusted sources and 0.05 per
// agricultural keyword in the text, capped at 1.0.
func relevance(source, text string) float64 {
	score := 0.5
	for _, domain := range trustedDomains {
		if strings.Contains(source, domain) {
			score += 0.3
			break
		}
	}
	lower := strings.ToLower(text)
	for _, keyword := range agriKeywords {
		if strings.Contains(lower, keyword) {
			score += 0.05
		}
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

func fallbackResults(now time.Time) []Result {
	return []Result{{
		Title:          "Farmers Portal - Government of India",
		URL:            "https://farmer.gov.in",
		Snippet:        "Official agricultural advisories, crop guidance and scheme information for Indian farmers.",
		Source:         "farmer.gov.in",
		RelevanceScore: 0.7,
		Timestamp:      now.Format(time.RFC3339),
	}}
}
