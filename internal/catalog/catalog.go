// Package catalog holds the fixed table of analysis domains and the indicator charts behind them.
package catalog

import (
	"strings"
)

const (
	DomainMacro      = "macro"
	DomainLeadership = "leadership"
	DomainBreadth    = "breadth"
	DomainLiquidity  = "liquidity"
	DomainVolatility = "volatility"
	DomainSentiment  = "sentiment"
)

const (
	DefaultLongTermBaseURL  = "https://cyclescope-dashboard-production.up.railway.app/charts"
	DefaultShortTermBaseURL = "https://cyclescope-delta-dashboard-production.up.railway.app/charts"
)

// Codes lists every domain code in batch order.
var Codes = []string{
	DomainMacro,
	DomainLeadership,
	DomainBreadth,
	DomainLiquidity,
	DomainVolatility,
	DomainSentiment,
}

type Indicator struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Role              string `json:"role"`
	LongTermChartURL  string `json:"long_term_chart_url,omitempty"`
	ShortTermChartURL string `json:"short_term_chart_url"`
}

// HasLongTermChart reports whether the indicator has a long-term chart.
func (i Indicator) HasLongTermChart() bool {
	return i.LongTermChartURL != ""
}

type Domain struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Indicators  []Indicator `json:"indicators"`
}

// ChartURLs returns the domain's chart references in message order:
// per indicator, the long-term chart when present followed by the short-term chart.
func (d Domain) ChartURLs() []string {
	urls := make([]string, 0, len(d.Indicators)*2)
	for _, ind := range d.Indicators {
		if ind.HasLongTermChart() {
			urls = append(urls, ind.LongTermChartURL)
		}
		urls = append(urls, ind.ShortTermChartURL)
	}
	return urls
}

type DomainStat struct {
	Domain string `json:"domain"`
	Code   string `json:"code"`
	Count  int    `json:"count"`
}

type Stats struct {
	TotalDomains       int          `json:"total_domains"`
	TotalIndicators    int          `json:"total_indicators"`
	IndicatorsByDomain []DomainStat `json:"indicators_by_domain"`
}

// Catalog is an immutable lookup over the six domains.
type Catalog struct {
	domains []Domain
	byCode  map[string]Domain
}

// New builds the catalog with chart URLs rooted at the given dashboard bases.
// Empty bases fall back to the production dashboards.
func New(longTermBaseURL, shortTermBaseURL string) *Catalog {
	if longTermBaseURL == "" {
		longTermBaseURL = DefaultLongTermBaseURL
	}
	if shortTermBaseURL == "" {
		shortTermBaseURL = DefaultShortTermBaseURL
	}
	longTermBaseURL = strings.TrimRight(longTermBaseURL, "/")
	shortTermBaseURL = strings.TrimRight(shortTermBaseURL, "/")

	domains := make([]Domain, 0, len(definitions))
	byCode := make(map[string]Domain, len(definitions))
	for _, def := range definitions {
		d := Domain{
			Code:        def.code,
			Name:        def.name,
			Description: def.description,
			Indicators:  make([]Indicator, 0, len(def.indicators)),
		}
		for _, ind := range def.indicators {
			i := Indicator{
				ID:                ind.id,
				Name:              ind.name,
				Symbol:            ind.symbol,
				Role:              ind.role,
				ShortTermChartURL: shortTermBaseURL + "/" + ind.shortTermChart,
			}
			if ind.longTermChart != "" {
				i.LongTermChartURL = longTermBaseURL + "/" + ind.longTermChart
			}
			d.Indicators = append(d.Indicators, i)
		}
		domains = append(domains, d)
		byCode[d.Code] = d
	}

	return &Catalog{domains: domains, byCode: byCode}
}

// Default returns the catalog pointing at the production dashboards.
func Default() *Catalog {
	return New("", "")
}

// Get looks a domain up by code, case-insensitively.
func (c *Catalog) Get(code string) (Domain, bool) {
	d, ok := c.byCode[strings.ToLower(strings.TrimSpace(code))]
	return d, ok
}

// All returns every domain in batch order.
func (c *Catalog) All() []Domain {
	out := make([]Domain, len(c.domains))
	copy(out, c.domains)
	return out
}

// IsValidCode reports whether code is one of the six known codes. Matching is exact.
func IsValidCode(code string) bool {
	for _, c := range Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Indicator returns one indicator of a domain.
func (c *Catalog) Indicator(domainCode, indicatorID string) (Indicator, bool) {
	d, ok := c.Get(domainCode)
	if !ok {
		return Indicator{}, false
	}
	for _, ind := range d.Indicators {
		if ind.ID == indicatorID {
			return ind, true
		}
	}
	return Indicator{}, false
}

// Indicators returns every indicator across all domains in batch order.
func (c *Catalog) Indicators() []Indicator {
	var out []Indicator
	for _, d := range c.domains {
		out = append(out, d.Indicators...)
	}
	return out
}

func (c *Catalog) TotalIndicatorCount() int {
	total := 0
	for _, d := range c.domains {
		total += len(d.Indicators)
	}
	return total
}

func (c *Catalog) Stats() Stats {
	stats := Stats{
		TotalDomains:       len(c.domains),
		TotalIndicators:    c.TotalIndicatorCount(),
		IndicatorsByDomain: make([]DomainStat, 0, len(c.domains)),
	}
	for _, d := range c.domains {
		stats.IndicatorsByDomain = append(stats.IndicatorsByDomain, DomainStat{
			Domain: d.Name,
			Code:   d.Code,
			Count:  len(d.Indicators),
		})
	}
	return stats
}
