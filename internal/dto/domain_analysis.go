package dto

import (
	"encoding/json"
	"time"
)

type TimeframeAnalysis struct {
	Timeframe string `json:"timeframe"`
	Analysis  string `json:"analysis"`
	Takeaway  string `json:"takeaway"`
}

type IndicatorAnalysis struct {
	IndicatorID   string             `json:"indicator_id"`
	IndicatorName string             `json:"indicator_name"`
	Symbol        string             `json:"symbol"`
	Role          string             `json:"role"`
	LongTerm      *TimeframeAnalysis `json:"long_term,omitempty"`
	ShortTerm     *TimeframeAnalysis `json:"short_term,omitempty"`
}

type IntegratedDimensionRead struct {
	Bullets []string `json:"bullets"`
}

type OverallConclusion struct {
	Summary string `json:"summary"`
}

type DimensionTone struct {
	ToneHeadline string   `json:"tone_headline"`
	ToneBullets  []string `json:"tone_bullets"`
}

// DomainAnalysisResult is the structured analysis returned by the assistant for one domain and date.
type DomainAnalysisResult struct {
	AsOfDate                string                   `json:"as_of_date"`
	DimensionName           string                   `json:"dimension_name"`
	DimensionCode           string                   `json:"dimension_code"`
	Indicators              []IndicatorAnalysis      `json:"indicators"`
	IntegratedDimensionRead *IntegratedDimensionRead `json:"integrated_dimension_read,omitempty"`
	OverallConclusion       *OverallConclusion       `json:"overall_conclusion,omitempty"`
	DimensionTone           *DimensionTone           `json:"dimension_tone,omitempty"`

	// Raw is the recovered JSON object exactly as the assistant produced it.
	Raw json.RawMessage `json:"-"`
}

// DomainAnalysisSummary is a stored analysis without its full body.
type DomainAnalysisSummary struct {
	Date                     string    `json:"date"`
	DimensionCode            string    `json:"dimension_code"`
	DimensionName            string    `json:"dimension_name"`
	AsOfDate                 string    `json:"as_of_date,omitempty"`
	IndicatorCount           int       `json:"indicator_count"`
	IntegratedReadBullets    []string  `json:"integrated_read_bullets"`
	OverallConclusionSummary string    `json:"overall_conclusion_summary"`
	ToneHeadline             string    `json:"tone_headline"`
	ToneBullets              []string  `json:"tone_bullets"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// DomainAnalysisRecord is a stored analysis including the verbatim assistant payload.
type DomainAnalysisRecord struct {
	DomainAnalysisSummary
	FullAnalysis json.RawMessage `json:"full_analysis"`
}

type AnalyzeDomainResult struct {
	// Stored is false when no database is configured and the analysis was not persisted.
	Stored   bool                  `json:"stored"`
	Analysis *DomainAnalysisRecord `json:"analysis"`
}

type CleanupResult struct {
	Cutoff  string `json:"cutoff"`
	Deleted int64  `json:"deleted"`
}
