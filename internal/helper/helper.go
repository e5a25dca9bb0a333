package helper

import (
	"encoding/json"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/model"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"gorm.io/datatypes"
)

// NormalizeDomainAnalysis projects an assistant result onto the row stored for date.
// It never fails: missing blocks become empty strings and empty slices.
func NormalizeDomainAnalysis(result *dto.DomainAnalysisResult, date time.Time) *model.DomainAnalysis {
	record := &model.DomainAnalysis{
		Date:                  datatypes.Date(utils.TruncateToDate(date)),
		IntegratedReadBullets: datatypes.JSONSlice[string]{},
		ToneBullets:           datatypes.JSONSlice[string]{},
		FullAnalysis:          datatypes.JSON("{}"),
	}
	if result == nil {
		return record
	}

	record.DimensionCode = result.DimensionCode
	record.DimensionName = result.DimensionName
	record.IndicatorCount = len(result.Indicators)

	if asOf, err := utils.ParseDate(result.AsOfDate); err == nil {
		d := datatypes.Date(asOf)
		record.AsOfDate = &d
	}

	if len(result.Raw) > 0 {
		record.FullAnalysis = datatypes.JSON(result.Raw)
	} else if raw, err := json.Marshal(result); err == nil {
		record.FullAnalysis = datatypes.JSON(raw)
	}

	if r := result.IntegratedDimensionRead; r != nil && r.Bullets != nil {
		record.IntegratedReadBullets = datatypes.JSONSlice[string](r.Bullets)
	}
	if c := result.OverallConclusion; c != nil {
		record.OverallConclusionSummary = c.Summary
	}
	if t := result.DimensionTone; t != nil {
		record.ToneHeadline = t.ToneHeadline
		if t.ToneBullets != nil {
			record.ToneBullets = datatypes.JSONSlice[string](t.ToneBullets)
		}
	}

	return record
}

// ToDomainAnalysisSummary maps a stored row to its list projection.
func ToDomainAnalysisSummary(m *model.DomainAnalysis) dto.DomainAnalysisSummary {
	summary := dto.DomainAnalysisSummary{
		Date:                     utils.FormatDate(m.DateValue()),
		DimensionCode:            m.DimensionCode,
		DimensionName:            m.DimensionName,
		IndicatorCount:           m.IndicatorCount,
		IntegratedReadBullets:    nonNil(m.IntegratedReadBullets),
		OverallConclusionSummary: m.OverallConclusionSummary,
		ToneHeadline:             m.ToneHeadline,
		ToneBullets:              nonNil(m.ToneBullets),
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
	if m.AsOfDate != nil {
		summary.AsOfDate = utils.FormatDate(time.Time(*m.AsOfDate))
	}
	return summary
}

// ToDomainAnalysisRecord maps a stored row including the full payload.
func ToDomainAnalysisRecord(m *model.DomainAnalysis) *dto.DomainAnalysisRecord {
	return &dto.DomainAnalysisRecord{
		DomainAnalysisSummary: ToDomainAnalysisSummary(m),
		FullAnalysis:          json.RawMessage(m.FullAnalysis),
	}
}

// ToDomainAnalysisSummaries maps a slice of stored rows.
func ToDomainAnalysisSummaries(rows []model.DomainAnalysis) []dto.DomainAnalysisSummary {
	out := make([]dto.DomainAnalysisSummary, 0, len(rows))
	for i := range rows {
		out = append(out, ToDomainAnalysisSummary(&rows[i]))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func ToJobExecution(h *model.TaskExecutionHistory) dto.JobExecution {
	exec := dto.JobExecution{
		ID:        h.ID,
		JobType:   h.JobType,
		Status:    string(h.Status),
		StartedAt: h.StartedAt,
	}
	if h.CompletedAt.Valid {
		exec.CompletedAt = utils.ToPointer(h.CompletedAt.Time)
	}
	if h.ExitCode.Valid {
		exec.ExitCode = utils.ToPointer(h.ExitCode.Int32)
	}
	exec.Output = h.Output.String
	exec.ErrorMessage = h.ErrorMessage.String
	return exec
}
