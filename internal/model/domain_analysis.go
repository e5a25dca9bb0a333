package model

import (
	"time"

	"gorm.io/datatypes"
)

// DomainAnalysis is one stored assistant analysis, unique per (date, dimension_code).
// The summary columns duplicate parts of FullAnalysis so list views need not decode it.
type DomainAnalysis struct {
	ID                       uint                        `gorm:"primarykey"`
	Date                     datatypes.Date              `gorm:"type:date;not null;uniqueIndex:uq_domain_analyses_date_code,priority:1"`
	DimensionCode            string                      `gorm:"type:varchar(20);not null;uniqueIndex:uq_domain_analyses_date_code,priority:2"`
	DimensionName            string                      `gorm:"type:varchar(100);not null"`
	AsOfDate                 *datatypes.Date             `gorm:"type:date"`
	FullAnalysis             datatypes.JSON              `gorm:"type:jsonb;not null"`
	IndicatorCount           int                         `gorm:"not null;default:0"`
	IntegratedReadBullets    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	OverallConclusionSummary string                      `gorm:"type:text"`
	ToneHeadline             string                      `gorm:"type:text"`
	ToneBullets              datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt                time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DomainAnalysis) TableName() string {
	return "domain_analyses"
}

// DateValue returns Date as a time.Time.
func (d *DomainAnalysis) DateValue() time.Time {
	return time.Time(d.Date)
}
