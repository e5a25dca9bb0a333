package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/model"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/metrics"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DomainAnalysisRepository interface {
	// Available reports whether a database is attached.
	Available() bool
	// Upsert inserts or replaces the row for (date, dimension_code) and returns the stored row.
	Upsert(ctx context.Context, analysis *model.DomainAnalysis, opts ...utils.DBOption) (*model.DomainAnalysis, error)
	GetLatest(ctx context.Context, dimensionCode string, opts ...utils.DBOption) (*model.DomainAnalysis, error)
	GetAllLatest(ctx context.Context, opts ...utils.DBOption) ([]model.DomainAnalysis, error)
	GetHistory(ctx context.Context, dimensionCode string, limit int, opts ...utils.DBOption) ([]model.DomainAnalysis, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, opts ...utils.DBOption) (int64, error)
}

// upsertColumns are overwritten when (date, dimension_code) already exists.
// created_at is left alone so the first insert time survives.
var upsertColumns = []string{
	"dimension_name",
	"as_of_date",
	"full_analysis",
	"indicator_count",
	"integrated_read_bullets",
	"overall_conclusion_summary",
	"tone_headline",
	"tone_bullets",
	"updated_at",
}

type domainAnalysisRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDomainAnalysisRepository accepts a nil db. Writes then become no-ops and reads return nothing.
func NewDomainAnalysisRepository(db *gorm.DB, log *logger.Logger) DomainAnalysisRepository {
	return &domainAnalysisRepository{db: db, log: log}
}

func (r *domainAnalysisRepository) Available() bool {
	return r.db != nil
}

func (r *domainAnalysisRepository) Upsert(ctx context.Context, analysis *model.DomainAnalysis, opts ...utils.DBOption) (*model.DomainAnalysis, error) {
	if !r.Available() {
		r.log.WarnContext(ctx, "Database not configured, skipping domain analysis save",
			logger.StringField("dimension_code", analysis.DimensionCode),
			logger.StringField("date", utils.FormatDate(analysis.DateValue())),
		)
		metrics.StoreOperations.WithLabelValues("upsert", "unavailable").Inc()
		return nil, nil
	}

	analysis.ID = 0
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}, {Name: "dimension_code"}},
				DoUpdates: clause.AssignmentColumns(upsertColumns),
			},
			clause.Returning{},
		).
		Create(analysis).Error
	metrics.StoreOperations.WithLabelValues("upsert", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w: upsert %s/%s: %w", dto.ErrStorageFailure,
			utils.FormatDate(analysis.DateValue()), analysis.DimensionCode, err)
	}
	return analysis, nil
}

func (r *domainAnalysisRepository) GetLatest(ctx context.Context, dimensionCode string, opts ...utils.DBOption) (*model.DomainAnalysis, error) {
	if !r.Available() {
		r.log.WarnContext(ctx, "Database not configured, no latest analysis", logger.StringField("dimension_code", dimensionCode))
		return nil, nil
	}

	var analysis model.DomainAnalysis
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("dimension_code = ?", dimensionCode).
		Order("date DESC").
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.StoreOperations.WithLabelValues("get_latest", "success").Inc()
			return nil, nil
		}
		metrics.StoreOperations.WithLabelValues("get_latest", "error").Inc()
		return nil, fmt.Errorf("%w: latest %s: %w", dto.ErrStorageFailure, dimensionCode, err)
	}
	metrics.StoreOperations.WithLabelValues("get_latest", "success").Inc()
	return &analysis, nil
}

func (r *domainAnalysisRepository) GetAllLatest(ctx context.Context, opts ...utils.DBOption) ([]model.DomainAnalysis, error) {
	if !r.Available() {
		r.log.WarnContext(ctx, "Database not configured, no latest analyses")
		return []model.DomainAnalysis{}, nil
	}

	analyses := []model.DomainAnalysis{}
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Raw(`SELECT DISTINCT ON (dimension_code) * FROM domain_analyses ORDER BY dimension_code, date DESC`).
		Scan(&analyses).Error
	metrics.StoreOperations.WithLabelValues("get_all_latest", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w: all latest: %w", dto.ErrStorageFailure, err)
	}
	return analyses, nil
}

func (r *domainAnalysisRepository) GetHistory(ctx context.Context, dimensionCode string, limit int, opts ...utils.DBOption) ([]model.DomainAnalysis, error) {
	if !r.Available() {
		r.log.WarnContext(ctx, "Database not configured, no history", logger.StringField("dimension_code", dimensionCode))
		return []model.DomainAnalysis{}, nil
	}

	analyses := []model.DomainAnalysis{}
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("dimension_code = ?", dimensionCode).
		Order("date DESC").
		Limit(limit).
		Find(&analyses).Error
	metrics.StoreOperations.WithLabelValues("get_history", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w: history %s: %w", dto.ErrStorageFailure, dimensionCode, err)
	}
	return analyses, nil
}

func (r *domainAnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time, opts ...utils.DBOption) (int64, error) {
	if !r.Available() {
		r.log.WarnContext(ctx, "Database not configured, skipping cleanup")
		metrics.StoreOperations.WithLabelValues("delete_older_than", "unavailable").Inc()
		return 0, nil
	}

	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("date < ?", utils.FormatDate(cutoff)).
		Delete(&model.DomainAnalysis{})
	metrics.StoreOperations.WithLabelValues("delete_older_than", metrics.StatusLabel(res.Error)).Inc()
	if res.Error != nil {
		return 0, fmt.Errorf("%w: delete before %s: %w", dto.ErrStorageFailure, utils.FormatDate(cutoff), res.Error)
	}
	metrics.RetentionDeleted.Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}
