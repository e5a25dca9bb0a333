package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/model"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/metrics"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"gorm.io/gorm"
)

// JobRepository keeps the execution log of background jobs. Without a database
// every write is a no-op and every read is empty.
type JobRepository interface {
	Available() bool
	CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error
	UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error
	// GetRecentExecutions returns the newest executions first. An empty jobType matches every job.
	GetRecentExecutions(ctx context.Context, jobType string, limit int, opts ...utils.DBOption) ([]model.TaskExecutionHistory, error)
	DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type jobRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepository(db *gorm.DB, log *logger.Logger) JobRepository {
	return &jobRepository{db: db, log: log}
}

func (r *jobRepository) Available() bool {
	return r.db != nil
}

func (r *jobRepository) CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	if r.db == nil {
		metrics.StoreOperations.WithLabelValues("create_task_history", "unavailable").Inc()
		return nil
	}
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(history).Error
	metrics.StoreOperations.WithLabelValues("create_task_history", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return fmt.Errorf("%w: create task history: %w", dto.ErrStorageFailure, err)
	}
	return nil
}

func (r *jobRepository) UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, opts ...utils.DBOption) error {
	if r.db == nil || history.ID == 0 {
		return nil
	}
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(history).Error
	metrics.StoreOperations.WithLabelValues("update_task_history", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return fmt.Errorf("%w: update task history: %w", dto.ErrStorageFailure, err)
	}
	return nil
}

func (r *jobRepository) GetRecentExecutions(ctx context.Context, jobType string, limit int, opts ...utils.DBOption) ([]model.TaskExecutionHistory, error) {
	if r.db == nil {
		return []model.TaskExecutionHistory{}, nil
	}

	var histories []model.TaskExecutionHistory
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if jobType != "" {
		db = db.Where("job_type = ?", jobType)
	}
	err := db.Order("started_at DESC").Limit(limit).Find(&histories).Error
	metrics.StoreOperations.WithLabelValues("get_task_history", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w: get task history: %w", dto.ErrStorageFailure, err)
	}
	return histories, nil
}

func (r *jobRepository) DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	if r.db == nil {
		return 0, nil
	}
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("started_at < ?", date).
		Delete(&model.TaskExecutionHistory{})
	metrics.StoreOperations.WithLabelValues("delete_task_history", metrics.StatusLabel(result.Error)).Inc()
	if result.Error != nil {
		return 0, fmt.Errorf("%w: delete task history: %w", dto.ErrStorageFailure, result.Error)
	}
	return result.RowsAffected, nil
}
