package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/helper"
	"github.com/schiang418/cyclescope-domain-api/internal/model"
	"github.com/schiang418/cyclescope-domain-api/internal/repository"
	"github.com/schiang418/cyclescope-domain-api/internal/strategy"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/metrics"
)

type TaskExecutor interface {
	Execute(ctx context.Context, jobType strategy.JobType) (strategy.JobResult, error)
	ExecutionHistory(ctx context.Context, jobType string, limit int) ([]dto.JobExecution, error)
}

type taskExecutor struct {
	cfg                *config.Config
	log                *logger.Logger
	jobRepo            repository.JobRepository
	executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy
}

func NewTaskExecutor(
	cfg *config.Config,
	log *logger.Logger,
	jobRepo repository.JobRepository,
	executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy,
) TaskExecutor {
	return &taskExecutor{
		cfg:                cfg,
		log:                log,
		jobRepo:            jobRepo,
		executorStrategies: executorStrategies,
	}
}

func (t *taskExecutor) Execute(ctx context.Context, jobType strategy.JobType) (strategy.JobResult, error) {
	t.log.InfoContext(ctx, "Processing job", logger.StringField("job_type", string(jobType)))

	executor := t.executorStrategies[jobType]
	if executor == nil {
		t.log.ErrorContext(ctx, "Job type not found", logger.StringField("job_type", string(jobType)))
		metrics.JobExecutions.WithLabelValues(string(jobType), "error").Inc()
		return strategy.JobResult{ExitCode: strategy.JOB_EXIT_CODE_FAILED, Output: "job type not found"},
			fmt.Errorf("job type %q not found", jobType)
	}

	start := time.Now()
	history := &model.TaskExecutionHistory{
		JobType:   string(jobType),
		StartedAt: start,
		Status:    model.StatusRunning,
	}
	t.recordStart(ctx, history)

	result, err := executor.Execute(ctx)
	metrics.ObserveSince(metrics.JobDuration.WithLabelValues(string(jobType)), start)
	metrics.JobExecutions.WithLabelValues(string(jobType), metrics.StatusLabel(err)).Inc()
	t.recordFinish(ctx, history, result, err)

	if err != nil {
		t.log.ErrorContext(ctx, "Failed to execute job", logger.ErrorField(err), logger.StringField("job_type", string(jobType)))
		return result, err
	}

	t.log.InfoContext(ctx, "Job completed",
		logger.StringField("job_type", string(jobType)),
		logger.IntField("exit_code", int(result.ExitCode)),
		logger.DurationField("duration", time.Since(start)),
	)
	return result, nil
}

func (t *taskExecutor) ExecutionHistory(ctx context.Context, jobType string, limit int) ([]dto.JobExecution, error) {
	if t.jobRepo == nil {
		return []dto.JobExecution{}, nil
	}
	histories, err := t.jobRepo.GetRecentExecutions(ctx, jobType, limit)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to get job history", logger.ErrorField(err))
		return nil, err
	}
	executions := make([]dto.JobExecution, 0, len(histories))
	for i := range histories {
		executions = append(executions, helper.ToJobExecution(&histories[i]))
	}
	return executions, nil
}

// recordStart and recordFinish never fail the job; the log is best effort.
func (t *taskExecutor) recordStart(ctx context.Context, history *model.TaskExecutionHistory) {
	if t.jobRepo == nil {
		return
	}
	if err := t.jobRepo.CreateTaskExecutionHistory(ctx, history); err != nil {
		t.log.WarnContext(ctx, "Failed to record job start", logger.ErrorField(err))
	}
}

func (t *taskExecutor) recordFinish(ctx context.Context, history *model.TaskExecutionHistory, result strategy.JobResult, err error) {
	if t.jobRepo == nil {
		return
	}

	history.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	history.ExitCode = sql.NullInt32{Int32: result.ExitCode, Valid: true}
	history.Output = sql.NullString{String: result.Output, Valid: result.Output != ""}
	switch {
	case err == nil:
		history.Status = model.StatusCompleted
	case errors.Is(err, context.DeadlineExceeded):
		history.Status = model.StatusTimeout
	default:
		history.Status = model.StatusFailed
	}
	if err != nil {
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	}

	// The job context may already be done when the job timed out.
	if uErr := t.jobRepo.UpdateTaskExecutionHistory(context.WithoutCancel(ctx), history); uErr != nil {
		t.log.WarnContext(ctx, "Failed to record job result", logger.ErrorField(uErr))
	}
}
