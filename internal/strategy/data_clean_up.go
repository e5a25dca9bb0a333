package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"
)

// AnalysisCleaner removes analyses that fell out of the retention window.
type AnalysisCleaner interface {
	Cleanup(ctx context.Context) (*dto.CleanupResult, error)
}

// HistoryCleaner prunes the job execution log.
type HistoryCleaner interface {
	DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type DataCleanUpResult struct {
	Table  string `json:"table"`
	Cutoff string `json:"cutoff,omitempty"`
	Total  int64  `json:"total"`
	Error  string `json:"error,omitempty"`
}

type DataCleanUpStrategy struct {
	cfg     *config.Config
	log     *logger.Logger
	clock   utils.Clock
	cleaner AnalysisCleaner
	history HistoryCleaner
}

// NewDataCleanUpStrategy builds the retention sweep. history may be nil.
func NewDataCleanUpStrategy(cfg *config.Config, log *logger.Logger, clock utils.Clock, cleaner AnalysisCleaner, history HistoryCleaner) JobExecutionStrategy {
	return &DataCleanUpStrategy{
		cfg:     cfg,
		log:     log,
		clock:   clock,
		cleaner: cleaner,
		history: history,
	}
}

func (s *DataCleanUpStrategy) Execute(ctx context.Context) (JobResult, error) {
	s.log.InfoContext(ctx, "Starting data clean up", logger.IntField("retention_days", s.cfg.Retention.Days))

	var (
		outputMsg []DataCleanUpResult
		failed    []error
		total     int64
	)

	analyses := DataCleanUpResult{Table: "domain_analyses"}
	result, err := s.cleaner.Cleanup(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to delete old domain analyses", logger.ErrorField(err))
		analyses.Error = err.Error()
		failed = append(failed, err)
	} else {
		analyses.Cutoff = result.Cutoff
		analyses.Total = result.Deleted
		total += result.Deleted
	}
	outputMsg = append(outputMsg, analyses)

	if s.history != nil {
		cutoff := utils.DaysAgo(s.clock, s.cfg.Retention.Days)
		jobHistory := DataCleanUpResult{Table: "task_execution_history", Cutoff: utils.FormatDate(cutoff)}
		deleted, err := s.history.DeleteTaskHistoryOlderThan(ctx, cutoff)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to delete old job history", logger.ErrorField(err))
			jobHistory.Error = err.Error()
			failed = append(failed, err)
		} else {
			jobHistory.Total = deleted
			total += deleted
		}
		outputMsg = append(outputMsg, jobHistory)
	}

	res, mErr := json.Marshal(outputMsg)
	if mErr != nil {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal output message: %v", mErr)}, fmt.Errorf("failed to marshal output message: %w", mErr)
	}
	if len(failed) > 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: string(res)}, fmt.Errorf("failed to clean up: %w", failed[0])
	}
	if total == 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: string(res)}, nil
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(res)}, nil
}

func (s *DataCleanUpStrategy) GetType() JobType {
	return JobTypeDataCleanUp
}
