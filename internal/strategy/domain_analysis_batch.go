package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
)

// BatchRunner runs the analyze-all batch for a date.
type BatchRunner interface {
	RunAll(ctx context.Context, asOfDate time.Time) (*dto.BatchResult, error)
}

// DomainAnalysisBatchStrategy runs the daily analyze-all batch for today's date.
type DomainAnalysisBatchStrategy struct {
	cfg    *config.Config
	log    *logger.Logger
	runner BatchRunner
}

func NewDomainAnalysisBatchStrategy(cfg *config.Config, log *logger.Logger, runner BatchRunner) JobExecutionStrategy {
	return &DomainAnalysisBatchStrategy{
		cfg:    cfg,
		log:    log,
		runner: runner,
	}
}

func (s *DomainAnalysisBatchStrategy) Execute(ctx context.Context) (JobResult, error) {
	s.log.InfoContext(ctx, "Starting scheduled domain analysis batch")

	result, err := s.runner.RunAll(ctx, time.Time{})
	if err != nil {
		s.log.ErrorContext(ctx, "Domain analysis batch failed", logger.ErrorField(err))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: err.Error()}, fmt.Errorf("failed to run domain analysis batch: %w", err)
	}

	output, err := json.Marshal(result)
	if err != nil {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal batch result: %v", err)}, fmt.Errorf("failed to marshal batch result: %w", err)
	}

	switch {
	case !result.Success:
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: string(output)}, fmt.Errorf("all %d domains failed", result.Total)
	case result.FailureCount > 0:
		return JobResult{ExitCode: JOB_EXIT_CODE_PARTIAL_SUCCESS, Output: string(output)}, nil
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(output)}, nil
}

func (s *DomainAnalysisBatchStrategy) GetType() JobType {
	return JobTypeDomainAnalysisBatch
}
