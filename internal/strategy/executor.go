package strategy

import (
	"context"
)

const (
	JOB_EXIT_CODE_SUCCESS         = 200
	JOB_EXIT_CODE_FAILED          = 500
	JOB_EXIT_CODE_SKIPPED         = 204
	JOB_EXIT_CODE_PARTIAL_SUCCESS = 206
)

type JobType string

const (
	JobTypeDomainAnalysisBatch JobType = "domain_analysis_batch"
	JobTypeDataCleanUp         JobType = "data_clean_up"
)

type JobResult struct {
	ExitCode int32  `json:"exit_code"`
	Output   string `json:"output"`
}

// JobExecutionStrategy defines the interface for different job execution strategies.
type JobExecutionStrategy interface {
	Execute(ctx context.Context) (JobResult, error)
	GetType() JobType
}
