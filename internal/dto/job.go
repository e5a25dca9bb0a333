package dto

import "time"

// JobExecution is one entry of the background job log.
type JobExecution struct {
	ID           uint       `json:"id"`
	JobType      string     `json:"job_type"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ExitCode     *int32     `json:"exit_code,omitempty"`
	Output       string     `json:"output,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

type JobHistoryRequest struct {
	JobType string `query:"job_type" validate:"omitempty,oneof=domain_analysis_batch data_clean_up"`
	Limit   int    `query:"limit" validate:"min=1,max=100"`
}

const DefaultJobHistoryLimit = 20
