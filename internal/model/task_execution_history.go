package model

import (
	"database/sql"
	"time"
)

type TaskExecutionStatus string

const (
	StatusRunning   TaskExecutionStatus = "running"
	StatusCompleted TaskExecutionStatus = "completed"
	StatusFailed    TaskExecutionStatus = "failed"
	StatusTimeout   TaskExecutionStatus = "timeout"
)

// TaskExecutionHistory records one run of a scheduled or manually triggered job.
type TaskExecutionHistory struct {
	ID           uint                `gorm:"primaryKey"`
	JobType      string              `gorm:"type:varchar(50);not null;index:idx_task_execution_history_job_started,priority:1"`
	StartedAt    time.Time           `gorm:"not null;index:idx_task_execution_history_job_started,priority:2,sort:desc"`
	CompletedAt  sql.NullTime
	Status       TaskExecutionStatus `gorm:"type:varchar(50);not null"`
	ExitCode     sql.NullInt32
	Output       sql.NullString `gorm:"type:text"`
	ErrorMessage sql.NullString `gorm:"type:text"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (TaskExecutionHistory) TableName() string {
	return "task_execution_history"
}
