package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/stretchr/testify/assert"
)

type stubRunner struct {
	result *dto.BatchResult
	err    error
}

func (s stubRunner) RunAll(context.Context, time.Time) (*dto.BatchResult, error) {
	return s.result, s.err
}

type stubCleaner struct {
	result *dto.CleanupResult
	err    error
}

func (s stubCleaner) Cleanup(context.Context) (*dto.CleanupResult, error) {
	return s.result, s.err
}

type stubHistory struct {
	deleted int64
	err     error
	cutoff  time.Time
}

func (s *stubHistory) DeleteTaskHistoryOlderThan(_ context.Context, date time.Time, _ ...utils.DBOption) (int64, error) {
	s.cutoff = date
	return s.deleted, s.err
}

func TestDomainAnalysisBatchStrategy_Execute(t *testing.T) {
	tests := []struct {
		name         string
		runner       stubRunner
		wantExitCode int32
		wantErr      bool
	}{
		{
			name:         "all succeeded",
			runner:       stubRunner{result: &dto.BatchResult{Success: true, Total: 6, SuccessCount: 6}},
			wantExitCode: JOB_EXIT_CODE_SUCCESS,
		},
		{
			name:         "partial",
			runner:       stubRunner{result: &dto.BatchResult{Success: true, Total: 6, SuccessCount: 5, FailureCount: 1}},
			wantExitCode: JOB_EXIT_CODE_PARTIAL_SUCCESS,
		},
		{
			name:         "all failed",
			runner:       stubRunner{result: &dto.BatchResult{Success: false, Total: 6, FailureCount: 6}},
			wantExitCode: JOB_EXIT_CODE_FAILED,
			wantErr:      true,
		},
		{
			name:         "runner error",
			runner:       stubRunner{err: errors.New("boom")},
			wantExitCode: JOB_EXIT_CODE_FAILED,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDomainAnalysisBatchStrategy(&config.Config{}, logger.NewNop(), tt.runner)
			res, err := s.Execute(context.Background())
			assert.Equal(t, tt.wantExitCode, res.ExitCode)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, JobTypeDomainAnalysisBatch, s.GetType())
		})
	}
}

func TestDataCleanUpStrategy_Execute(t *testing.T) {
	tests := []struct {
		name         string
		cleaner      stubCleaner
		history      *stubHistory
		wantExitCode int32
		wantErr      bool
		wantOutput   string
	}{
		{
			name:         "deleted rows",
			cleaner:      stubCleaner{result: &dto.CleanupResult{Cutoff: "2025-11-05", Deleted: 3}},
			history:      &stubHistory{},
			wantExitCode: JOB_EXIT_CODE_SUCCESS,
			wantOutput:   `"total":3`,
		},
		{
			name:         "nothing to delete",
			cleaner:      stubCleaner{result: &dto.CleanupResult{Cutoff: "2025-11-05"}},
			history:      &stubHistory{},
			wantExitCode: JOB_EXIT_CODE_SKIPPED,
			wantOutput:   `"cutoff":"2025-11-05"`,
		},
		{
			name:         "store error",
			cleaner:      stubCleaner{err: errors.New("connection reset")},
			history:      &stubHistory{},
			wantExitCode: JOB_EXIT_CODE_FAILED,
			wantErr:      true,
			wantOutput:   "connection reset",
		},
		{
			name:         "only job history pruned",
			cleaner:      stubCleaner{result: &dto.CleanupResult{Cutoff: "2025-11-05"}},
			history:      &stubHistory{deleted: 4},
			wantExitCode: JOB_EXIT_CODE_SUCCESS,
			wantOutput:   `{"table":"task_execution_history","cutoff":"2025-11-05","total":4}`,
		},
		{
			name:         "job history error",
			cleaner:      stubCleaner{result: &dto.CleanupResult{Cutoff: "2025-11-05", Deleted: 1}},
			history:      &stubHistory{err: errors.New("lock timeout")},
			wantExitCode: JOB_EXIT_CODE_FAILED,
			wantErr:      true,
			wantOutput:   "lock timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := utils.FixedClock{T: time.Date(2025, 11, 10, 21, 45, 0, 0, time.UTC)}
			s := NewDataCleanUpStrategy(&config.Config{Retention: config.Retention{Days: 5}}, logger.NewNop(), clock, tt.cleaner, tt.history)
			res, err := s.Execute(context.Background())
			assert.Equal(t, tt.wantExitCode, res.ExitCode)
			assert.Contains(t, res.Output, tt.wantOutput)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "2025-11-05", utils.FormatDate(tt.history.cutoff))
		})
	}
}

func TestDataCleanUpStrategy_WithoutHistory(t *testing.T) {
	s := NewDataCleanUpStrategy(&config.Config{Retention: config.Retention{Days: 5}}, logger.NewNop(), utils.SystemClock{},
		stubCleaner{result: &dto.CleanupResult{Cutoff: "2025-11-05", Deleted: 2}}, nil)

	res, err := s.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), res.ExitCode)
	assert.NotContains(t, res.Output, "task_execution_history")
}
