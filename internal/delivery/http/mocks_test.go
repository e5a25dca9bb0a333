package http

import (
	"context"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/service"
	"github.com/schiang418/cyclescope-domain-api/internal/strategy"

	"github.com/stretchr/testify/mock"
)

type MockDomainAnalysisService struct {
	mock.Mock
}

func (m *MockDomainAnalysisService) Analyze(ctx context.Context, domainCode string, asOfDate time.Time) (*dto.AnalyzeDomainResult, error) {
	args := m.Called(ctx, domainCode, asOfDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalyzeDomainResult), args.Error(1)
}

func (m *MockDomainAnalysisService) Latest(ctx context.Context, domainCode string) (*dto.DomainAnalysisRecord, error) {
	args := m.Called(ctx, domainCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DomainAnalysisRecord), args.Error(1)
}

func (m *MockDomainAnalysisService) AllLatest(ctx context.Context) ([]dto.DomainAnalysisSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.DomainAnalysisSummary), args.Error(1)
}

func (m *MockDomainAnalysisService) History(ctx context.Context, domainCode string, limit int) ([]dto.DomainAnalysisSummary, error) {
	args := m.Called(ctx, domainCode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.DomainAnalysisSummary), args.Error(1)
}

func (m *MockDomainAnalysisService) Cleanup(ctx context.Context) (*dto.CleanupResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CleanupResult), args.Error(1)
}

func (m *MockDomainAnalysisService) StorageAvailable() bool {
	return m.Called().Bool(0)
}

func (m *MockDomainAnalysisService) Today() time.Time {
	return m.Called().Get(0).(time.Time)
}

type MockDomainAnalysisBatchService struct {
	mock.Mock
}

func (m *MockDomainAnalysisBatchService) RunAll(ctx context.Context, asOfDate time.Time) (*dto.BatchResult, error) {
	args := m.Called(ctx, asOfDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchResult), args.Error(1)
}

type MockSchedulerService struct {
	mock.Mock
}

func (m *MockSchedulerService) Start() error {
	return m.Called().Error(0)
}

func (m *MockSchedulerService) Stop() context.Context {
	return m.Called().Get(0).(context.Context)
}

func (m *MockSchedulerService) Jobs() []service.ScheduledJob {
	return m.Called().Get(0).([]service.ScheduledJob)
}

func (m *MockSchedulerService) RunJobTask(ctx context.Context, jobType strategy.JobType) (strategy.JobResult, error) {
	args := m.Called(ctx, jobType)
	return args.Get(0).(strategy.JobResult), args.Error(1)
}

type MockTaskExecutor struct {
	mock.Mock
}

func (m *MockTaskExecutor) Execute(ctx context.Context, jobType strategy.JobType) (strategy.JobResult, error) {
	args := m.Called(ctx, jobType)
	return args.Get(0).(strategy.JobResult), args.Error(1)
}

func (m *MockTaskExecutor) ExecutionHistory(ctx context.Context, jobType string, limit int) ([]dto.JobExecution, error) {
	args := m.Called(ctx, jobType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.JobExecution), args.Error(1)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}
