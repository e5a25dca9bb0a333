package service

import (
	"context"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/model"
	"github.com/schiang418/cyclescope-domain-api/internal/repository"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/stretchr/testify/mock"
)

type MockAssistantRepository struct {
	mock.Mock
}

func (m *MockAssistantRepository) RequestAnalysis(ctx context.Context, domainCode string, asOfDate time.Time) (*dto.DomainAnalysisResult, error) {
	args := m.Called(ctx, domainCode, asOfDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DomainAnalysisResult), args.Error(1)
}

type MockDomainAnalysisRepository struct {
	mock.Mock
}

func (m *MockDomainAnalysisRepository) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockDomainAnalysisRepository) Upsert(ctx context.Context, analysis *model.DomainAnalysis, _ ...utils.DBOption) (*model.DomainAnalysis, error) {
	args := m.Called(ctx, analysis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DomainAnalysis), args.Error(1)
}

func (m *MockDomainAnalysisRepository) GetLatest(ctx context.Context, dimensionCode string, _ ...utils.DBOption) (*model.DomainAnalysis, error) {
	args := m.Called(ctx, dimensionCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DomainAnalysis), args.Error(1)
}

func (m *MockDomainAnalysisRepository) GetAllLatest(ctx context.Context, _ ...utils.DBOption) ([]model.DomainAnalysis, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DomainAnalysis), args.Error(1)
}

func (m *MockDomainAnalysisRepository) GetHistory(ctx context.Context, dimensionCode string, limit int, _ ...utils.DBOption) ([]model.DomainAnalysis, error) {
	args := m.Called(ctx, dimensionCode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DomainAnalysis), args.Error(1)
}

func (m *MockDomainAnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time, _ ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockDomainAnalyzer struct {
	mock.Mock
}

func (m *MockDomainAnalyzer) Analyze(ctx context.Context, domainCode string, asOfDate time.Time) (*dto.AnalyzeDomainResult, error) {
	args := m.Called(ctx, domainCode, asOfDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalyzeDomainResult), args.Error(1)
}

type MockBatchNotifier struct {
	mock.Mock
}

func (m *MockBatchNotifier) NotifyBatch(ctx context.Context, result *dto.BatchResult) error {
	return m.Called(ctx, result).Error(0)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockJobRepository) CreateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, _ ...utils.DBOption) error {
	return m.Called(ctx, history).Error(0)
}

func (m *MockJobRepository) UpdateTaskExecutionHistory(ctx context.Context, history *model.TaskExecutionHistory, _ ...utils.DBOption) error {
	return m.Called(ctx, history).Error(0)
}

func (m *MockJobRepository) GetRecentExecutions(ctx context.Context, jobType string, limit int, _ ...utils.DBOption) ([]model.TaskExecutionHistory, error) {
	args := m.Called(ctx, jobType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskExecutionHistory), args.Error(1)
}

func (m *MockJobRepository) DeleteTaskHistoryOlderThan(ctx context.Context, date time.Time, _ ...utils.DBOption) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

type nopChartRepository struct{}

func (nopChartRepository) CheckDomainCharts(context.Context, catalog.Domain) []repository.ChartIssue {
	return nil
}
