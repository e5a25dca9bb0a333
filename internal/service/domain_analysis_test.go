package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/model"
	"github.com/schiang418/cyclescope-domain-api/internal/repository"
	"github.com/schiang418/cyclescope-domain-api/pkg/cache"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var testNow = time.Date(2025, 11, 10, 21, 45, 0, 0, time.UTC)

type serviceFixture struct {
	svc       DomainAnalysisService
	assistant *MockAssistantRepository
	store     *MockDomainAnalysisRepository
	cache     cache.Cache
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	cfg := &config.Config{
		Retention: config.Retention{Days: 5},
		Cache:     config.Cache{DefaultExpiration: time.Minute, CleanupInterval: time.Minute},
	}
	f := &serviceFixture{
		assistant: &MockAssistantRepository{},
		store:     &MockDomainAnalysisRepository{},
		cache:     cache.NewCache(time.Minute, time.Minute),
	}
	repo := &repository.Repository{
		AssistantRepo:      f.assistant,
		DomainAnalysisRepo: f.store,
		ChartRepo:          nopChartRepository{},
	}
	f.svc = NewDomainAnalysisService(cfg, logger.NewNop(), catalog.Default(), utils.FixedClock{T: testNow}, repo, f.cache)
	return f
}

func sampleResult(code string) *dto.DomainAnalysisResult {
	return &dto.DomainAnalysisResult{
		AsOfDate:      "2025-11-10",
		DimensionCode: code,
		DimensionName: code,
		Indicators:    []dto.IndicatorAnalysis{{IndicatorID: "a"}},
		Raw:           []byte(`{"dimension_code":"` + code + `"}`),
	}
}

func storedRow(code string, date time.Time) *model.DomainAnalysis {
	return &model.DomainAnalysis{
		ID:             1,
		Date:           datatypes.Date(date),
		DimensionCode:  code,
		DimensionName:  code,
		FullAnalysis:   datatypes.JSON(`{"dimension_code":"` + code + `"}`),
		IndicatorCount: 1,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func TestDomainAnalysisService_Analyze(t *testing.T) {
	today := utils.TruncateToDate(testNow)

	t.Run("stores under requested domain and today's date", func(t *testing.T) {
		f := newServiceFixture(t)
		f.assistant.On("RequestAnalysis", mock.Anything, "macro", today).Return(sampleResult("MACRO"), nil)
		f.store.On("Upsert", mock.Anything, mock.MatchedBy(func(m *model.DomainAnalysis) bool {
			return m.DimensionCode == "macro" && utils.FormatDate(m.DateValue()) == "2025-11-10" && m.IndicatorCount == 1
		})).Return(storedRow("macro", today), nil)

		got, err := f.svc.Analyze(context.Background(), "Macro", time.Time{})
		require.NoError(t, err)
		assert.True(t, got.Stored)
		assert.Equal(t, "macro", got.Analysis.DimensionCode)
		assert.Equal(t, "2025-11-10", got.Analysis.Date)
		f.assistant.AssertExpectations(t)
		f.store.AssertExpectations(t)
	})

	t.Run("storage unavailable returns the unsaved record", func(t *testing.T) {
		f := newServiceFixture(t)
		date := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)
		f.assistant.On("RequestAnalysis", mock.Anything, "sentiment", date).Return(sampleResult("sentiment"), nil)
		f.store.On("Upsert", mock.Anything, mock.Anything).Return(nil, nil)

		got, err := f.svc.Analyze(context.Background(), "sentiment", date)
		require.NoError(t, err)
		assert.False(t, got.Stored)
		assert.Equal(t, "2025-11-07", got.Analysis.Date)
		assert.JSONEq(t, `{"dimension_code":"sentiment"}`, string(got.Analysis.FullAnalysis))
	})

	t.Run("unknown domain never reaches the assistant", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.Analyze(context.Background(), "crypto", time.Time{})
		assert.ErrorIs(t, err, dto.ErrInvalidDomain)
		f.assistant.AssertNotCalled(t, "RequestAnalysis", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upstream error propagates", func(t *testing.T) {
		f := newServiceFixture(t)
		f.assistant.On("RequestAnalysis", mock.Anything, "breadth", today).Return(nil, dto.ErrUpstreamTimeout)

		_, err := f.svc.Analyze(context.Background(), "breadth", time.Time{})
		assert.ErrorIs(t, err, dto.ErrUpstreamTimeout)
		f.store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		f := newServiceFixture(t)
		f.assistant.On("RequestAnalysis", mock.Anything, "breadth", today).Return(sampleResult("breadth"), nil)
		f.store.On("Upsert", mock.Anything, mock.Anything).Return(nil, dto.ErrStorageFailure)

		_, err := f.svc.Analyze(context.Background(), "breadth", time.Time{})
		assert.ErrorIs(t, err, dto.ErrStorageFailure)
	})
}

func TestDomainAnalysisService_LatestCachesAndInvalidates(t *testing.T) {
	f := newServiceFixture(t)
	today := utils.TruncateToDate(testNow)
	f.store.On("Available").Return(true)
	f.store.On("GetLatest", mock.Anything, "macro").Return(storedRow("macro", today), nil).Once()

	first, err := f.svc.Latest(context.Background(), "macro")
	require.NoError(t, err)
	second, err := f.svc.Latest(context.Background(), "macro")
	require.NoError(t, err)
	assert.Same(t, first, second)
	f.store.AssertNumberOfCalls(t, "GetLatest", 1)

	f.assistant.On("RequestAnalysis", mock.Anything, "macro", today).Return(sampleResult("macro"), nil)
	f.store.On("Upsert", mock.Anything, mock.Anything).Return(storedRow("macro", today), nil)
	_, err = f.svc.Analyze(context.Background(), "macro", time.Time{})
	require.NoError(t, err)

	f.store.On("GetLatest", mock.Anything, "macro").Return(storedRow("macro", today), nil).Once()
	_, err = f.svc.Latest(context.Background(), "macro")
	require.NoError(t, err)
	f.store.AssertNumberOfCalls(t, "GetLatest", 2)
}

func TestDomainAnalysisService_LatestNotFound(t *testing.T) {
	f := newServiceFixture(t)
	f.store.On("GetLatest", mock.Anything, "volatility").Return(nil, nil)

	_, err := f.svc.Latest(context.Background(), "volatility")
	assert.ErrorIs(t, err, dto.ErrNotFound)
}

func TestDomainAnalysisService_AllLatestInCatalogOrder(t *testing.T) {
	f := newServiceFixture(t)
	today := utils.TruncateToDate(testNow)
	f.store.On("Available").Return(false)
	f.store.On("GetAllLatest", mock.Anything).Return([]model.DomainAnalysis{
		*storedRow("sentiment", today),
		*storedRow("macro", today.AddDate(0, 0, -1)),
		*storedRow("breadth", today),
	}, nil)

	got, err := f.svc.AllLatest(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "macro", got[0].DimensionCode)
	assert.Equal(t, "breadth", got[1].DimensionCode)
	assert.Equal(t, "sentiment", got[2].DimensionCode)
	assert.Equal(t, "2025-11-09", got[0].Date)
}

func TestDomainAnalysisService_HistoryClampsLimit(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default when zero", limit: 0, wantLimit: dto.DefaultHistoryLimit},
		{name: "negative", limit: -3, wantLimit: dto.DefaultHistoryLimit},
		{name: "within range", limit: 12, wantLimit: 12},
		{name: "above max", limit: 99, wantLimit: dto.MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			f.store.On("GetHistory", mock.Anything, "liquidity", tt.wantLimit).Return([]model.DomainAnalysis{}, nil)

			got, err := f.svc.History(context.Background(), "liquidity", tt.limit)
			require.NoError(t, err)
			assert.Empty(t, got)
			f.store.AssertExpectations(t)
		})
	}
}

func TestDomainAnalysisService_Cleanup(t *testing.T) {
	f := newServiceFixture(t)
	f.cache.Set("domain_analysis:latest:macro", "stale", time.Minute)
	cutoff := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	f.store.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(1), nil)

	got, err := f.svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-11-05", got.Cutoff)
	assert.Equal(t, int64(1), got.Deleted)

	_, found := f.cache.Get("domain_analysis:latest:macro")
	assert.False(t, found)
}

func TestDomainAnalysisService_CleanupFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.store.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), errors.Join(dto.ErrStorageFailure, errors.New("conn reset")))

	_, err := f.svc.Cleanup(context.Background())
	assert.ErrorIs(t, err, dto.ErrStorageFailure)
}
