package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/helper"
	"github.com/schiang418/cyclescope-domain-api/internal/model"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestTx opens TEST_DATABASE_URL and returns a transaction that is rolled back after the test.
func openTestTx(t *testing.T) *gorm.DB {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		tx.Rollback()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, tx.AutoMigrate(&model.DomainAnalysis{}))
	require.NoError(t, tx.Exec("DELETE FROM domain_analyses").Error)
	return tx
}

func sampleRow(code string, date time.Time, summary string) *model.DomainAnalysis {
	return helper.NormalizeDomainAnalysis(&dto.DomainAnalysisResult{
		AsOfDate:          utils.FormatDate(date),
		DimensionCode:     code,
		DimensionName:     code,
		Indicators:        []dto.IndicatorAnalysis{{IndicatorID: "a"}, {IndicatorID: "b"}},
		OverallConclusion: &dto.OverallConclusion{Summary: summary},
	}, date)
}

func TestDomainAnalysisRepository_UpsertIsIdempotent(t *testing.T) {
	tx := openTestTx(t)
	repo := NewDomainAnalysisRepository(tx, logger.NewNop())
	ctx := context.Background()
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	first, err := repo.Upsert(ctx, sampleRow("macro", day, "first"), utils.WithTx(tx))
	require.NoError(t, err)
	require.NotNil(t, first)
	createdAt := first.CreatedAt
	updatedAt := first.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	second, err := repo.Upsert(ctx, sampleRow("macro", day, "second"), utils.WithTx(tx))
	require.NoError(t, err)

	var count int64
	require.NoError(t, tx.Model(&model.DomainAnalysis{}).Where("dimension_code = ?", "macro").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.WithinDuration(t, createdAt, second.CreatedAt, time.Millisecond)
	assert.False(t, second.UpdatedAt.Before(updatedAt))

	latest, err := repo.GetLatest(ctx, "macro", utils.WithTx(tx))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "second", latest.OverallConclusionSummary)
	assert.Equal(t, 2, latest.IndicatorCount)
}

func TestDomainAnalysisRepository_Reads(t *testing.T) {
	tx := openTestTx(t)
	repo := NewDomainAnalysisRepository(tx, logger.NewNop())
	ctx := context.Background()
	base := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := repo.Upsert(ctx, sampleRow("breadth", base.AddDate(0, 0, -i), "b"), utils.WithTx(tx))
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, sampleRow("macro", base.AddDate(0, 0, -2), "m"), utils.WithTx(tx))
	require.NoError(t, err)

	t.Run("latest picks max date", func(t *testing.T) {
		latest, err := repo.GetLatest(ctx, "breadth", utils.WithTx(tx))
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "2025-11-10", utils.FormatDate(latest.DateValue()))
	})

	t.Run("latest absent", func(t *testing.T) {
		latest, err := repo.GetLatest(ctx, "sentiment", utils.WithTx(tx))
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("history is newest first and limited", func(t *testing.T) {
		rows, err := repo.GetHistory(ctx, "breadth", 3, utils.WithTx(tx))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "2025-11-10", utils.FormatDate(rows[0].DateValue()))
		assert.Equal(t, "2025-11-09", utils.FormatDate(rows[1].DateValue()))
		assert.Equal(t, "2025-11-08", utils.FormatDate(rows[2].DateValue()))
	})

	t.Run("all latest returns one row per domain", func(t *testing.T) {
		rows, err := repo.GetAllLatest(ctx, utils.WithTx(tx))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		got := map[string]string{}
		for _, r := range rows {
			got[r.DimensionCode] = utils.FormatDate(r.DateValue())
		}
		assert.Equal(t, map[string]string{"breadth": "2025-11-10", "macro": "2025-11-08"}, got)
	})
}

func TestDomainAnalysisRepository_DeleteOlderThan(t *testing.T) {
	tx := openTestTx(t)
	repo := NewDomainAnalysisRepository(tx, logger.NewNop())
	ctx := context.Background()
	clock := utils.FixedClock{T: time.Date(2025, 11, 10, 15, 30, 0, 0, time.UTC)}
	today := utils.Today(clock)

	for _, offset := range []int{0, 4, 5, 6} {
		_, err := repo.Upsert(ctx, sampleRow("liquidity", today.AddDate(0, 0, -offset), "l"), utils.WithTx(tx))
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, utils.DaysAgo(clock, 5), utils.WithTx(tx))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	rows, err := repo.GetHistory(ctx, "liquidity", 30, utils.WithTx(tx))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-11-05", utils.FormatDate(rows[2].DateValue()))
}

func TestDomainAnalysisRepository_Unavailable(t *testing.T) {
	repo := NewDomainAnalysisRepository(nil, logger.NewNop())
	ctx := context.Background()

	assert.False(t, repo.Available())

	saved, err := repo.Upsert(ctx, sampleRow("macro", time.Now(), "x"))
	assert.NoError(t, err)
	assert.Nil(t, saved)

	latest, err := repo.GetLatest(ctx, "macro")
	assert.NoError(t, err)
	assert.Nil(t, latest)

	all, err := repo.GetAllLatest(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)

	history, err := repo.GetHistory(ctx, "macro", 5)
	assert.NoError(t, err)
	assert.Empty(t, history)

	deleted, err := repo.DeleteOlderThan(ctx, time.Now())
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}
