package service

import (
	"context"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/metrics"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/google/uuid"
)

// BatchNotifier receives the summary of every finished batch.
type BatchNotifier interface {
	NotifyBatch(ctx context.Context, result *dto.BatchResult) error
}

type DomainAnalysisBatchService interface {
	// RunAll analyzes every domain in catalog order. One domain failing never stops the others.
	RunAll(ctx context.Context, asOfDate time.Time) (*dto.BatchResult, error)
}

type domainAnalysisBatchService struct {
	cfg      *config.Config
	log      *logger.Logger
	clock    utils.Clock
	analyzer DomainAnalyzer
	notifier BatchNotifier
}

func NewDomainAnalysisBatchService(
	cfg *config.Config,
	log *logger.Logger,
	clock utils.Clock,
	analyzer DomainAnalyzer,
	notifier BatchNotifier,
) DomainAnalysisBatchService {
	return &domainAnalysisBatchService{
		cfg:      cfg,
		log:      log,
		clock:    clock,
		analyzer: analyzer,
		notifier: notifier,
	}
}

func (s *domainAnalysisBatchService) RunAll(ctx context.Context, asOfDate time.Time) (*dto.BatchResult, error) {
	if asOfDate.IsZero() {
		asOfDate = utils.Today(s.clock)
	}
	asOfDate = utils.TruncateToDate(asOfDate)

	result := &dto.BatchResult{
		BatchID:   uuid.NewString(),
		Date:      utils.FormatDate(asOfDate),
		Total:     len(catalog.Codes),
		Results:   make([]dto.DomainBatchOutcome, 0, len(catalog.Codes)),
		StartedAt: s.clock.Now(),
	}

	log := s.log.With(logger.StringField("batch_id", result.BatchID), logger.StringField("date", result.Date))
	ctx = logger.NewContext(ctx, log)
	log.InfoContext(ctx, "Starting domain analysis batch", logger.IntField("domains", result.Total))

	for _, code := range catalog.Codes {
		outcome := dto.DomainBatchOutcome{DomainCode: code}

		if !utils.ShouldContinue(ctx, log) {
			outcome.Error = ctx.Err().Error()
			result.Results = append(result.Results, outcome)
			metrics.BatchDomains.WithLabelValues(code, "error").Inc()
			continue
		}

		start := time.Now()
		_, err := s.analyzer.Analyze(ctx, code, asOfDate)
		outcome.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			outcome.Error = err.Error()
			log.ErrorContext(ctx, "Domain analysis failed",
				logger.StringField("domain", code),
				logger.ErrorField(err),
			)
		} else {
			outcome.Success = true
			log.InfoContext(ctx, "Domain analysis succeeded",
				logger.StringField("domain", code),
				logger.Field("duration_ms", outcome.DurationMs),
			)
		}
		metrics.BatchDomains.WithLabelValues(code, metrics.StatusLabel(err)).Inc()
		result.Results = append(result.Results, outcome)
	}

	for _, r := range result.Results {
		if r.Success {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}
	result.Success = result.SuccessCount > 0
	result.FinishedAt = s.clock.Now()
	metrics.BatchLastRun.SetToCurrentTime()

	if result.FailureCount > 0 {
		log.ErrorContextWithAlert(ctx, "Domain analysis batch finished with failures",
			logger.IntField("success_count", result.SuccessCount),
			logger.IntField("failure_count", result.FailureCount),
		)
	} else {
		log.InfoContext(ctx, "Domain analysis batch finished", logger.IntField("success_count", result.SuccessCount))
	}

	s.notify(ctx, result)
	return result, nil
}

func (s *domainAnalysisBatchService) notify(ctx context.Context, result *dto.BatchResult) {
	if s.notifier == nil || !s.cfg.Telegram.NotifyBatch {
		return
	}
	if err := s.notifier.NotifyBatch(ctx, result); err != nil {
		s.log.WarnContext(ctx, "Failed to send batch summary", logger.ErrorField(err))
	}
}
