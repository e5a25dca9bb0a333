package service

import (
	"context"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/helper"
	"github.com/schiang418/cyclescope-domain-api/internal/repository"
	"github.com/schiang418/cyclescope-domain-api/pkg/cache"
	"github.com/schiang418/cyclescope-domain-api/pkg/common"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"
)

// DomainAnalyzer runs one analyze-and-store cycle for a domain.
type DomainAnalyzer interface {
	Analyze(ctx context.Context, domainCode string, asOfDate time.Time) (*dto.AnalyzeDomainResult, error)
}

type DomainAnalysisService interface {
	DomainAnalyzer
	Latest(ctx context.Context, domainCode string) (*dto.DomainAnalysisRecord, error)
	AllLatest(ctx context.Context) ([]dto.DomainAnalysisSummary, error)
	History(ctx context.Context, domainCode string, limit int) ([]dto.DomainAnalysisSummary, error)
	Cleanup(ctx context.Context) (*dto.CleanupResult, error)
	StorageAvailable() bool
	// Today returns the current calendar date in the service time zone.
	Today() time.Time
}

type domainAnalysisService struct {
	cfg           *config.Config
	log           *logger.Logger
	catalog       *catalog.Catalog
	clock         utils.Clock
	assistantRepo repository.AssistantRepository
	analysisRepo  repository.DomainAnalysisRepository
	chartRepo     repository.ChartRepository
	cache         cache.Cache
}

func NewDomainAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	cat *catalog.Catalog,
	clock utils.Clock,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) DomainAnalysisService {
	if inmemoryCache == nil {
		inmemoryCache = cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)
	}
	return &domainAnalysisService{
		cfg:           cfg,
		log:           log,
		catalog:       cat,
		clock:         clock,
		assistantRepo: repo.AssistantRepo,
		analysisRepo:  repo.DomainAnalysisRepo,
		chartRepo:     repo.ChartRepo,
		cache:         inmemoryCache,
	}
}

func (s *domainAnalysisService) Today() time.Time {
	return utils.Today(s.clock)
}

func (s *domainAnalysisService) StorageAvailable() bool {
	return s.analysisRepo.Available()
}

// Analyze requests a fresh analysis and stores it under (asOfDate, domain). A zero asOfDate means today.
func (s *domainAnalysisService) Analyze(ctx context.Context, domainCode string, asOfDate time.Time) (*dto.AnalyzeDomainResult, error) {
	domain, ok := s.catalog.Get(domainCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", dto.ErrInvalidDomain, domainCode)
	}
	if asOfDate.IsZero() {
		asOfDate = s.Today()
	}
	asOfDate = utils.TruncateToDate(asOfDate)

	log := s.log.With(logger.StringField("domain", domain.Code), logger.StringField("date", utils.FormatDate(asOfDate)))
	ctx = logger.NewContext(ctx, log)
	log.InfoContext(ctx, "Analyzing domain", logger.IntField("indicators", len(domain.Indicators)))

	if s.chartRepo != nil {
		if issues := s.chartRepo.CheckDomainCharts(ctx, domain); len(issues) > 0 {
			log.WarnContext(ctx, "Some charts are unreachable, continuing", logger.IntField("unreachable", len(issues)))
		}
	}

	result, err := s.assistantRepo.RequestAnalysis(ctx, domain.Code, asOfDate)
	if err != nil {
		return nil, err
	}

	record := helper.NormalizeDomainAnalysis(result, asOfDate)
	record.DimensionCode = domain.Code
	if record.DimensionName == "" {
		record.DimensionName = domain.Name
	}

	stored, err := s.analysisRepo.Upsert(ctx, record)
	if err != nil {
		log.ErrorContext(ctx, "Failed to store domain analysis", logger.ErrorField(err))
		return nil, err
	}
	s.invalidate(domain.Code)

	if stored == nil {
		log.WarnContext(ctx, "Domain analysis not persisted, storage unavailable")
		return &dto.AnalyzeDomainResult{Stored: false, Analysis: helper.ToDomainAnalysisRecord(record)}, nil
	}

	log.InfoContext(ctx, "Domain analysis stored", logger.IntField("indicator_count", stored.IndicatorCount))
	return &dto.AnalyzeDomainResult{Stored: true, Analysis: helper.ToDomainAnalysisRecord(stored)}, nil
}

func (s *domainAnalysisService) Latest(ctx context.Context, domainCode string) (*dto.DomainAnalysisRecord, error) {
	domain, ok := s.catalog.Get(domainCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", dto.ErrInvalidDomain, domainCode)
	}

	key := fmt.Sprintf(common.KEY_DOMAIN_ANALYSIS_LATEST, domain.Code)
	if cached, found := cache.GetFromCache[*dto.DomainAnalysisRecord](s.cache, key); found {
		return cached, nil
	}

	row, err := s.analysisRepo.GetLatest(ctx, domain.Code)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get latest analysis", logger.ErrorField(err), logger.StringField("domain", domain.Code))
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: no analysis for %s", dto.ErrNotFound, domain.Code)
	}

	record := helper.ToDomainAnalysisRecord(row)
	s.remember(key, record)
	return record, nil
}

// AllLatest returns the newest summary of each domain that has one, in catalog order.
func (s *domainAnalysisService) AllLatest(ctx context.Context) ([]dto.DomainAnalysisSummary, error) {
	if cached, found := cache.GetFromCache[[]dto.DomainAnalysisSummary](s.cache, common.KEY_DOMAIN_ANALYSIS_ALL_LATEST); found {
		return cached, nil
	}

	rows, err := s.analysisRepo.GetAllLatest(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get all latest analyses", logger.ErrorField(err))
		return nil, err
	}

	byCode := make(map[string]dto.DomainAnalysisSummary, len(rows))
	for i := range rows {
		byCode[rows[i].DimensionCode] = helper.ToDomainAnalysisSummary(&rows[i])
	}
	summaries := make([]dto.DomainAnalysisSummary, 0, len(byCode))
	for _, code := range catalog.Codes {
		if summary, ok := byCode[code]; ok {
			summaries = append(summaries, summary)
		}
	}

	s.remember(common.KEY_DOMAIN_ANALYSIS_ALL_LATEST, summaries)
	return summaries, nil
}

func (s *domainAnalysisService) History(ctx context.Context, domainCode string, limit int) ([]dto.DomainAnalysisSummary, error) {
	domain, ok := s.catalog.Get(domainCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", dto.ErrInvalidDomain, domainCode)
	}

	switch {
	case limit <= 0:
		limit = dto.DefaultHistoryLimit
	case limit > dto.MaxHistoryLimit:
		limit = dto.MaxHistoryLimit
	}

	rows, err := s.analysisRepo.GetHistory(ctx, domain.Code, limit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get analysis history", logger.ErrorField(err), logger.StringField("domain", domain.Code))
		return nil, err
	}
	return helper.ToDomainAnalysisSummaries(rows), nil
}

// Cleanup deletes every analysis dated before today minus the retention window.
func (s *domainAnalysisService) Cleanup(ctx context.Context) (*dto.CleanupResult, error) {
	cutoff := utils.DaysAgo(s.clock, s.cfg.Retention.Days)

	deleted, err := s.analysisRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to clean up old analyses", logger.ErrorField(err), logger.StringField("cutoff", utils.FormatDate(cutoff)))
		return nil, err
	}
	if deleted > 0 {
		s.cache.DeletePrefix(common.KEY_DOMAIN_ANALYSIS_PREFIX)
	}

	s.log.InfoContext(ctx, "Old analyses cleaned up",
		logger.StringField("cutoff", utils.FormatDate(cutoff)),
		logger.IntField("deleted", int(deleted)),
	)
	return &dto.CleanupResult{Cutoff: utils.FormatDate(cutoff), Deleted: deleted}, nil
}

func (s *domainAnalysisService) invalidate(domainCode string) {
	s.cache.Delete(fmt.Sprintf(common.KEY_DOMAIN_ANALYSIS_LATEST, domainCode))
	s.cache.Delete(common.KEY_DOMAIN_ANALYSIS_ALL_LATEST)
}

// remember caches reads only when they came from a real store.
func (s *domainAnalysisService) remember(key string, value interface{}) {
	if !s.analysisRepo.Available() {
		return
	}
	s.cache.Set(key, value, s.cfg.Cache.DefaultExpiration)
}
