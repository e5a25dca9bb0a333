package service

import (
	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/internal/repository"
	"github.com/schiang418/cyclescope-domain-api/internal/strategy"
	"github.com/schiang418/cyclescope-domain-api/pkg/cache"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"
)

type Service struct {
	DomainAnalysisService      DomainAnalysisService
	DomainAnalysisBatchService DomainAnalysisBatchService
	SchedulerService           SchedulerService
	TaskExecutor               TaskExecutor
}

// NewService wires the services. notifier may be nil.
func NewService(
	cfg *config.Config,
	log *logger.Logger,
	cat *catalog.Catalog,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	notifier BatchNotifier,
) *Service {
	clock := utils.SystemClock{Location: cfg.Scheduler.Location()}

	domainAnalysisService := NewDomainAnalysisService(cfg, log, cat, clock, repo, inmemoryCache)
	batchService := NewDomainAnalysisBatchService(cfg, log, clock, domainAnalysisService, notifier)

	executorStrategies := make(map[strategy.JobType]strategy.JobExecutionStrategy)
	executorStrategies[strategy.JobTypeDomainAnalysisBatch] = strategy.NewDomainAnalysisBatchStrategy(cfg, log, batchService)
	executorStrategies[strategy.JobTypeDataCleanUp] = strategy.NewDataCleanUpStrategy(cfg, log, clock, domainAnalysisService, repo.JobRepo)

	taskExecutor := NewTaskExecutor(cfg, log, repo.JobRepo, executorStrategies)
	schedulerService := NewSchedulerService(cfg, log, taskExecutor)

	return &Service{
		DomainAnalysisService:      domainAnalysisService,
		DomainAnalysisBatchService: batchService,
		SchedulerService:           schedulerService,
		TaskExecutor:               taskExecutor,
	}
}
