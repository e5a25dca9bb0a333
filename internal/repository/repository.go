package repository

import (
	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/pkg/assistant"
	"github.com/schiang418/cyclescope-domain-api/pkg/httpclient"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	DomainAnalysisRepo DomainAnalysisRepository
	AssistantRepo      AssistantRepository
	ChartRepo          ChartRepository
	JobRepo            JobRepository
}

// NewRepository wires every repository. db and client may be nil when the
// database or the assistant is not configured.
func NewRepository(
	cfg *config.Config,
	db *gorm.DB,
	log *logger.Logger,
	cat *catalog.Catalog,
	client assistant.Client,
	chartClient httpclient.HTTPClient,
) *Repository {
	return &Repository{
		DomainAnalysisRepo: NewDomainAnalysisRepository(db, log),
		AssistantRepo:      NewAssistantRepository(cfg, log, cat, client),
		ChartRepo:          NewChartRepository(cfg, log, chartClient),
		JobRepo:            NewJobRepository(db, log),
	}
}
