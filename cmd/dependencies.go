package cmd

import (
	"context"
	"errors"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	deliveryHttp "github.com/schiang418/cyclescope-domain-api/internal/delivery/http"
	"github.com/schiang418/cyclescope-domain-api/internal/repository"
	"github.com/schiang418/cyclescope-domain-api/internal/service"
	"github.com/schiang418/cyclescope-domain-api/pkg/assistant"
	"github.com/schiang418/cyclescope-domain-api/pkg/cache"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/metrics"
	"github.com/schiang418/cyclescope-domain-api/pkg/postgres"
	"github.com/schiang418/cyclescope-domain-api/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	catalog   *catalog.Catalog
	openai    *assistant.OpenAIClient
	notifier  *telegram.Notifier
}

// NewAppDependency loads configuration and builds every shared client.
// Missing database, OpenAI or Telegram settings leave the matching field nil.
func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	baseLog, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	log := baseLog
	var notifier *telegram.Notifier
	if cfg.Telegram.Enabled() {
		bot, err := telegram.NewBot(&cfg.Telegram)
		if err != nil {
			baseLog.Warn("Failed to create telegram bot, alerts disabled", logger.ErrorField(err))
		} else {
			notifier = telegram.NewNotifier(&cfg.Telegram, baseLog, bot)
			log, err = logger.New(cfg.Log.Level, cfg.Log.Encoding, logger.WithAlertSender(notifier, zapcore.ErrorLevel))
			if err != nil {
				return nil, err
			}
		}
	}

	db, err := postgres.NewDB(cfg.DB, log)
	switch {
	case errors.Is(err, postgres.ErrNotConfigured):
		log.Warn("Database not configured, analyses will not be persisted")
	case err != nil:
		log.Error("Failed to connect to database", logger.ErrorField(err))
		return nil, err
	}

	var openaiClient *assistant.OpenAIClient
	if cfg.OpenAI.APIKey != "" {
		openaiClient = assistant.NewOpenAIClient(cfg.OpenAI)
	} else {
		log.Warn("OpenAI API key not configured, analyze requests will fail")
	}

	metrics.Init()

	e := echo.New()
	e.HideBanner = true

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		catalog:   catalog.New(cfg.Catalog.LongTermBaseURL, cfg.Catalog.ShortTermBaseURL),
		openai:    openaiClient,
		notifier:  notifier,
	}, nil
}

func (d *AppDependency) gormDB() *gorm.DB {
	if d.db == nil {
		return nil
	}
	return d.db.DB
}

func (d *AppDependency) assistantClient() assistant.Client {
	if d.openai == nil {
		return nil
	}
	return d.openai
}

func (d *AppDependency) batchNotifier() service.BatchNotifier {
	if d.notifier == nil {
		return nil
	}
	return d.notifier
}

func (d *AppDependency) dbPinger() deliveryHttp.Pinger {
	if d.db == nil {
		return nil
	}
	return d.db
}

// NewServices builds the repository and service layers on top of the dependencies.
func (d *AppDependency) NewServices() *service.Service {
	repo := repository.NewRepository(d.cfg, d.gormDB(), d.log, d.catalog, d.assistantClient(), nil)
	return service.NewService(d.cfg, d.log, d.catalog, repo, d.cache, d.batchNotifier())
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() { _ = d.log.Sync() }()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
