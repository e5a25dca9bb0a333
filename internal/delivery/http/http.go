package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/service"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/metrics"
	"github.com/schiang418/cyclescope-domain-api/pkg/middleware"
	"github.com/schiang418/cyclescope-domain-api/pkg/ratelimit"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const ServiceName = "CycleScope Domain API"

// Version is overridden at build time with -ldflags.
var Version = "1.0.0"

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HttpAPIHandler struct {
	cfg            *config.Config
	log            *logger.Logger
	echo           *echo.Echo
	validator      *goValidator.Validate
	service        *service.Service
	catalog        *catalog.Catalog
	db             Pinger
	analyzeLimiter *ratelimit.LimiterStore
}

// NewHttpAPIHandler builds the handler. db may be nil when no database is configured.
func NewHttpAPIHandler(
	cfg *config.Config,
	log *logger.Logger,
	echo *echo.Echo,
	validator *goValidator.Validate,
	service *service.Service,
	cat *catalog.Catalog,
	db Pinger,
) *HttpAPIHandler {
	limit := rate.Inf
	if cfg.API.AnalyzePerDomainEvery > 0 {
		limit = rate.Every(cfg.API.AnalyzePerDomainEvery)
	}
	return &HttpAPIHandler{
		cfg:            cfg,
		log:            log,
		echo:           echo,
		validator:      validator,
		service:        service,
		catalog:        cat,
		db:             db,
		analyzeLimiter: ratelimit.NewLimiterStore(limit, 1),
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/health", h.health)
	h.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	if h.cfg.API.StaticDir != "" {
		h.echo.Static("/domains", h.cfg.API.StaticDir)
	}

	base := h.echo.Group("/api")
	h.SetupDomains(base)
	h.SetupJobs(base)
}

// analyzeTimeout bounds the analyze routes, which block on the assistant.
func (h *HttpAPIHandler) analyzeTimeout() echo.MiddlewareFunc {
	return middleware.WithContextTimeout(h.cfg.API.AnalyzeTimeout)
}

func (h *HttpAPIHandler) bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.New("invalid request")
	}
	if r, ok := req.(interface{ Normalize() }); ok {
		r.Normalize()
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}
	return nil
}

// statusFromError maps service errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, dto.ErrInvalidDomain):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dto.ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, dto.ErrUpstreamFailure), errors.Is(err, dto.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, dto.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(c.Request().Context(), "Request failed",
			logger.ErrorField(err),
			logger.StringField("path", c.Path()),
			logger.IntField("status", status),
		)
	}
	return c.JSON(status, dto.NewBaseResponse(status, err.Error(), nil))
}
