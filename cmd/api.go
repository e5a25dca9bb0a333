package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/delivery/http"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/middleware"

	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

type HTTPServer struct {
	ctx     context.Context
	appDep  *AppDependency
	handler *http.HttpAPIHandler
}

func NewHTTPServer(ctx context.Context, appDep *AppDependency, handler *http.HttpAPIHandler) *HTTPServer {
	return &HTTPServer{
		ctx:     ctx,
		appDep:  appDep,
		handler: handler,
	}
}

func (s *HTTPServer) Start() error {
	s.appDep.log.Info("Starting HTTP server", logger.IntField("port", s.appDep.cfg.API.Port))
	address := fmt.Sprintf(":%d", s.appDep.cfg.API.Port)

	s.SetupMiddleware()
	s.SetupRoutes()

	return s.appDep.echo.Start(address)
}

func (s *HTTPServer) Stop() error {
	s.appDep.log.Info("Shutting down HTTP server")

	// The parent context is already cancelled at this point.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 10*time.Second)
	defer cancel()

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- s.appDep.echo.Shutdown(ctx)
	}()

	select {
	case err := <-stopDone:
		if err != nil {
			s.appDep.log.Error("Error when stopping HTTP server", logger.ErrorField(err))
			return err
		}
		s.appDep.log.Info("HTTP server stopped successfully")
	case <-ctx.Done():
		s.appDep.log.Warn("Timeout while stopping HTTP server, forcing shutdown")
	}
	return nil
}

func (s *HTTPServer) SetupMiddleware() {
	cfg := s.appDep.cfg.API
	e := s.appDep.echo

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	if cfg.RateLimitPerSecond > 0 {
		e.Use(middleware.NewRateLimiterMiddleware(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}
}

func (s *HTTPServer) SetupRoutes() {
	s.handler.SetupRoutes()
}
