package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/delivery/http"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the CycleScope Domain API server",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {

	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	services := appDep.NewServices()
	httpHandler := http.NewHttpAPIHandler(
		appDep.cfg,
		appDep.log,
		appDep.echo,
		appDep.validator,
		services,
		appDep.catalog,
		appDep.dbPinger(),
	)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	if appDep.cfg.Scheduler.Enabled {
		if err := services.SchedulerService.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	if appDep.cfg.Scheduler.Enabled {
		select {
		case <-services.SchedulerService.Stop().Done():
			appDep.log.Info("Scheduler stopped")
		case <-time.After(30 * time.Second):
			appDep.log.Warn("Timeout while waiting for running jobs, forcing shutdown", logger.StringField("wait", "30s"))
		}
	}

	if err := apiServer.Stop(); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
