package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete analyses older than the retention window",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		appDep, err := NewAppDependency(ctx)
		if err != nil {
			log.Fatalf("Failed to create app dependency: %v", err)
		}
		defer appDep.Close()

		if appDep.db == nil {
			log.Println("Database not configured, nothing to clean up.")
			return
		}

		result, err := appDep.NewServices().DomainAnalysisService.Cleanup(ctx)
		if err != nil {
			appDep.Close()
			log.Fatalf("Cleanup failed: %v", err)
		}
		printJSON(result)
	},
}
