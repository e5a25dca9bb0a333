package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/pkg/assistant"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/postgres"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check connectivity to OpenAI and the database",
	Run:   Diagnose,
}

type diagnosticCheck struct {
	name string
	run  func(ctx context.Context) (string, error)
}

func Diagnose(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Println("Environment:")
	fmt.Printf("  API key length: %d\n", len(cfg.OpenAI.APIKey))
	fmt.Printf("  API key prefix: %s\n", utils.Truncate(cfg.OpenAI.APIKey, 7))
	fmt.Printf("  Assistant ID:   %s\n", cfg.OpenAI.AssistantID)
	fmt.Printf("  Database:       %t\n\n", cfg.DB.Configured())

	if cfg.OpenAI.APIKey == "" {
		log.Fatalf("OPENAI_API_KEY is not set")
	}

	client := assistant.NewOpenAIClient(cfg.OpenAI)
	failed := 0
	for _, check := range diagnosticChecks(cfg, client) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		detail, err := check.run(ctx)
		cancel()

		if err != nil {
			failed++
			fmt.Printf("❌ %s: %v\n", check.name, err)
			continue
		}
		fmt.Printf("✅ %s: %s\n", check.name, detail)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func diagnosticChecks(cfg *config.Config, client *assistant.OpenAIClient) []diagnosticCheck {
	checks := []diagnosticCheck{
		{
			name: "List models",
			run: func(ctx context.Context) (string, error) {
				models, err := client.ListModels(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d models visible", len(models)), nil
			},
		},
		{
			name: "Retrieve assistant",
			run: func(ctx context.Context) (string, error) {
				if cfg.OpenAI.AssistantID == "" {
					return "", fmt.Errorf("OPENAI_ASSISTANT_ID is not set")
				}
				info, err := client.GetAssistant(ctx, cfg.OpenAI.AssistantID)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s (model %s)", info.Name, info.Model), nil
			},
		},
		{
			name: "Create thread",
			run: func(ctx context.Context) (string, error) {
				threadID, err := client.CreateThread(ctx, map[string]string{"purpose": "diagnose"})
				if err != nil {
					return "", err
				}
				return threadID, nil
			},
		},
	}

	if cfg.DB.Configured() {
		checks = append(checks, diagnosticCheck{
			name: "Database",
			run: func(ctx context.Context) (string, error) {
				db, err := postgres.NewDB(cfg.DB, logger.NewNop())
				if err != nil {
					return "", err
				}
				defer db.Close()
				if err := db.Ping(ctx); err != nil {
					return "", err
				}
				return "connected", nil
			},
		})
	}
	return checks
}
