package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	analyzeDomain string
	analyzeDate   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run an analysis for one domain, or all domains when --domain is empty",
	Run:   Analyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDomain, "domain", "", "domain code (macro, leadership, breadth, liquidity, volatility, sentiment)")
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "analysis date YYYY-MM-DD, defaults to today")
}

func Analyze(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var asOfDate time.Time
	if analyzeDate != "" {
		parsed, err := utils.ParseDate(analyzeDate)
		if err != nil {
			log.Fatalf("Invalid --date: %v", err)
		}
		asOfDate = parsed
	}

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	services := appDep.NewServices()

	var result interface{}
	if analyzeDomain == "" {
		result, err = services.DomainAnalysisBatchService.RunAll(ctx, asOfDate)
	} else {
		result, err = services.DomainAnalysisService.Analyze(ctx, analyzeDomain, asOfDate)
	}
	if err != nil {
		appDep.Close()
		log.Fatalf("Analysis failed: %v", err)
	}

	printJSON(result)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
